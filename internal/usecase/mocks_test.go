// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// --- zone repository ---

type memZoneRepo struct {
	mu    sync.Mutex
	zones map[string]*model.DemandZone
	seq   int
}

func newMemZoneRepo() *memZoneRepo {
	return &memZoneRepo{zones: make(map[string]*model.DemandZone)}
}

func (r *memZoneRepo) Save(ctx context.Context, zone *model.DemandZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if zone.ID == "" {
		r.seq++
		zone.ID = fmt.Sprintf("z%d", r.seq)
	}
	cp := *zone
	r.zones[zone.ID] = &cp
	return nil
}

func (r *memZoneRepo) FindFresh(ctx context.Context) ([]*model.DemandZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.DemandZone
	for _, z := range r.zones {
		if z.IsFresh() {
			cp := *z
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memZoneRepo) MarkAlertSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return domain.ErrNotFound
	}
	z.ZoneAlertSent = true
	return nil
}

func (r *memZoneRepo) MarkEntrySent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return domain.ErrNotFound
	}
	z.ZoneEntrySent = true
	return nil
}

func (r *memZoneRepo) Invalidate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return domain.ErrNotFound
	}
	z.Freshness = 0
	z.TradeScore = 0
	return nil
}

func (r *memZoneRepo) CountFresh(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, z := range r.zones {
		if z.IsFresh() {
			n++
		}
	}
	return n, nil
}

func (r *memZoneRepo) get(id string) *model.DemandZone {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.zones[id]
	return &cp
}

// --- trade repository ---

type memTradeRepo struct {
	mu     sync.Mutex
	trades map[string]*model.Trade
	seq    int
}

func newMemTradeRepo() *memTradeRepo {
	return &memTradeRepo{trades: make(map[string]*model.Trade)}
}

func (r *memTradeRepo) Save(ctx context.Context, trade *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trade.ID == "" {
		r.seq++
		trade.ID = fmt.Sprintf("t%d", r.seq)
	}
	cp := *trade
	r.trades[trade.ID] = &cp
	return nil
}

func (r *memTradeRepo) FindOpen(ctx context.Context) ([]*model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Trade
	for _, t := range r.trades {
		if t.IsOpen() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTradeRepo) SetAlertSent(ctx context.Context, id string, sent bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.AlertSent = sent
	return nil
}

func (r *memTradeRepo) MarkEntryAlertSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.EntryAlertSent = true
	return nil
}

func (r *memTradeRepo) CountOpen(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.trades {
		if t.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *memTradeRepo) get(id string) *model.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.trades[id]
	return &cp
}

// --- instrument repository ---

type memInstrumentRepo struct {
	mu      sync.Mutex
	order   []string
	instrs  map[string]*model.Instrument
	saveErr error
}

func newMemInstrumentRepo() *memInstrumentRepo {
	return &memInstrumentRepo{instrs: make(map[string]*model.Instrument)}
}

func (r *memInstrumentRepo) Save(ctx context.Context, instr *model.Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.instrs[instr.TradingSymbol]; !ok {
		r.order = append(r.order, instr.TradingSymbol)
	}
	cp := *instr
	r.instrs[instr.TradingSymbol] = &cp
	return nil
}

func (r *memInstrumentRepo) SaveBatch(ctx context.Context, instrs []*model.Instrument) (int, error) {
	for _, in := range instrs {
		if err := r.Save(ctx, in); err != nil {
			return 0, err
		}
	}
	return len(instrs), nil
}

func (r *memInstrumentRepo) ListSymbols(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out, nil
}

func (r *memInstrumentRepo) FindBySymbol(ctx context.Context, tradingSymbol string) (*model.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.instrs[tradingSymbol]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *in
	return &cp, nil
}

func (r *memInstrumentRepo) CountIlliquid(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, in := range r.instrs {
		if in.Illiquid {
			n++
		}
	}
	return n, nil
}

// --- checkpoint store ---

type memCheckpointStore struct {
	mu   sync.Mutex
	vals map[string]string
}

func newMemCheckpointStore() *memCheckpointStore {
	return &memCheckpointStore{vals: make(map[string]string)}
}

func (s *memCheckpointStore) LastProcessed(ctx context.Context, job string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vals[job], nil
}

func (s *memCheckpointStore) SetLastProcessed(ctx context.Context, job, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[job] = symbol
	return nil
}

func (s *memCheckpointStore) Clear(ctx context.Context, job string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vals, job)
	return nil
}

// --- market data ---

type mockMarket struct {
	mu      sync.Mutex
	lows    map[string]float64
	history map[string][]model.Candle
	histErr map[string]error
	fetched []string
}

func newMockMarket() *mockMarket {
	return &mockMarket{
		lows:    make(map[string]float64),
		history: make(map[string][]model.Candle),
		histErr: make(map[string]error),
	}
}

func (m *mockMarket) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	low, ok := m.lows[symbol]
	if !ok {
		return nil, domain.ErrNoPriceData
	}
	return &model.Quote{Symbol: symbol, DayLow: low, FetchedAt: time.Now()}, nil
}

func (m *mockMarket) DayLows(ctx context.Context, symbols []string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64)
	for _, s := range symbols {
		m.fetched = append(m.fetched, s)
		if low, ok := m.lows[s]; ok {
			out[s] = low
		}
	}
	return out, nil
}

func (m *mockMarket) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.histErr[symbol]; ok {
		return nil, err
	}
	return m.history[symbol], nil
}

// --- notifier ---

type mockNotifier struct {
	mu      sync.Mutex
	sent    []string
	failN   int // fail the first N sends
	natural int
}

func (n *mockNotifier) Send(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.natural++
	if n.natural <= n.failN {
		return fmt.Errorf("send failed")
	}
	n.sent = append(n.sent, text)
	return nil
}

func (n *mockNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}
