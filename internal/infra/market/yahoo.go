// File: internal/infra/market/yahoo.go
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/annuu1/StockAlertBot/internal/config"
	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/adapter"
	"github.com/annuu1/StockAlertBot/internal/infra/metrics"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// QuoteCache is the subset of the redis cache the adapter needs.
type QuoteCache interface {
	DayLow(ctx context.Context, symbol string) (float64, bool, error)
	StoreDayLow(ctx context.Context, symbol string, low float64) error
}

// YahooAdapter implements adapter.MarketDataAdapter against the Yahoo
// Finance v8 chart API.
type YahooAdapter struct {
	baseURL string
	http    *http.Client
	cache   QuoteCache
	workers int
	log     *zerolog.Logger
}

var _ adapter.MarketDataAdapter = (*YahooAdapter)(nil)

func NewYahooAdapter(cfg *config.MarketConfig, cache QuoteCache, logger *zerolog.Logger) *YahooAdapter {
	compLog := logger.With().Str("component", "YahooAdapter").Logger()
	return &YahooAdapter{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		workers: cfg.FetchWorkers,
		log:     &compLog,
	}
}

func (a *YahooAdapter) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	res, err := a.fetchChart(ctx, symbol, map[string]string{"range": "1d", "interval": "1d"})
	if err != nil {
		return nil, err
	}
	low, high, last, ok := res.daySnapshot()
	if !ok {
		metrics.IncQuoteFetchError("empty")
		return nil, domain.ErrNoPriceData
	}
	return &model.Quote{
		Symbol:    symbol,
		DayLow:    low,
		DayHigh:   high,
		LastPrice: last,
		FetchedAt: time.Now(),
	}, nil
}

// DayLows fetches day lows for all symbols with bounded concurrency. Cached
// values are reused; symbols that fail or have no data are simply absent
// from the result, matching the sweep's skip semantics.
func (a *YahooAdapter) DayLows(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)

	for _, symbol := range symbols {
		if a.cache != nil {
			if low, ok, err := a.cache.DayLow(ctx, symbol); err == nil && ok {
				metrics.IncQuoteCache("hit")
				out[symbol] = low
				continue
			}
			metrics.IncQuoteCache("miss")
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			q, err := a.Quote(ctx, symbol)
			if err != nil {
				a.log.Warn().Err(err).Str("symbol", symbol).Msg("day low fetch failed")
				return
			}
			if a.cache != nil {
				if err := a.cache.StoreDayLow(ctx, symbol, q.DayLow); err != nil {
					a.log.Debug().Err(err).Str("symbol", symbol).Msg("day low cache store failed")
				}
			}
			mu.Lock()
			out[symbol] = q.DayLow
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return out, ctx.Err()
}

func (a *YahooAdapter) DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error) {
	res, err := a.fetchChart(ctx, symbol, map[string]string{
		"period1":  strconv.FormatInt(from.Unix(), 10),
		"period2":  strconv.FormatInt(to.Unix(), 10),
		"interval": "1d",
	})
	if err != nil {
		return nil, err
	}
	return res.candles(), nil
}

func (a *YahooAdapter) fetchChart(ctx context.Context, symbol string, params map[string]string) (*chartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s", a.baseURL, url.PathEscape(symbol))

	var res *chartResult
	err := retry.Do(
		func() error {
			start := time.Now()
			r, err := a.doFetch(ctx, u, params)
			metrics.ObserveQuoteFetch(int(time.Since(start).Milliseconds()), err == nil)
			if err != nil {
				return err
			}
			res = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.log.Warn().Err(err).Str("symbol", symbol).Uint("attempt", n).Msg("chart fetch retry")
		}),
	)
	return res, err
}

func (a *YahooAdapter) doFetch(ctx context.Context, u string, params map[string]string) (*chartResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	// Yahoo rejects requests without a browser-like UA.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		metrics.IncQuoteFetchError("http")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IncQuoteFetchError("http")
		return nil, fmt.Errorf("chart api status %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.IncQuoteFetchError("decode")
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if body.Chart.Error != nil {
		metrics.IncQuoteFetchError("http")
		return nil, fmt.Errorf("chart api error: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		metrics.IncQuoteFetchError("empty")
		return nil, domain.ErrNoPriceData
	}
	return &body.Chart.Result[0], nil
}

// ---- wire types ----

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// daySnapshot extracts the latest bar's low/high and the last price.
// Truncated responses can ship ragged arrays; never index past the
// shortest one.
func (r *chartResult) daySnapshot() (low, high, last float64, ok bool) {
	if len(r.Indicators.Quote) == 0 {
		return 0, 0, 0, false
	}
	q := r.Indicators.Quote[0]
	n := minLen(len(q.Low), len(q.High))
	for i := n - 1; i >= 0; i-- {
		if q.Low[i] != nil && q.High[i] != nil {
			return *q.Low[i], *q.High[i], r.Meta.RegularMarketPrice, true
		}
	}
	return 0, 0, 0, false
}

// candles converts the chart arrays to daily bars, skipping null slots
// (holidays, halted sessions) and anything past the shortest array.
func (r *chartResult) candles() []model.Candle {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	n := minLen(len(r.Timestamp), len(q.Open), len(q.High), len(q.Low), len(q.Close))
	out := make([]model.Candle, 0, n)
	for i := 0; i < n; i++ {
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		c := model.Candle{
			Date:  time.Unix(r.Timestamp[i], 0).UTC(),
			Open:  *q.Open[i],
			High:  *q.High[i],
			Low:   *q.Low[i],
			Close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		out = append(out, c)
	}
	return out
}

func minLen(first int, rest ...int) int {
	n := first
	for _, l := range rest {
		if l < n {
			n = l
		}
	}
	return n
}
