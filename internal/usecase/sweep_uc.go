// File: internal/usecase/sweep_uc.go
package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/adapter"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"
	"github.com/annuu1/StockAlertBot/internal/infra/logging"
	"github.com/annuu1/StockAlertBot/internal/infra/market"
	"github.com/annuu1/StockAlertBot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SweepUseCase = (*sweepUC)(nil)

// SweepSummary reports what one sweep did.
type SweepSummary struct {
	Zones      int
	Trades     int
	Symbols    int
	AlertsSent int
	Skipped    int // documents without price data
	Errors     int // documents that failed without aborting the sweep
}

type SweepUseCase interface {
	// Run executes one full alert pass over fresh zones and open trades.
	Run(ctx context.Context) (*SweepSummary, error)
}

// SweepOptions carries the alert thresholds and market-session parameters.
// CloseHour/CloseMinute come from the parsed session_close_at config value;
// the caller owns the default, so a midnight close is representable.
type SweepOptions struct {
	DefaultSuffix string         // exchange suffix for bare symbols
	ZoneApproach  float64        // e.g. 0.03
	TradeApproach float64        // e.g. 0.02
	MarketTZ      *time.Location // session times are interpreted here
	CloseHour     int
	CloseMinute   int
}

type sweepUC struct {
	zones    repository.ZoneRepository
	trades   repository.TradeRepository
	market   adapter.MarketDataAdapter
	notifier adapter.Notifier
	opts     SweepOptions
	log      *zerolog.Logger

	now func() time.Time // swapped in tests
}

func NewSweepUseCase(
	zones repository.ZoneRepository,
	trades repository.TradeRepository,
	marketData adapter.MarketDataAdapter,
	notifier adapter.Notifier,
	opts SweepOptions,
	logger *zerolog.Logger,
) *sweepUC {
	if opts.DefaultSuffix == "" {
		opts.DefaultSuffix = ".NS"
	}
	if opts.ZoneApproach <= 0 {
		opts.ZoneApproach = 0.03
	}
	if opts.TradeApproach <= 0 {
		opts.TradeApproach = 0.02
	}
	if opts.MarketTZ == nil {
		opts.MarketTZ = time.UTC
	}
	compLog := logger.With().Str("component", "SweepUC").Logger()
	return &sweepUC{
		zones:    zones,
		trades:   trades,
		market:   marketData,
		notifier: notifier,
		opts:     opts,
		log:      &compLog,
		now:      time.Now,
	}
}

func (uc *sweepUC) Run(ctx context.Context) (*SweepSummary, error) {
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "SweepUC.Run")()

	zones, err := uc.zones.FindFresh(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := uc.trades.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	symbols := uc.collectSymbols(zones, trades)
	sum := &SweepSummary{Zones: len(zones), Trades: len(trades), Symbols: len(symbols)}
	if len(symbols) == 0 {
		log.Debug().Msg("nothing to sweep")
		return sum, nil
	}

	log.Info().Int("zones", len(zones)).Int("trades", len(trades)).
		Int("symbols", len(symbols)).Msg("sweep started")

	lows, err := uc.market.DayLows(ctx, symbols)
	if err != nil {
		return sum, err
	}

	now := uc.now().In(uc.opts.MarketTZ)

	for _, zone := range zones {
		if err := uc.processZone(ctx, zone, lows, sum); err != nil {
			metrics.IncSweepDocError()
			sum.Errors++
			log.Error().Err(err).Str("zone_id", zone.ZoneID).Msg("zone processing failed")
		}
	}
	for _, trade := range trades {
		if err := uc.processTrade(ctx, trade, lows, now, sum); err != nil {
			metrics.IncSweepDocError()
			sum.Errors++
			log.Error().Err(err).Str("symbol", trade.Symbol).Msg("trade processing failed")
		}
	}

	log.Info().Int("alerts", sum.AlertsSent).Int("skipped", sum.Skipped).
		Int("errors", sum.Errors).Msg("sweep finished")
	return sum, nil
}

// collectSymbols unions the zone tickers and trade symbols, patched with the
// exchange suffix, sorted for deterministic fetch order.
func (uc *sweepUC) collectSymbols(zones []*model.DemandZone, trades []*model.Trade) []string {
	set := make(map[string]struct{}, len(zones)+len(trades))
	for _, z := range zones {
		set[market.PatchSymbol(z.Ticker, uc.opts.DefaultSuffix)] = struct{}{}
	}
	for _, t := range trades {
		set[market.PatchSymbol(t.Symbol, uc.opts.DefaultSuffix)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// processZone fires at most one alert of each kind per zone lifetime.
// Flags are set only after a successful send, so a delivery failure is
// retried on the next sweep.
func (uc *sweepUC) processZone(ctx context.Context, zone *model.DemandZone, lows map[string]float64, sum *SweepSummary) error {
	dayLow, ok := lows[market.PatchSymbol(zone.Ticker, uc.opts.DefaultSuffix)]
	if !ok {
		sum.Skipped++
		return nil
	}

	if !zone.ZoneAlertSent {
		frac := zone.ApproachFraction(dayLow)
		if frac > 0 && frac <= uc.opts.ZoneApproach {
			msg := zoneApproachMsg(zone.Ticker, zone.ZoneID, zone.ProximalLine, dayLow)
			if err := uc.notifier.Send(ctx, msg); err != nil {
				return err
			}
			if err := uc.zones.MarkAlertSent(ctx, zone.ID); err != nil {
				return err
			}
			metrics.IncAlertSent("zone_approach")
			sum.AlertsSent++
		}
	}

	if !zone.ZoneEntrySent && dayLow <= zone.ProximalLine {
		msg := zoneEntryMsg(zone.Ticker, zone.ZoneID, zone.ProximalLine, dayLow)
		if err := uc.notifier.Send(ctx, msg); err != nil {
			return err
		}
		if err := uc.zones.MarkEntrySent(ctx, zone.ID); err != nil {
			return err
		}
		metrics.IncAlertSent("zone_entry")
		sum.AlertsSent++
	}

	if dayLow < zone.DistalLine {
		msg := zoneBreachMsg(zone.Ticker, zone.ZoneID, zone.DistalLine, dayLow)
		if err := uc.notifier.Send(ctx, msg); err != nil {
			return err
		}
		if err := uc.zones.Invalidate(ctx, zone.ID); err != nil {
			return err
		}
		metrics.IncAlertSent("zone_breach")
		sum.AlertsSent++
	}

	return nil
}

func (uc *sweepUC) processTrade(ctx context.Context, trade *model.Trade, lows map[string]float64, now time.Time, sum *SweepSummary) error {
	dayLow, ok := lows[market.PatchSymbol(trade.Symbol, uc.opts.DefaultSuffix)]
	if !ok {
		sum.Skipped++
		return nil
	}

	switch {
	case !trade.AlertSent && uc.inApproachBand(trade, dayLow):
		msg := tradeApproachMsg(trade.Symbol, trade.EntryPrice, dayLow)
		if err := uc.notifier.Send(ctx, msg); err != nil {
			return err
		}
		if err := uc.trades.SetAlertSent(ctx, trade.ID, true); err != nil {
			return err
		}
		metrics.IncAlertSent("trade_approach")
		sum.AlertsSent++

	case !trade.EntryAlertSent && dayLow <= trade.EntryPrice:
		msg := tradeEntryMsg(trade.Symbol, trade.EntryPrice, dayLow)
		if err := uc.notifier.Send(ctx, msg); err != nil {
			return err
		}
		if err := uc.trades.MarkEntryAlertSent(ctx, trade.ID); err != nil {
			return err
		}
		metrics.IncAlertSent("trade_entry")
		sum.AlertsSent++

	case trade.AlertSent && !trade.EntryAlertSent && uc.afterClose(now):
		// Re-arm the approach alert once the session is over so tomorrow's
		// open can trigger it again.
		if err := uc.trades.SetAlertSent(ctx, trade.ID, false); err != nil {
			return err
		}
		uc.log.Debug().Str("symbol", trade.Symbol).Msg("approach alert re-armed after close")
	}

	return nil
}

func (uc *sweepUC) inApproachBand(trade *model.Trade, dayLow float64) bool {
	frac := trade.ApproachFraction(dayLow)
	return frac > 0 && frac <= uc.opts.TradeApproach
}

func (uc *sweepUC) afterClose(now time.Time) bool {
	h, m := now.Hour(), now.Minute()
	return h > uc.opts.CloseHour || (h == uc.opts.CloseHour && m >= uc.opts.CloseMinute)
}
