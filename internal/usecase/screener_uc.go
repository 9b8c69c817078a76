// File: internal/usecase/screener_uc.go
package usecase

import (
	"context"
	"strings"
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
var _ ScreenerUseCase = (*screenerUC)(nil)

// Illiquidity criteria over one year of daily bars.
const (
	maxFlatDays      = 5    // max sessions where O=H=L=C
	minPrice         = 10.0 // minimum last close (₹)
	sameHighWindow   = 15   // consecutive sessions with an identical high
	historyDays      = 365
	checkpointJob    = "screener"
	reasonNoData     = "no data or delisted"
	reasonFlatDays   = "too many flat sessions"
	reasonPriceLow   = "price too low"
	reasonStuckHighs = "unchanged high for 15 sessions"
)

// ScreenReport summarizes one screener run.
type ScreenReport struct {
	Processed int
	Flagged   int
	Resumed   bool // run continued from a previous checkpoint
}

type ScreenerUseCase interface {
	// Run walks the instrument universe and flags illiquid listings.
	// Interrupted runs resume from the last checkpoint.
	Run(ctx context.Context) (*ScreenReport, error)
}

type screenerUC struct {
	instruments repository.InstrumentRepository
	checkpoints repository.CheckpointStore
	market      adapter.MarketDataAdapter
	suffix      string
	log         *zerolog.Logger

	now func() time.Time
}

func NewScreenerUseCase(
	instruments repository.InstrumentRepository,
	checkpoints repository.CheckpointStore,
	marketData adapter.MarketDataAdapter,
	defaultSuffix string,
	logger *zerolog.Logger,
) *screenerUC {
	if defaultSuffix == "" {
		defaultSuffix = ".NS"
	}
	compLog := logger.With().Str("component", "ScreenerUC").Logger()
	return &screenerUC{
		instruments: instruments,
		checkpoints: checkpoints,
		market:      marketData,
		suffix:      defaultSuffix,
		log:         &compLog,
		now:         time.Now,
	}
}

func (uc *screenerUC) Run(ctx context.Context) (*ScreenReport, error) {
	symbols, err := uc.instruments.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}

	report := &ScreenReport{}
	start := 0
	if last, err := uc.checkpoints.LastProcessed(ctx, checkpointJob); err == nil && last != "" {
		for i, s := range symbols {
			if s == last {
				start = i + 1
				report.Resumed = true
				break
			}
		}
	}

	uc.log.Info().Int("universe", len(symbols)).Int("start", start).Msg("screener run started")

	for i := start; i < len(symbols); i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		symbol := symbols[i]
		symCtx := logging.WithSymbol(ctx, symbol)
		log := logging.With(symCtx, uc.log)

		note, flagged := uc.screenOne(symCtx, symbol)
		metrics.IncScreenerProcessed()
		report.Processed++

		instr, err := uc.instruments.FindBySymbol(symCtx, symbol)
		if err != nil {
			log.Warn().Err(err).Msg("instrument lookup failed")
			continue
		}
		if flagged {
			instr.MarkIlliquid(note)
			report.Flagged++
			metrics.IncScreenerIlliquid(firstReason(note))
			log.Info().Str("reason", note).Msg("instrument flagged illiquid")
		} else {
			instr.MarkLiquid()
		}
		if err := uc.instruments.Save(symCtx, instr); err != nil {
			return report, err
		}
		if err := uc.checkpoints.SetLastProcessed(symCtx, checkpointJob, symbol); err != nil {
			log.Warn().Err(err).Msg("checkpoint save failed")
		}
	}

	// Full pass done: next run starts from the top.
	if err := uc.checkpoints.Clear(ctx, checkpointJob); err != nil {
		uc.log.Warn().Err(err).Msg("checkpoint clear failed")
	}
	uc.log.Info().Int("processed", report.Processed).Int("flagged", report.Flagged).
		Msg("screener run finished")
	return report, nil
}

// screenOne fetches a year of daily candles and applies the liquidity rules.
// A fetch failure counts as illiquid: dead listings stop returning data.
func (uc *screenerUC) screenOne(ctx context.Context, symbol string) (note string, flagged bool) {
	to := uc.now()
	from := to.AddDate(0, 0, -historyDays)

	hist, err := uc.market.DailyHistory(ctx, market.PatchSymbol(symbol, uc.suffix), from, to)
	if err != nil || len(hist) == 0 {
		return reasonNoData, true
	}

	var reasons []string
	if flatSessionCount(hist) > maxFlatDays {
		reasons = append(reasons, reasonFlatDays)
	}
	if hist[len(hist)-1].Close <= minPrice {
		reasons = append(reasons, reasonPriceLow)
	}
	if hasConstantHigh(hist, sameHighWindow) {
		reasons = append(reasons, reasonStuckHighs)
	}
	if len(reasons) == 0 {
		return "", false
	}
	return strings.Join(reasons, ", "), true
}

// flatSessionCount counts bars where open, high, low and close are equal.
func flatSessionCount(candles []model.Candle) int {
	n := 0
	for _, c := range candles {
		if c.IsFlat() {
			n++
		}
	}
	return n
}

// hasConstantHigh reports whether any `window` consecutive bars share the
// same high.
func hasConstantHigh(candles []model.Candle, window int) bool {
	if window <= 1 || len(candles) < window {
		return false
	}
	run := 1
	for i := 1; i < len(candles); i++ {
		if candles[i].High == candles[i-1].High {
			run++
			if run >= window {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func firstReason(note string) string {
	if i := strings.Index(note, ","); i >= 0 {
		return note[:i]
	}
	return note
}
