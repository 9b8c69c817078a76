package adapter

import (
	"context"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

// MarketDataAdapter fetches price data from the quote provider.
type MarketDataAdapter interface {
	// Quote returns the current-day snapshot for one symbol.
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
	// DayLows batch-fetches day lows for many symbols in one pass.
	// Symbols with no data are absent from the result, not an error.
	DayLows(ctx context.Context, symbols []string) (map[string]float64, error)
	// DailyHistory returns daily candles covering [from, to].
	DailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error)
}
