package repository

import (
	"context"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

// TradeRepository is the port for planned trades.
type TradeRepository interface {
	Save(ctx context.Context, trade *model.Trade) error
	FindOpen(ctx context.Context) ([]*model.Trade, error)
	SetAlertSent(ctx context.Context, id string, sent bool) error
	MarkEntryAlertSent(ctx context.Context, id string) error

	// --- Statistics read-only methods ---
	CountOpen(ctx context.Context) (int, error)
}
