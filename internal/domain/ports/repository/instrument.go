package repository

import (
	"context"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

// InstrumentRepository is the port for the instrument universe.
type InstrumentRepository interface {
	Save(ctx context.Context, instr *model.Instrument) error
	SaveBatch(ctx context.Context, instrs []*model.Instrument) (int, error)
	// ListSymbols returns all trading symbols in import order.
	ListSymbols(ctx context.Context) ([]string, error)
	FindBySymbol(ctx context.Context, tradingSymbol string) (*model.Instrument, error)
	CountIlliquid(ctx context.Context) (int, error)
}

// CheckpointStore remembers screener progress so interrupted runs resume
// instead of starting over.
type CheckpointStore interface {
	LastProcessed(ctx context.Context, job string) (string, error)
	SetLastProcessed(ctx context.Context, job, symbol string) error
	Clear(ctx context.Context, job string) error
}
