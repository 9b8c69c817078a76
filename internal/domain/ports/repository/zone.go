package repository

import (
	"context"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

// ZoneRepository is the port for demand zones.
type ZoneRepository interface {
	Save(ctx context.Context, zone *model.DemandZone) error
	FindFresh(ctx context.Context) ([]*model.DemandZone, error)
	MarkAlertSent(ctx context.Context, id string) error
	MarkEntrySent(ctx context.Context, id string) error
	// Invalidate zeroes freshness and trade score after a distal breach.
	Invalidate(ctx context.Context, id string) error

	// --- Statistics read-only methods ---
	CountFresh(ctx context.Context) (int, error)
}
