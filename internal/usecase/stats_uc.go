package usecase

import (
	"context"

	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsSnapshot is what the /stats bot command and the admin API report.
type StatsSnapshot struct {
	FreshZones          int `json:"fresh_zones"`
	OpenTrades          int `json:"open_trades"`
	IlliquidInstruments int `json:"illiquid_instruments"`
}

type StatsUseCase interface {
	Snapshot(ctx context.Context) (*StatsSnapshot, error)
}

type statsUC struct {
	zones       repository.ZoneRepository
	trades      repository.TradeRepository
	instruments repository.InstrumentRepository
	log         *zerolog.Logger
}

func NewStatsUseCase(
	zones repository.ZoneRepository,
	trades repository.TradeRepository,
	instruments repository.InstrumentRepository,
	logger *zerolog.Logger,
) *statsUC {
	return &statsUC{zones: zones, trades: trades, instruments: instruments, log: logger}
}

func (uc *statsUC) Snapshot(ctx context.Context) (*StatsSnapshot, error) {
	zones, err := uc.zones.CountFresh(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := uc.trades.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	illiquid, err := uc.instruments.CountIlliquid(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsSnapshot{
		FreshZones:          zones,
		OpenTrades:          trades,
		IlliquidInstruments: illiquid,
	}, nil
}
