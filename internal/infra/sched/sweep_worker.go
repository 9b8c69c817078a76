// File: internal/infra/sched/sweep_worker.go
package sched

import (
	"context"
	"errors"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/infra/logging"
	"github.com/annuu1/StockAlertBot/internal/infra/metrics"
	"github.com/annuu1/StockAlertBot/internal/infra/redis"
	"github.com/annuu1/StockAlertBot/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sweepLockKey = "lock:sweep"

// SweepWorker runs the alert sweep on its cron schedule. Manual dispatches
// (bot command, admin API) go through the same Dispatch path and therefore
// the same lock, so two sweeps never overlap.
type SweepWorker struct {
	crons         *CronSet
	clock         *MarketClock
	sweep         usecase.SweepUseCase
	locker        redis.Locker
	lockTTL       time.Duration
	sweepTimeout  time.Duration
	skipOffMarket bool
	log           *zerolog.Logger
}

func NewSweepWorker(
	crons *CronSet,
	clock *MarketClock,
	sweep usecase.SweepUseCase,
	locker redis.Locker,
	lockTTL, sweepTimeout time.Duration,
	skipOffMarket bool,
	logger *zerolog.Logger,
) *SweepWorker {
	compLog := logger.With().Str("component", "SweepWorker").Logger()
	return &SweepWorker{
		crons:         crons,
		clock:         clock,
		sweep:         sweep,
		locker:        locker,
		lockTTL:       lockTTL,
		sweepTimeout:  sweepTimeout,
		skipOffMarket: skipOffMarket,
		log:           &compLog,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting sweep worker")
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping sweep worker")
			return ctx.Err()
		case now := <-ticker.C:
			if !w.crons.Due(now.UTC()) {
				continue
			}
			if _, err := w.Dispatch(ctx, "cron"); err != nil &&
				!errors.Is(err, domain.ErrSweepInProgress) &&
				!errors.Is(err, domain.ErrMarketClosed) {
				w.log.Error().Err(err).Msg("scheduled sweep failed")
			}
		}
	}
}

// Dispatch runs one sweep now, guarded by the market-day gate and the redis
// lock. It is safe to call from any goroutine.
func (w *SweepWorker) Dispatch(ctx context.Context, reason string) (*usecase.SweepSummary, error) {
	if w.skipOffMarket && !w.clock.IsTradingDay(w.clock.Now()) {
		metrics.IncSweep("skipped_market")
		w.log.Debug().Str("reason", reason).Msg("sweep skipped: market closed")
		return nil, domain.ErrMarketClosed
	}

	token, err := w.locker.TryLock(ctx, sweepLockKey, w.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrSweepInProgress) {
			metrics.IncSweep("skipped_lock")
			w.log.Warn().Str("reason", reason).Msg("sweep skipped: lock held")
		}
		return nil, err
	}
	defer func() {
		if err := w.locker.Unlock(context.Background(), sweepLockKey, token); err != nil {
			w.log.Warn().Err(err).Msg("sweep lock release failed")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, w.sweepTimeout)
	defer cancel()
	sweepID := uuid.NewString()
	runCtx = logging.WithSweepID(runCtx, sweepID)

	start := time.Now()
	sum, err := w.sweep.Run(runCtx)
	metrics.ObserveSweepDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.IncSweep("failed")
		return sum, err
	}
	metrics.IncSweep("completed")
	w.log.Info().Str("sweep_id", sweepID).Str("reason", reason).
		Int("alerts", sum.AlertsSent).Msg("sweep dispatched")
	return sum, nil
}
