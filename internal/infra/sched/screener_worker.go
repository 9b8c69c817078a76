package sched

import (
	"context"
	"errors"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/infra/redis"
	"github.com/annuu1/StockAlertBot/internal/usecase"

	"github.com/rs/zerolog"
)

const screenerLockKey = "lock:screener"

// ScreenerWorker kicks off the liquidity screener on its (off-hours) cron
// schedule. A run can take hours over a large universe; the checkpoint in
// the use case makes interruptions cheap.
type ScreenerWorker struct {
	cron     *CronSet
	screener usecase.ScreenerUseCase
	locker   redis.Locker
	log      *zerolog.Logger
}

func NewScreenerWorker(cron *CronSet, screener usecase.ScreenerUseCase, locker redis.Locker, logger *zerolog.Logger) *ScreenerWorker {
	compLog := logger.With().Str("component", "ScreenerWorker").Logger()
	return &ScreenerWorker{
		cron:     cron,
		screener: screener,
		locker:   locker,
		log:      &compLog,
	}
}

func (w *ScreenerWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting screener worker")
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping screener worker")
			return ctx.Err()
		case now := <-ticker.C:
			if !w.cron.Due(now.UTC()) {
				continue
			}
			w.runOnce(ctx)
		}
	}
}

func (w *ScreenerWorker) runOnce(ctx context.Context) {
	// The lock TTL bounds a wedged run; a healthy run outlives it only if
	// the next schedule is far enough away, which a weekly cron guarantees.
	token, err := w.locker.TryLock(ctx, screenerLockKey, 12*time.Hour)
	if err != nil {
		if errors.Is(err, domain.ErrSweepInProgress) {
			w.log.Warn().Msg("screener run skipped: lock held")
		} else {
			w.log.Error().Err(err).Msg("screener lock failed")
		}
		return
	}
	defer func() {
		if err := w.locker.Unlock(context.Background(), screenerLockKey, token); err != nil {
			w.log.Warn().Err(err).Msg("screener lock release failed")
		}
	}()

	report, err := w.screener.Run(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("screener run failed")
		return
	}
	w.log.Info().Int("processed", report.Processed).Int("flagged", report.Flagged).
		Bool("resumed", report.Resumed).Msg("screener run complete")
}
