// File: internal/infra/sched/sweep_worker_test.go
package sched

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type mockLocker struct {
	mu       sync.Mutex
	held     map[string]string
	unlocked []string
}

func newMockLocker() *mockLocker { return &mockLocker{held: make(map[string]string)} }

func (l *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", domain.ErrSweepInProgress
	}
	l.held[key] = "token"
	return "token", nil
}

func (l *mockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.unlocked = append(l.unlocked, key)
	return nil
}

type mockSweep struct {
	mu   sync.Mutex
	runs int
	sum  *usecase.SweepSummary
	err  error
}

func (m *mockSweep) Run(ctx context.Context) (*usecase.SweepSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	return m.sum, m.err
}

func newTestWorker(t *testing.T, locker *mockLocker, sweep *mockSweep, skipOffMarket bool) *SweepWorker {
	t.Helper()
	clock, err := NewMarketClock("UTC")
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	return NewSweepWorker(
		NewCronSet("* * * * *"),
		clock,
		sweep,
		locker,
		time.Minute,
		time.Minute,
		skipOffMarket,
		newTestLogger(),
	)
}

func TestSweepWorker_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Runs the sweep and releases the lock", func(t *testing.T) {
		// Arrange
		locker := newMockLocker()
		sweep := &mockSweep{sum: &usecase.SweepSummary{AlertsSent: 2}}
		w := newTestWorker(t, locker, sweep, false)

		// Act
		sum, err := w.Dispatch(ctx, "test")

		// Assert
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if sum.AlertsSent != 2 {
			t.Errorf("AlertsSent = %d", sum.AlertsSent)
		}
		if sweep.runs != 1 {
			t.Errorf("runs = %d, want 1", sweep.runs)
		}
		if len(locker.held) != 0 {
			t.Error("lock should be released after the sweep")
		}
		if len(locker.unlocked) != 1 || locker.unlocked[0] != "lock:sweep" {
			t.Errorf("unlocked = %v", locker.unlocked)
		}
	})

	t.Run("Held lock skips the sweep", func(t *testing.T) {
		// Arrange
		locker := newMockLocker()
		locker.held["lock:sweep"] = "other"
		sweep := &mockSweep{sum: &usecase.SweepSummary{}}
		w := newTestWorker(t, locker, sweep, false)

		// Act
		_, err := w.Dispatch(ctx, "test")

		// Assert
		if !errors.Is(err, domain.ErrSweepInProgress) {
			t.Fatalf("err = %v, want ErrSweepInProgress", err)
		}
		if sweep.runs != 0 {
			t.Errorf("runs = %d, want 0", sweep.runs)
		}
	})

	t.Run("Sweep error still releases the lock", func(t *testing.T) {
		// Arrange
		locker := newMockLocker()
		sweep := &mockSweep{err: errors.New("provider down")}
		w := newTestWorker(t, locker, sweep, false)

		// Act
		_, err := w.Dispatch(ctx, "test")

		// Assert
		if err == nil {
			t.Fatal("expected the sweep error to surface")
		}
		if len(locker.held) != 0 {
			t.Error("lock should be released on failure too")
		}
	})
}
