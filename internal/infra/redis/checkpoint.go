package redis

import (
	"context"
	"errors"

	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore persists the last symbol a long-running job finished, so a
// restarted screener resumes mid-universe instead of re-fetching a year of
// history for thousands of symbols.
type CheckpointStore struct {
	client *redClient
}

func NewCheckpointStore(client *redClient) *CheckpointStore {
	return &CheckpointStore{client: client}
}

func (s *CheckpointStore) key(job string) string { return "checkpoint:" + job }

func (s *CheckpointStore) LastProcessed(ctx context.Context, job string) (string, error) {
	v, err := s.client.Get(ctx, s.key(job))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *CheckpointStore) SetLastProcessed(ctx context.Context, job, symbol string) error {
	return s.client.Set(ctx, s.key(job), symbol, 0)
}

func (s *CheckpointStore) Clear(ctx context.Context, job string) error {
	return s.client.Del(ctx, s.key(job))
}
