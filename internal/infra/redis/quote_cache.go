package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuoteCache keeps recently fetched day lows so back-to-back sweeps (the
// close-of-session schedule fires every 10 minutes) do not hammer the
// quote provider.
type QuoteCache struct {
	client *redClient
	ttl    time.Duration
}

func NewQuoteCache(client *redClient, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *QuoteCache) key(symbol string) string { return "day_low:" + symbol }

// DayLow returns the cached day low for symbol, or ok=false on a miss.
func (c *QuoteCache) DayLow(ctx context.Context, symbol string) (float64, bool, error) {
	s, err := c.client.Get(ctx, c.key(symbol))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (c *QuoteCache) StoreDayLow(ctx context.Context, symbol string, low float64) error {
	return c.client.Set(ctx, c.key(symbol), strconv.FormatFloat(low, 'f', -1, 64), c.ttl)
}

func (c *QuoteCache) Invalidate(ctx context.Context, symbol string) error {
	return c.client.Del(ctx, c.key(symbol))
}
