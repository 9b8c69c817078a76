package sched

import (
	"time"
)

// MarketClock answers calendar questions in the exchange's time zone.
// Exchange holidays are not modeled; a sweep on a holiday finds flat data
// and sends nothing.
type MarketClock struct {
	loc *time.Location
}

func NewMarketClock(tz string) (*MarketClock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &MarketClock{loc: loc}, nil
}

func (c *MarketClock) Location() *time.Location { return c.loc }

func (c *MarketClock) Now() time.Time { return time.Now().In(c.loc) }

// IsTradingDay reports whether t falls on a weekday in the market zone.
func (c *MarketClock) IsTradingDay(t time.Time) bool {
	wd := t.In(c.loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
