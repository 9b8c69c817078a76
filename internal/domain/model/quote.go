package model

import "time"

// Quote is a snapshot of the current trading day for one symbol.
type Quote struct {
	Symbol    string
	DayLow    float64
	DayHigh   float64
	LastPrice float64
	FetchedAt time.Time
}

// Candle is one daily OHLC bar, used by the liquidity screener.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// IsFlat reports whether the bar printed no range at all (O=H=L=C),
// a strong illiquidity signal when it repeats.
func (c Candle) IsFlat() bool {
	return c.Open == c.High && c.High == c.Low && c.Low == c.Close
}
