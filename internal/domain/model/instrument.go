package model

import (
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
)

// Instrument is a tradeable listing imported from the exchange instrument
// dump. The screener annotates it with liquidity findings.
type Instrument struct {
	ID            string    `bson:"_id,omitempty"`
	TradingSymbol string    `bson:"tradingsymbol"`
	Name          string    `bson:"name,omitempty"`
	Exchange      string    `bson:"exchange,omitempty"`
	Illiquid      bool      `bson:"illiquid"`
	IlliquidNote  string    `bson:"illiquid_note,omitempty"`
	ScreenedAt    time.Time `bson:"screened_at,omitempty"`
	ImportedAt    time.Time `bson:"imported_at,omitempty"`
}

func NewInstrument(tradingSymbol, name, exchange string) (*Instrument, error) {
	if tradingSymbol == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Instrument{
		TradingSymbol: tradingSymbol,
		Name:          name,
		Exchange:      exchange,
		ImportedAt:    time.Now(),
	}, nil
}

// MarkIlliquid records a screening verdict with its reason.
func (i *Instrument) MarkIlliquid(note string) {
	i.Illiquid = true
	i.IlliquidNote = note
	i.ScreenedAt = time.Now()
}

// MarkLiquid clears any previous verdict.
func (i *Instrument) MarkLiquid() {
	i.Illiquid = false
	i.IlliquidNote = ""
	i.ScreenedAt = time.Now()
}
