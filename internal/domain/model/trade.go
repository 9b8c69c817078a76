package model

import (
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
)

type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

// Trade is a planned entry the user is waiting on. The sweep alerts when the
// day low approaches or crosses the entry price.
type Trade struct {
	ID             string      `bson:"_id,omitempty"`
	Symbol         string      `bson:"symbol"`
	EntryPrice     float64     `bson:"entry_price"`
	StopLoss       float64     `bson:"stop_loss,omitempty"`
	Target         float64     `bson:"target,omitempty"`
	Status         TradeStatus `bson:"status"`
	AlertSent      bool        `bson:"alert_sent"`
	EntryAlertSent bool        `bson:"entry_alert_sent"`
	CreatedAt      time.Time   `bson:"created_at,omitempty"`
}

// NewTrade validates and constructs an open trade.
func NewTrade(symbol string, entryPrice float64) (*Trade, error) {
	if symbol == "" || entryPrice <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Trade{
		Symbol:     symbol,
		EntryPrice: entryPrice,
		Status:     TradeStatusOpen,
		CreatedAt:  time.Now(),
	}, nil
}

func (t *Trade) IsOpen() bool { return t.Status == TradeStatusOpen }

// ApproachFraction returns |entry-low|/entry.
func (t *Trade) ApproachFraction(dayLow float64) float64 {
	if t.EntryPrice == 0 {
		return 0
	}
	d := t.EntryPrice - dayLow
	if d < 0 {
		d = -d
	}
	return d / t.EntryPrice
}
