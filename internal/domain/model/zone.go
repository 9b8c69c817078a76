package model

import (
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
)

// DemandZone is a price zone on a stock chart bounded by a proximal line
// (upper edge, where demand is expected to kick in) and a distal line
// (lower edge, beyond which the zone is considered failed).
type DemandZone struct {
	ID            string    `bson:"_id,omitempty"`
	ZoneID        string    `bson:"zone_id"`
	Ticker        string    `bson:"ticker"`
	ProximalLine  float64   `bson:"proximal_line"`
	DistalLine    float64   `bson:"distal_line"`
	Freshness     int       `bson:"freshness"`
	TradeScore    float64   `bson:"trade_score"`
	ZoneAlertSent bool      `bson:"zone_alert_sent"`
	ZoneEntrySent bool      `bson:"zone_entry_sent"`
	CreatedAt     time.Time `bson:"created_at,omitempty"`
}

// NewDemandZone validates and constructs a fresh zone.
func NewDemandZone(zoneID, ticker string, proximal, distal float64, freshness int) (*DemandZone, error) {
	if zoneID == "" || ticker == "" {
		return nil, domain.ErrInvalidArgument
	}
	if proximal <= 0 || distal <= 0 || distal >= proximal {
		return nil, domain.ErrInvalidArgument
	}
	return &DemandZone{
		ZoneID:       zoneID,
		Ticker:       ticker,
		ProximalLine: proximal,
		DistalLine:   distal,
		Freshness:    freshness,
		CreatedAt:    time.Now(),
	}, nil
}

// IsFresh reports whether the zone should still be watched.
func (z *DemandZone) IsFresh() bool { return z.Freshness > 0 }

// ApproachFraction returns |proximal-low|/proximal, the relative distance
// between the day low and the proximal line.
func (z *DemandZone) ApproachFraction(dayLow float64) float64 {
	if z.ProximalLine == 0 {
		return 0
	}
	d := z.ProximalLine - dayLow
	if d < 0 {
		d = -d
	}
	return d / z.ProximalLine
}
