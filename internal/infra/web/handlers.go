package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/annuu1/StockAlertBot/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type zoneDTO struct {
	ZoneID       string  `json:"zone_id"`
	Ticker       string  `json:"ticker"`
	ProximalLine float64 `json:"proximal_line"`
	DistalLine   float64 `json:"distal_line"`
	Freshness    int     `json:"freshness"`
	AlertSent    bool    `json:"zone_alert_sent"`
	EntrySent    bool    `json:"zone_entry_sent"`
}

type tradeDTO struct {
	Symbol         string  `json:"symbol"`
	EntryPrice     float64 `json:"entry_price"`
	Status         string  `json:"status"`
	AlertSent      bool    `json:"alert_sent"`
	EntryAlertSent bool    `json:"entry_alert_sent"`
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	zones, err := s.zones.FindFresh(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list zones failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	out := make([]zoneDTO, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneDTO{
			ZoneID:       z.ZoneID,
			Ticker:       z.Ticker,
			ProximalLine: z.ProximalLine,
			DistalLine:   z.DistalLine,
			Freshness:    z.Freshness,
			AlertSent:    z.ZoneAlertSent,
			EntrySent:    z.ZoneEntrySent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	trades, err := s.trades.FindOpen(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list trades failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	out := make([]tradeDTO, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeDTO{
			Symbol:         t.Symbol,
			EntryPrice:     t.EntryPrice,
			Status:         string(t.Status),
			AlertSent:      t.AlertSent,
			EntryAlertSent: t.EntryAlertSent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := s.statsUC.Snapshot(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleSweep is the manual-dispatch equivalent of the old workflow_dispatch
// trigger.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sum, err := s.dispatcher.Dispatch(r.Context(), "api")
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSweepInProgress):
			http.Error(w, "Sweep already running", http.StatusConflict)
		case errors.Is(err, domain.ErrMarketClosed):
			http.Error(w, "Market closed", http.StatusUnprocessableEntity)
		default:
			s.log.Error().Err(err).Msg("manual sweep failed")
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zones":       sum.Zones,
		"trades":      sum.Trades,
		"symbols":     sum.Symbols,
		"alerts_sent": sum.AlertsSent,
		"skipped":     sum.Skipped,
	})
}
