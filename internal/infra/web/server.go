// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"
	"github.com/annuu1/StockAlertBot/internal/usecase"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// dispatcher is the slice of the sweep worker the manual-dispatch endpoint
// needs.
type dispatcher interface {
	Dispatch(ctx context.Context, reason string) (*usecase.SweepSummary, error)
}

type Server struct {
	zones      repository.ZoneRepository
	trades     repository.TradeRepository
	statsUC    usecase.StatsUseCase
	dispatcher dispatcher
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	zones repository.ZoneRepository,
	trades repository.TradeRepository,
	statsUC usecase.StatsUseCase,
	d dispatcher,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		zones:      zones,
		trades:     trades,
		statsUC:    statsUC,
		dispatcher: d,
		apiKey:     apiKey,
		log:        logger,
	}
}

// RegisterRoutes sets up health, metrics and the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/api/v1/sweep", s.authMiddleware(http.HandlerFunc(s.handleSweep)))
	mux.Handle("/api/v1/zones", s.authMiddleware(http.HandlerFunc(s.handleZones)))
	mux.Handle("/api/v1/trades", s.authMiddleware(http.HandlerFunc(s.handleTrades)))
	mux.Handle("/api/v1/stats", s.authMiddleware(http.HandlerFunc(s.handleStats)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
