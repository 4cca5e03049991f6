package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skypies/geo"

	"github.com/couchcryptid/aero-ops/internal/acquisition"
	"github.com/couchcryptid/aero-ops/internal/domain"
)

// FlightFetcher returns the current observation set for a region.
type FlightFetcher interface {
	Fetch(ctx context.Context, region geo.LatlongBox, filters domain.Filters) (domain.ObservationSet, error)
}

// Assessor computes telemetry and delay risk for a single observation.
type Assessor interface {
	Evaluate(ctx context.Context, obs domain.Observation, dest geo.Latlong) (domain.Telemetry, domain.RiskAssessment)
}

// Server exposes the flight and assessment API alongside health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	flights    FlightFetcher
	assessor   Assessor
	region     geo.LatlongBox
	filters    domain.Filters
	dest       geo.Latlong
	logger     *slog.Logger

	// ready flips permanently after the first successful acquisition.
	ready atomic.Bool
}

// NewServer creates an HTTP server for the given region and destination.
func NewServer(addr string, flights FlightFetcher, assessor Assessor, region geo.LatlongBox, filters domain.Filters, dest geo.Latlong, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		flights:  flights,
		assessor: assessor,
		region:   region,
		filters:  filters,
		dest:     dest,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/flights", s.handleFlights)
	mux.HandleFunc("GET /api/flights.csv", s.handleFlightsCSV)
	mux.HandleFunc("GET /api/assessments", s.handleAssessment)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no successful acquisition yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) fetch(ctx context.Context) (domain.ObservationSet, error) {
	set, err := s.flights.Fetch(ctx, s.region, s.filters)
	if err != nil {
		return domain.ObservationSet{}, err
	}
	s.ready.Store(true)
	return set, nil
}

func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	set, err := s.fetch(r.Context())
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flightsResponse{
		Provenance:   set.Provenance,
		FetchedAt:    set.FetchedAt,
		Count:        len(set.Observations),
		Callsigns:    set.Callsigns(),
		Observations: set.Observations,
	})
}

func (s *Server) handleFlightsCSV(w http.ResponseWriter, r *http.Request) {
	set, err := s.fetch(r.Context())
	if err != nil {
		s.writeFetchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("X-Provenance", string(set.Provenance))
	w.WriteHeader(http.StatusOK)
	if err := domain.WriteCSV(w, set); err != nil {
		s.logger.Warn("write csv response", "error", err)
	}
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	callsign := r.URL.Query().Get("callsign")
	if callsign == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing callsign parameter"})
		return
	}

	set, err := s.fetch(r.Context())
	if err != nil {
		s.writeFetchError(w, err)
		return
	}

	obs, ok := set.ByCallsign(callsign)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "callsign not tracked: " + callsign})
		return
	}

	telemetry, risk := s.assessor.Evaluate(r.Context(), obs, s.dest)

	writeJSON(w, http.StatusOK, assessmentResponse{
		Callsign:   obs.Callsign,
		Provenance: set.Provenance,
		Telemetry:  telemetry,
		Risk:       risk,
		Category:   risk.Category(),
	})
}

func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, acquisition.ErrNoObservations) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("flight acquisition failed", "error", err)
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: "flight acquisition failed"})
}

type flightsResponse struct {
	Provenance   domain.Provenance    `json:"provenance"`
	FetchedAt    time.Time            `json:"fetched_at"`
	Count        int                  `json:"count"`
	Callsigns    []string             `json:"callsigns"`
	Observations []domain.Observation `json:"observations"`
}

type assessmentResponse struct {
	Callsign   string                `json:"callsign"`
	Provenance domain.Provenance     `json:"provenance"`
	Telemetry  domain.Telemetry      `json:"telemetry"`
	Risk       domain.RiskAssessment `json:"risk"`
	Category   domain.RiskCategory   `json:"category"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
