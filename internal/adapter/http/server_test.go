package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skypies/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aero-ops/internal/acquisition"
	httpadapter "github.com/couchcryptid/aero-ops/internal/adapter/http"
	"github.com/couchcryptid/aero-ops/internal/domain"
)

var (
	testRegion = geo.LatlongBox{
		SW: geo.Latlong{Lat: -24.3, Long: -47.4},
		NE: geo.Latlong{Lat: -22.5, Long: -45.5},
	}
	testDest = geo.Latlong{Lat: -23.4356, Long: -46.4731}
)

type mockFlights struct {
	set domain.ObservationSet
	err error
}

func (m *mockFlights) Fetch(_ context.Context, _ geo.LatlongBox, _ domain.Filters) (domain.ObservationSet, error) {
	return m.set, m.err
}

type mockAssessor struct {
	telemetry domain.Telemetry
	risk      domain.RiskAssessment
}

func (m *mockAssessor) Evaluate(_ context.Context, _ domain.Observation, _ geo.Latlong) (domain.Telemetry, domain.RiskAssessment) {
	return m.telemetry, m.risk
}

func newTestServer(flights httpadapter.FlightFetcher, assessor httpadapter.Assessor) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", flights, assessor, testRegion, domain.Filters{}, testDest, logger)
}

func liveSet() domain.ObservationSet {
	return domain.ObservationSet{
		Provenance: domain.ProvenanceLive,
		FetchedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Observations: []domain.Observation{
			{ICAO24: "e48f2a", Callsign: "TAM3456", Latitude: -23.1, Longitude: -46.2, SpeedMps: 250, AltitudeM: 10000, OriginCountry: "Brazil"},
			{ICAO24: "e48c01", Callsign: "GLO1234", Latitude: -23.5, Longitude: -46.0, SpeedMps: 230, AltitudeM: 9500, OriginCountry: "Brazil"},
		},
	}
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReflectsFirstSuccessfulFetch(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flights", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestFlightsReturnsObservationSet(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Provenance   string               `json:"provenance"`
		Count        int                  `json:"count"`
		Callsigns    []string             `json:"callsigns"`
		Observations []domain.Observation `json:"observations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "live", body.Provenance)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, []string{"TAM3456", "GLO1234"}, body.Callsigns)
	require.Len(t, body.Observations, 2)
	assert.Equal(t, "TAM3456", body.Observations[0].Callsign)
}

func TestFlightsCSV(t *testing.T) {
	set := liveSet()
	set.Provenance = domain.ProvenanceSimulated
	srv := newTestServer(&mockFlights{set: set}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights.csv", nil)

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "simulated", rec.Header().Get("X-Provenance"))
	assert.Contains(t, rec.Body.String(), "callsign,speed_kmh,altitude_m,origin_country,vertical_rate_mps")
	assert.Contains(t, rec.Body.String(), "TAM3456,900.0,10000")
}

func TestAssessmentRequiresCallsign(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assessments", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessmentUnknownCallsignReturns404(t *testing.T) {
	srv := newTestServer(&mockFlights{set: liveSet()}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assessments?callsign=NOPE999", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssessmentReturnsTelemetryAndRisk(t *testing.T) {
	assessor := &mockAssessor{
		telemetry: domain.Telemetry{DistanceKm: 120.5, SpeedKmh: 900, AltitudeM: 10000, ETAMinutes: 8, ETAKnown: true},
		risk: domain.RiskAssessment{
			Score:   70,
			Factors: []string{"strong wind at destination: 40 km/h", "precipitation at destination: 1.0 mm"},
		},
	}
	srv := newTestServer(&mockFlights{set: liveSet()}, assessor)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assessments?callsign=TAM3456", nil)

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Callsign   string `json:"callsign"`
		Provenance string `json:"provenance"`
		Telemetry  struct {
			DistanceKm float64 `json:"distance_km"`
			ETAMinutes int     `json:"eta_minutes"`
			ETAKnown   bool    `json:"eta_known"`
		} `json:"telemetry"`
		Risk struct {
			Score   int      `json:"score"`
			Factors []string `json:"factors"`
		} `json:"risk"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TAM3456", body.Callsign)
	assert.Equal(t, "live", body.Provenance)
	assert.Equal(t, 120.5, body.Telemetry.DistanceKm)
	assert.Equal(t, 8, body.Telemetry.ETAMinutes)
	assert.True(t, body.Telemetry.ETAKnown)
	assert.Equal(t, 70, body.Risk.Score)
	assert.Len(t, body.Risk.Factors, 2)
	assert.Equal(t, "critical", body.Category)
}

func TestFetchFailureReturns502(t *testing.T) {
	srv := newTestServer(&mockFlights{err: errors.New("boom")}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNoObservationsReturns503(t *testing.T) {
	srv := newTestServer(&mockFlights{err: acquisition.ErrNoObservations}, &mockAssessor{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "no observations")
}
