// Package adsb contains the aircraft feed clients. Both clients implement
// domain.FlightSource and normalize their provider's native units to metres
// and metres per second at ingestion.
package adsb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/skypies/geo"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

const defaultADSBLolBaseURL = "https://api.adsb.lol/v2"

// maxRadiusNM is the largest search radius the point endpoints accept.
const maxRadiusNM = 250.0

// ADSBLolClient implements domain.FlightSource against the adsb.lol v2 API
// (airplanes.live-compatible: /v2/lat/{lat}/lon/{lon}/dist/{nm}, named-field
// records, speeds in knots, altitudes in feet).
type ADSBLolClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewADSBLolClient creates an adsb.lol feed client. An empty baseURL selects
// the public API; rps is the client-side rate limit (the aggregators ask for
// roughly one request per second).
func NewADSBLolClient(baseURL string, timeout time.Duration, rps float64, logger *slog.Logger) *ADSBLolClient {
	if baseURL == "" {
		baseURL = defaultADSBLolBaseURL
	}
	return &ADSBLolClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Name implements domain.FlightSource.
func (c *ADSBLolClient) Name() string { return "adsblol" }

// Fetch returns the aircraft inside the region. The API is point+radius, so
// the bounding box is converted to its circumscribing circle; anything the
// circle picks up beyond the box corners is still inside the caller's area of
// interest.
func (c *ADSBLolClient) Fetch(ctx context.Context, region geo.LatlongBox) ([]domain.Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	center, radiusNM := regionCircle(region)
	url := fmt.Sprintf("%s/lat/%.4f/lon/%.4f/dist/%.0f", c.baseURL, center.Lat, center.Long, radiusNM)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adsb.lol request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("adsb.lol rate limited: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("adsb.lol API error: status %d: %s", resp.StatusCode, body)
	}

	var payload adsbLolResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// A null/absent "ac" array means no traffic, same as an empty one.
	out := make([]domain.Observation, 0, len(payload.Aircraft))
	for _, ac := range payload.Aircraft {
		if ac.Lat == nil || ac.Lon == nil {
			continue
		}
		out = append(out, domain.Observation{
			ICAO24:          ac.Hex,
			Callsign:        strings.TrimSpace(ac.Flight),
			Latitude:        *ac.Lat,
			Longitude:       *ac.Lon,
			SpeedMps:        domain.FloatOrZero(ac.GroundSpeed) * domain.KnotsToMps,
			AltitudeM:       domain.FloatOrZero(ac.AltBaro) * domain.FeetToM,
			VerticalRateMps: domain.FloatOrZero(ac.BaroRate) * domain.FeetToM / 60,
			OriginCountry:   "Unknown",
			OnGround:        isGround(ac.AltBaro),
		})
	}
	return out, nil
}

// regionCircle converts a bounding box to the center point and radius (in
// nautical miles) the point endpoints expect, capped at the API maximum.
func regionCircle(region geo.LatlongBox) (geo.Latlong, float64) {
	center := geo.Latlong{
		Lat:  (region.SW.Lat + region.NE.Lat) / 2,
		Long: (region.SW.Long + region.NE.Long) / 2,
	}
	radiusNM := center.Dist(region.NE) / 1.852
	if radiusNM > maxRadiusNM {
		radiusNM = maxRadiusNM
	}
	if radiusNM < 1 {
		radiusNM = 1
	}
	return center, radiusNM
}

// isGround detects the feed's "alt_baro": "ground" convention.
func isGround(altBaro any) bool {
	s, ok := altBaro.(string)
	return ok && s == "ground"
}

// adsb.lol API response types. Numeric fields are typed any because the feed
// occasionally delivers them as strings; see domain.FloatOrZero.

type adsbLolResponse struct {
	Aircraft []adsbLolAircraft `json:"ac"`
	Total    int               `json:"total"`
	Now      float64           `json:"now"`
}

type adsbLolAircraft struct {
	Hex         string   `json:"hex"`
	Flight      string   `json:"flight"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	GroundSpeed any      `json:"gs"`        // knots
	AltBaro     any      `json:"alt_baro"`  // feet, or the literal "ground"
	BaroRate    any      `json:"baro_rate"` // feet per minute
}
