package adsb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skypies/geo"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

const defaultOpenSkyBaseURL = "https://opensky-network.org/api"

// OpenSky positional state vector indices (see the states/all API docs).
const (
	osIdxICAO24        = 0
	osIdxCallsign      = 1
	osIdxOriginCountry = 2
	osIdxLongitude     = 5
	osIdxLatitude      = 6
	osIdxBaroAltitude  = 7
	osIdxOnGround      = 8
	osIdxVelocity      = 9
	osIdxVerticalRate  = 11
)

// OpenSkyClient implements domain.FlightSource against the OpenSky Network
// states/all endpoint (positional array records, speeds in m/s, altitudes in
// metres, matching the internal units, so no conversion applies).
type OpenSkyClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewOpenSkyClient creates an OpenSky feed client. An empty baseURL selects
// the public API.
func NewOpenSkyClient(baseURL string, timeout time.Duration, rps float64, logger *slog.Logger) *OpenSkyClient {
	if baseURL == "" {
		baseURL = defaultOpenSkyBaseURL
	}
	return &OpenSkyClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Name implements domain.FlightSource.
func (c *OpenSkyClient) Name() string { return "opensky" }

// Fetch returns the aircraft inside the region's bounding box. A null states
// array is a valid "no traffic" response, not an error.
func (c *OpenSkyClient) Fetch(ctx context.Context, region geo.LatlongBox) ([]domain.Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"lamin": {fmt.Sprintf("%.4f", region.SW.Lat)},
		"lomin": {fmt.Sprintf("%.4f", region.SW.Long)},
		"lamax": {fmt.Sprintf("%.4f", region.NE.Lat)},
		"lomax": {fmt.Sprintf("%.4f", region.NE.Long)},
	}
	u := fmt.Sprintf("%s/states/all?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opensky request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("opensky rate limited: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("opensky API error: status %d: %s", resp.StatusCode, body)
	}

	var payload openSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]domain.Observation, 0, len(payload.States))
	for _, state := range payload.States {
		obs, ok := mapStateVector(state)
		if !ok {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

// mapStateVector converts one positional record, returning ok=false when the
// record is too short or lacks a position.
func mapStateVector(state []any) (domain.Observation, bool) {
	if len(state) <= osIdxVerticalRate {
		return domain.Observation{}, false
	}
	if state[osIdxLatitude] == nil || state[osIdxLongitude] == nil {
		return domain.Observation{}, false
	}

	origin := stringAt(state, osIdxOriginCountry)
	if origin == "" {
		origin = "Unknown"
	}
	onGround, _ := state[osIdxOnGround].(bool)

	return domain.Observation{
		ICAO24:          stringAt(state, osIdxICAO24),
		Callsign:        strings.TrimSpace(stringAt(state, osIdxCallsign)),
		Latitude:        domain.FloatOrZero(state[osIdxLatitude]),
		Longitude:       domain.FloatOrZero(state[osIdxLongitude]),
		SpeedMps:        domain.FloatOrZero(state[osIdxVelocity]),
		AltitudeM:       domain.FloatOrZero(state[osIdxBaroAltitude]),
		VerticalRateMps: domain.FloatOrZero(state[osIdxVerticalRate]),
		OriginCountry:   origin,
		OnGround:        onGround,
	}, true
}

func stringAt(state []any, idx int) string {
	s, _ := state[idx].(string)
	return s
}

// OpenSky API response. States is null when no aircraft match the box.
type openSkyResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}
