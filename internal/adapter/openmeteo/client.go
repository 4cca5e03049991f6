// Package openmeteo implements domain.WeatherProvider using the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

const defaultBaseURL = "https://api.open-meteo.com"

// Client fetches current weather conditions. Failures are returned as errors;
// the risk engine, not the client, substitutes the fallback snapshot.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. An empty baseURL selects the
// public API.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CurrentWeather implements domain.WeatherProvider.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"latitude":  {fmt.Sprintf("%.4f", lat)},
		"longitude": {fmt.Sprintf("%.4f", lon)},
		"current":   {"temperature_2m,precipitation,wind_speed_10m"},
	}
	u := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSnapshot{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.WeatherSnapshot{
		TemperatureC:    payload.Current.Temperature2m,
		PrecipitationMm: payload.Current.Precipitation,
		WindSpeedKmh:    payload.Current.WindSpeed10m,
	}, nil
}

// Open-Meteo API response types.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Temperature2m float64 `json:"temperature_2m"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed10m  float64 `json:"wind_speed_10m"`
}
