// Package risk evaluates delay risk for tracked aircraft by combining
// kinematic telemetry with destination weather.
package risk

import (
	"context"
	"log/slog"
	"time"

	"github.com/skypies/geo"

	"github.com/couchcryptid/aero-ops/internal/domain"
	"github.com/couchcryptid/aero-ops/internal/observability"
)

// Engine computes telemetry and risk assessments. A failed weather lookup
// never fails an evaluation: the engine falls back to a benign snapshot so
// the kinematic rules still apply.
type Engine struct {
	weather domain.WeatherProvider
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEngine creates an Engine. timeout bounds each weather lookup; zero or
// negative means no per-lookup deadline beyond the caller's context.
func NewEngine(weather domain.WeatherProvider, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Engine{
		weather: weather,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Evaluate computes telemetry for obs relative to dest, fetches current
// weather at the destination, and scores the combination.
func (e *Engine) Evaluate(ctx context.Context, obs domain.Observation, dest geo.Latlong) (domain.Telemetry, domain.RiskAssessment) {
	telemetry := domain.ComputeTelemetry(obs, dest)
	weather := e.destinationWeather(ctx, dest)

	assessment := domain.AssessRisk(telemetry, weather)

	e.metrics.Assessments.Inc()
	e.metrics.RiskScore.Observe(float64(assessment.Score))

	return telemetry, assessment
}

func (e *Engine) destinationWeather(ctx context.Context, dest geo.Latlong) domain.WeatherSnapshot {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	weather, err := e.weather.CurrentWeather(ctx, dest.Lat, dest.Long)
	if err != nil {
		e.logger.Warn("weather lookup failed, using fallback snapshot",
			"lat", dest.Lat,
			"lon", dest.Long,
			"error", err,
		)
		e.metrics.WeatherRequests.WithLabelValues("error").Inc()
		e.metrics.WeatherFallbacks.Inc()
		return domain.FallbackWeather
	}

	e.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return weather
}
