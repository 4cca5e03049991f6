package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// acquisition and risk pipelines.
type Metrics struct {
	// Aircraft feed metrics.
	FeedRequests        *prometheus.CounterVec // labels: source, outcome={success,error}
	FeedRequestDuration *prometheus.HistogramVec
	FeedFallbacks       *prometheus.CounterVec // labels: provenance={cached_snapshot,simulated}
	ObservationsKept    prometheus.Histogram
	ObservationsDropped prometheus.Counter

	// Freshness cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}

	// Weather lookup metrics.
	WeatherRequests  *prometheus.CounterVec // labels: outcome={success,error}
	WeatherFallbacks prometheus.Counter

	// Risk engine metrics.
	Assessments prometheus.Counter
	RiskScore   prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedRequestDuration,
		m.FeedFallbacks,
		m.ObservationsKept,
		m.ObservationsDropped,
		m.CacheLookups,
		m.WeatherRequests,
		m.WeatherFallbacks,
		m.Assessments,
		m.RiskScore,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "feed_requests_total",
			Help:      "Aircraft feed requests by source and outcome.",
		}, []string{"source", "outcome"}),
		FeedRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aero_ops",
			Name:      "feed_request_duration_seconds",
			Help:      "Aircraft feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FeedFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "feed_fallbacks_total",
			Help:      "Degraded acquisitions by the provenance served instead of live data.",
		}, []string{"provenance"}),
		ObservationsKept: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aero_ops",
			Name:      "observations_kept",
			Help:      "Observations per returned set after invariants and filters.",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80, 160},
		}),
		ObservationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "observations_dropped_total",
			Help:      "Raw records dropped for failing observation invariants or filters.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "cache_lookups_total",
			Help:      "Freshness cache lookups by result.",
		}, []string{"result"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "weather_requests_total",
			Help:      "Weather lookups by outcome.",
		}, []string{"outcome"}),
		WeatherFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "weather_fallbacks_total",
			Help:      "Evaluations that used the fallback weather snapshot.",
		}),
		Assessments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aero_ops",
			Name:      "assessments_total",
			Help:      "Total risk assessments computed.",
		}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aero_ops",
			Name:      "risk_score",
			Help:      "Distribution of computed delay-risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 50, 70, 100},
		}),
	}
}
