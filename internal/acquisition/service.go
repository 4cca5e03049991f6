// Package acquisition produces normalized aircraft observation sets for a
// region, degrading from the live feed to a configured snapshot or synthetic
// data instead of surfacing feed failures.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/skypies/geo"

	"github.com/couchcryptid/aero-ops/internal/domain"
	"github.com/couchcryptid/aero-ops/internal/observability"
)

// ErrNoObservations is returned when even the synthetic fallback yields an
// empty set (for example, filters that exclude every plausible aircraft).
// Callers render it as "no data"; it is the only failure the layer surfaces.
var ErrNoObservations = errors.New("no observations after all fallbacks")

// defaultSyntheticCount is how many aircraft the synthetic fallback invents
// per fetch, roughly the traffic a busy hub shows at any moment.
const defaultSyntheticCount = 12

// Options configures a Service beyond its live source.
type Options struct {
	// Snapshot is the fixed illustrative fallback served when the live feed
	// fails. Nil means fall straight through to synthetic data.
	Snapshot []domain.Observation

	// CacheTTL is the freshness window. Zero disables caching.
	CacheTTL time.Duration

	// Clock defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock

	// Seed fixes the synthetic generator for reproducible output. Zero seeds
	// from the clock.
	Seed int64

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Service is the acquisition layer: one live source plus the fallback chain
// and the freshness cache.
type Service struct {
	source  domain.FlightSource
	snap    []domain.Observation
	gen     *Generator
	cache   *resultCache
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates the acquisition layer around a live flight source.
func NewService(source domain.FlightSource, opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Service{
		source:  source,
		snap:    opts.Snapshot,
		gen:     NewGenerator(seed),
		cache:   newResultCache(opts.CacheTTL, clock),
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the observation set for the region. Transient feed failure
// never propagates: the result degrades through the snapshot and synthetic
// fallbacks with its provenance tag telling the caller what it got. Repeated
// calls inside the freshness window return the prior result unchanged.
func (s *Service) Fetch(ctx context.Context, region geo.LatlongBox, filters domain.Filters) (domain.ObservationSet, error) {
	key := cacheKey(region, filters)
	return s.cache.getOrFetch(key, s.metrics, func() (domain.ObservationSet, error) {
		return s.fetchFresh(ctx, region, filters)
	})
}

func (s *Service) fetchFresh(ctx context.Context, region geo.LatlongBox, filters domain.Filters) (domain.ObservationSet, error) {
	start := s.clock.Now()
	raw, err := s.source.Fetch(ctx, region)
	s.metrics.FeedRequestDuration.WithLabelValues(s.source.Name()).Observe(s.clock.Since(start).Seconds())

	if err == nil {
		// An empty post-filter set is still a valid live result: the feed
		// answered, there is just no qualifying traffic right now.
		s.metrics.FeedRequests.WithLabelValues(s.source.Name(), "success").Inc()
		return s.makeSet(domain.ProvenanceLive, raw, filters), nil
	}

	s.metrics.FeedRequests.WithLabelValues(s.source.Name(), "error").Inc()
	s.logger.Warn("live feed unavailable, degrading",
		"source", s.source.Name(),
		"error", err,
	)

	if len(s.snap) > 0 {
		set := s.makeSet(domain.ProvenanceCachedSnapshot, s.snap, filters)
		if !set.Empty() {
			s.metrics.FeedFallbacks.WithLabelValues(string(domain.ProvenanceCachedSnapshot)).Inc()
			return set, nil
		}
	}

	set := s.makeSet(domain.ProvenanceSimulated, s.gen.Observations(region, defaultSyntheticCount), filters)
	if set.Empty() {
		return domain.ObservationSet{}, ErrNoObservations
	}
	s.metrics.FeedFallbacks.WithLabelValues(string(domain.ProvenanceSimulated)).Inc()
	return set, nil
}

// makeSet applies the observation invariants and caller filters, then tags
// the survivors with provenance and a fetch timestamp.
func (s *Service) makeSet(p domain.Provenance, raw []domain.Observation, filters domain.Filters) domain.ObservationSet {
	kept := make([]domain.Observation, 0, len(raw))
	for _, o := range raw {
		if !o.Valid() || !filters.Match(o) {
			s.metrics.ObservationsDropped.Inc()
			continue
		}
		kept = append(kept, o)
	}
	s.metrics.ObservationsKept.Observe(float64(len(kept)))
	return domain.ObservationSet{
		Provenance:   p,
		FetchedAt:    s.clock.Now(),
		Observations: kept,
	}
}

func cacheKey(region geo.LatlongBox, filters domain.Filters) string {
	return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f|%s",
		region.SW.Lat, region.SW.Long, region.NE.Lat, region.NE.Long, filters.Key())
}
