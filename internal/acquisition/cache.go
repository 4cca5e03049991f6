package acquisition

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/aero-ops/internal/domain"
	"github.com/couchcryptid/aero-ops/internal/observability"
)

// resultCache holds one observation set per request key for the freshness
// window. Concurrent callers that miss share a single upstream fetch via
// singleflight, so a burst of requests costs one network call. Errors are
// never cached.
type resultCache struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	set      domain.ObservationSet
	storedAt time.Time
}

func newResultCache(ttl time.Duration, clock clockwork.Clock) *resultCache {
	return &resultCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *resultCache) getOrFetch(key string, metrics *observability.Metrics, fetch func() (domain.ObservationSet, error)) (domain.ObservationSet, error) {
	if c.ttl <= 0 {
		return fetch()
	}

	if set, ok := c.get(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return set, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the entry while this one waited
		// on the group.
		if set, ok := c.get(key); ok {
			return set, nil
		}
		set, err := fetch()
		if err != nil {
			return domain.ObservationSet{}, err
		}
		c.put(key, set)
		return set, nil
	})
	if err != nil {
		return domain.ObservationSet{}, err
	}
	return v.(domain.ObservationSet), nil
}

func (c *resultCache) get(key string) (domain.ObservationSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.ObservationSet{}, false
	}
	if c.clock.Since(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return domain.ObservationSet{}, false
	}
	return e.set, true
}

func (c *resultCache) put(key string, set domain.ObservationSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{set: set, storedAt: c.clock.Now()}
}
