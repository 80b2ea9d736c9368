package routing

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// DefaultCacheSize is the number of distances kept by a CachingOracle
const DefaultCacheSize = 4096

type cachedDistance struct {
	value    float64
	complete bool
}

// CachingOracle memoises another oracle. Incomplete answers are not cached
// so a later tick can retry them.
type CachingOracle struct {
	inner  logistics.DistanceOracle
	cache  *lru.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachingOracle wraps inner with an LRU cache of size entries
func NewCachingOracle(inner logistics.DistanceOracle, size int) (*CachingOracle, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create distance cache: %w", err)
	}
	return &CachingOracle{inner: inner, cache: cache}, nil
}

func (o *CachingOracle) Distance(from, to shared.Position, opts logistics.DistanceOptions) (float64, bool) {
	key := fmt.Sprintf("%s>%s@%d", from, to, opts.Range)
	if v, ok := o.cache.Get(key); ok {
		o.hits.Add(1)
		d := v.(cachedDistance)
		return d.value, d.complete
	}
	o.misses.Add(1)

	value, complete := o.inner.Distance(from, to, opts)
	if complete {
		o.cache.Add(key, cachedDistance{value: value, complete: true})
	}
	return value, complete
}

// Purge drops every cached distance, e.g. after the terrain changed
func (o *CachingOracle) Purge() {
	o.cache.Purge()
}

// Stats returns cache hits and misses since creation
func (o *CachingOracle) Stats() (hits, misses int64) {
	return o.hits.Load(), o.misses.Load()
}
