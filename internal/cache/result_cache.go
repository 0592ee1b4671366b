// Package cache provides caching for ensemble results.
package cache

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/prop-ensemble/internal/metrics"
	"github.com/yourusername/prop-ensemble/internal/models"
)

// ResultCache provides in-memory caching for ensemble results keyed by the
// fingerprint of the input that produced them
type ResultCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a copy of a cached result
func (rc *ResultCache) Get(ctx context.Context, key uuid.UUID) (models.EnsembleResult, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if item, found := rc.cache.Get(key.String()); found {
		if result, ok := item.(models.EnsembleResult); ok {
			rc.hitCount++
			rc.updateMetrics()
			return cloneResult(result), true
		}
	}

	rc.missCount++
	rc.updateMetrics()
	return models.EnsembleResult{}, false
}

// Set stores a result in cache. When the cache is full and nothing has
// expired the entry is dropped.
func (rc *ResultCache) Set(ctx context.Context, key uuid.UUID, result models.EnsembleResult) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}

	rc.cache.Set(key.String(), cloneResult(result), rc.ttl)
}

// cloneResult copies the maps and slices of a result so cached entries never
// alias what callers hold
func cloneResult(r models.EnsembleResult) models.EnsembleResult {
	if r.ModelOutputs != nil {
		outputs := make(map[string]models.ModelOutput, len(r.ModelOutputs))
		for name, out := range r.ModelOutputs {
			out.Reasons = slices.Clone(out.Reasons)
			out.Metadata = maps.Clone(out.Metadata)
			outputs[name] = out
		}
		r.ModelOutputs = outputs
	}
	r.Notes = slices.Clone(r.Notes)
	return r
}

// Delete removes a single entry
func (rc *ResultCache) Delete(key uuid.UUID) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Delete(key.String())
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.hitCount, rc.missCount, rc.ratio()
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func (rc *ResultCache) ratio() float64 {
	total := rc.hitCount + rc.missCount
	if total == 0 {
		return 0
	}
	return float64(rc.hitCount) / float64(total)
}

// updateMetrics must be called with mu held
func (rc *ResultCache) updateMetrics() {
	metrics.UpdateCacheHitRatio(rc.ratio())
}
