package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/vakildesk/dwarpal/pkg/cache"
	"github.com/vakildesk/dwarpal/pkg/cache/memorycache"
)

// Collector collects and aggregates metrics for the application.
type Collector struct {
	// HTTP metrics, keyed by route pattern
	httpRequests sync.Map // map[string]*uint64 - route -> count
	httpErrors   sync.Map // map[string]*uint64 - route -> error count
	httpDuration sync.Map // map[string]*durationValue - route -> total duration in seconds

	// Decision metrics
	decisionsAllowed atomic.Uint64
	decisionsDenied  atomic.Uint64

	// Cache reference (optional, for querying cache-specific metrics)
	cache cache.Cache
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// CacheMetrics holds cache performance metrics.
type CacheMetrics struct {
	Hits        uint64
	Misses      uint64
	HitRate     float64
	KeysCurrent int64
	MemoryBytes int64
	Evictions   uint64
}

// HTTPMetrics holds HTTP request metrics.
type HTTPMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// DecisionMetrics holds permission decision counts.
type DecisionMetrics struct {
	Allowed uint64
	Denied  uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// SetCache sets the cache instance for collecting cache metrics.
func (c *Collector) SetCache(cache cache.Cache) {
	c.cache = cache
}

// RecordRequest records an HTTP request.
func (c *Collector) RecordRequest(route string) {
	counter := c.getOrCreateCounter(&c.httpRequests, route)
	atomic.AddUint64(counter, 1)
}

// RecordError records an HTTP request that failed (5xx).
func (c *Collector) RecordError(route string) {
	counter := c.getOrCreateCounter(&c.httpErrors, route)
	atomic.AddUint64(counter, 1)
}

// RecordDuration records the duration of a request in seconds.
func (c *Collector) RecordDuration(route string, durationSeconds float64) {
	val, _ := c.httpDuration.LoadOrStore(route, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// RecordDecision records the outcome of a permission check.
func (c *Collector) RecordDecision(allowed bool) {
	if allowed {
		c.decisionsAllowed.Add(1)
	} else {
		c.decisionsDenied.Add(1)
	}
}

// GetDecisionMetrics returns current permission decision counts.
func (c *Collector) GetDecisionMetrics() *DecisionMetrics {
	return &DecisionMetrics{
		Allowed: c.decisionsAllowed.Load(),
		Denied:  c.decisionsDenied.Load(),
	}
}

// GetCacheMetrics returns current cache metrics.
func (c *Collector) GetCacheMetrics() *CacheMetrics {
	if c.cache == nil {
		return &CacheMetrics{}
	}

	metrics := c.cache.Metrics()
	if metrics == nil {
		return &CacheMetrics{}
	}

	result := &CacheMetrics{
		Hits:      metrics.Hits,
		Misses:    metrics.Misses,
		HitRate:   metrics.HitRate(),
		Evictions: metrics.KeysEvicted,
	}

	// Get current keys and memory if available
	if memCache, ok := c.cache.(*memorycache.Cache); ok {
		result.KeysCurrent = int64(memCache.Len())
		result.MemoryBytes = memCache.Size()
	}

	return result
}

// GetHTTPMetrics returns current HTTP metrics.
func (c *Collector) GetHTTPMetrics() *HTTPMetrics {
	result := &HTTPMetrics{
		RequestCounts:        make(map[string]uint64),
		ErrorCounts:          make(map[string]uint64),
		TotalDurationSeconds: make(map[string]float64),
	}

	c.httpRequests.Range(func(key, value interface{}) bool {
		result.RequestCounts[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	c.httpErrors.Range(func(key, value interface{}) bool {
		result.ErrorCounts[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	c.httpDuration.Range(func(key, value interface{}) bool {
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[key.(string)] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}
