package geodata

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Source loads reference resources by location.
type Source interface {
	Capitals(ctx context.Context, src string) ([]domain.ReferenceGeoRow, error)
	World(ctx context.Context, src string) (json.RawMessage, error)
}

// CachedSource memoizes a Source per location with an in-memory LRU cache.
// Concurrent misses for the same location share one fetch.
type CachedSource struct {
	inner    Source
	capitals *lruCache[[]domain.ReferenceGeoRow]
	world    *lruCache[json.RawMessage]
	group    singleflight.Group
	metrics  *observability.Metrics
}

// NewCachedSource creates a cache decorator around a source.
func NewCachedSource(inner Source, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:    inner,
		capitals: newLRUCache[[]domain.ReferenceGeoRow](maxEntries),
		world:    newLRUCache[json.RawMessage](maxEntries),
		metrics:  metrics,
	}
}

func (c *CachedSource) Capitals(ctx context.Context, src string) ([]domain.ReferenceGeoRow, error) {
	return cachedLoad(ctx, c, c.capitals, ResourceCapitals, src, c.inner.Capitals)
}

func (c *CachedSource) World(ctx context.Context, src string) (json.RawMessage, error) {
	return cachedLoad(ctx, c, c.world, ResourceWorld, src, c.inner.World)
}

// cachedLoad serves src from cache or loads it once. Failures are not cached
// so a later call can retry.
func cachedLoad[V any](
	ctx context.Context,
	c *CachedSource,
	cache *lruCache[V],
	resource, src string,
	load func(context.Context, string) (V, error),
) (V, error) {
	if v, ok := cache.get(src); ok {
		c.metrics.FetchCache.WithLabelValues(resource, "hit").Inc()
		return v, nil
	}
	c.metrics.FetchCache.WithLabelValues(resource, "miss").Inc()

	v, err, _ := c.group.Do(resource+"|"+src, func() (any, error) {
		if v, ok := cache.get(src); ok {
			return v, nil
		}
		v, err := load(ctx, src)
		if err != nil {
			return v, err
		}
		cache.put(src, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
