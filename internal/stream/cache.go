package stream

import (
	"container/list"
	"sync"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

// Analysis bundles the advisory metadata computed for a piece of content.
type Analysis struct {
	Features    markdown.Features
	Diagnostics []markdown.Diagnostic
}

// ResultCache is a bounded LRU cache of Analysis results keyed by content.
// Each renderer owns its own cache, so behavior is testable and nothing
// leaks across instances.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	cache   map[string]*list.Element
	lruList *list.List
}

type cacheEntry struct {
	key    string
	result Analysis
}

// NewResultCache creates a cache holding at most maxSize entries.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &ResultCache{
		maxSize: maxSize,
		cache:   make(map[string]*list.Element),
		lruList: list.New(),
	}
}

// Get retrieves a cached result. Accessing an entry moves it to the front
// of the LRU list.
func (c *ResultCache) Get(key string) (Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*cacheEntry).result, true
	}
	return Analysis{}, false
}

// Put stores a result, evicting the least recently used entry at capacity.
func (c *ResultCache) Put(key string, result Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*cacheEntry).result = result
		return
	}

	if c.lruList.Len() >= c.maxSize {
		oldest := c.lruList.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.cache, entry.key)
			c.lruList.Remove(oldest)
		}
	}

	elem := c.lruList.PushFront(&cacheEntry{key: key, result: result})
	c.cache[key] = elem
}

// Size returns the current number of cached results.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lruList.Init()
}
