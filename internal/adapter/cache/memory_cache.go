package cache

import (
	"sync"
)

// MemoryCache is a process-local embedding cache. Nothing persists across
// runs; it mostly serves tests and the bench tool.
type MemoryCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		vectors: make(map[string][]float32),
	}
}

func (c *MemoryCache) Get(model, text string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vector, ok := c.vectors[string(cacheKey(model, text))]
	return vector, ok, nil
}

func (c *MemoryCache) Put(model, text string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[string(cacheKey(model, text))] = vector
	return nil
}

func (c *MemoryCache) Entries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = make(map[string][]float32)
}
