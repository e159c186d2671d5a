package app

import (
	"sync"

	viewhttp "lifeviz/internal/transport/http/view"
)

// buildCache holds the latest successful build. Readers always see a
// complete build or none.
type buildCache struct {
	mu      sync.RWMutex
	current viewhttp.Build
	ok      bool
	count   int
}

func newBuildCache() *buildCache {
	return &buildCache{}
}

func (c *buildCache) Set(b viewhttp.Build) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.current = b
	c.ok = true
	c.count++
	c.mu.Unlock()
}

// Current implements viewhttp.Builds.
func (c *buildCache) Current() (viewhttp.Build, bool) {
	if c == nil {
		return viewhttp.Build{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.ok
}

func (c *buildCache) Count() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
