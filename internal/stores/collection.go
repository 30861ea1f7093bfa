package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/providers"
	"context"
	"sync"

	"go.uber.org/atomic"
)

// collection is the load-once cache behind every entity store. The
// mutex is held across the fetch, so concurrent Load calls coalesce: a
// second caller blocks until the first fetch settles and then observes
// the initialized flag instead of issuing a duplicate request.
type collection[T any] struct {
	mu      sync.RWMutex
	fetcher content.Fetcher
	logger  providers.Logger
	path    string
	kind    string

	items       []T
	initialized bool
	loading     atomic.Bool
	loadErr     string
}

func newCollection[T any](fetcher content.Fetcher, logger providers.Logger, path, kind string) collection[T] {
	return collection[T]{fetcher: fetcher, logger: logger, path: path, kind: kind}
}

// load fetches the collection unless it is already initialized with a
// non-empty result. Failures are recorded on the store and returned;
// the collection is left empty and a later call retries.
func (c *collection[T]) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized && len(c.items) > 0 {
		return nil
	}

	c.loading.Store(true)
	defer c.loading.Store(false)
	c.loadErr = ""

	var items []T
	if err := c.fetcher.FetchJSON(ctx, c.path, &items); err != nil {
		c.loadErr = err.Error()
		c.items = nil
		c.logger.Errorf(providers.TypeContent, "Loading %s failed: %s", c.kind, err)
		return err
	}

	c.items = items
	c.initialized = true
	c.logger.Infof(providers.TypeContent, "Loaded %d %s", len(items), c.kind)
	return nil
}

// invalidate clears the cache so the next load re-fetches.
func (c *collection[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.initialized = false
	c.loadErr = ""
}

// snapshot returns a copy of the collection.
func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *collection[T]) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *collection[T]) isInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

func (c *collection[T]) isLoading() bool {
	return c.loading.Load()
}

func (c *collection[T]) err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// find scans for the first item matching pred.
func (c *collection[T]) find(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
