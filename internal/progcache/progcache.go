// Package progcache caches compiled programs so that compiling the same
// pattern under the same options twice reuses one engine program.
//
// Only programs reclaimed by the garbage collector may be cached: a
// cached program is shared by every handle compiled from the same key, so
// it can never be released explicitly. Programs implementing
// engine.Releaser are rejected by Set.
package progcache

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"

	"github.com/coregx/re2c/engine"
	"github.com/coregx/re2c/options"
)

// Cache is a bounded, concurrent program cache.
type Cache struct {
	c *ristretto.Cache[string, engine.Program]
}

// New returns a cache holding roughly entries programs.
func New(entries int64) (*Cache, error) {
	if entries <= 0 {
		return nil, errors.Errorf("progcache: entries must be positive, got %d", entries)
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, engine.Program]{
		// Ten counters per entry, as recommended for admission accuracy.
		NumCounters: entries * 10,
		MaxCost:     entries,
		BufferItems: 64,
		Metrics:     true,
		// Entries cost exactly 1, with no per-item overhead added.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "progcache: creating cache")
	}
	return &Cache{c: c}, nil
}

// Key builds the cache key for pattern compiled by the named engine.
func Key(engineName string, opts options.Options, pattern []byte) string {
	return engineName + "\x00" + opts.Key() + "\x00" + string(pattern)
}

// Get returns the cached program for key.
func (c *Cache) Get(key string) (engine.Program, bool) {
	return c.c.Get(key)
}

// Set offers prog to the cache. It reports whether the program was
// accepted for admission; admission itself is asynchronous.
func (c *Cache) Set(key string, prog engine.Program) bool {
	if _, ok := prog.(engine.Releaser); ok {
		return false
	}
	return c.c.Set(key, prog, 1)
}

// Wait blocks until pending Set calls are applied.
func (c *Cache) Wait() {
	c.c.Wait()
}

// HitRatio returns the fraction of Get calls that hit.
func (c *Cache) HitRatio() float64 {
	return c.c.Metrics.Ratio()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.c.Close()
}
