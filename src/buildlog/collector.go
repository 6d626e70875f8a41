package buildlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Collector resolves build names to parsed log data: memory first, then the
// on-disk cache, then fetch and parse.
type Collector struct {
	Fetcher  *Fetcher
	Cache    *Cache
	Redactor *Redactor // nil disables redaction
	Parallel int

	memory *lru.Cache[string, *Data]
	group  singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCollector creates a collector. memorySize 0 disables the in-memory
// layer.
func NewCollector(fetcher *Fetcher, cache *Cache, memorySize, parallel int) (*Collector, error) {
	c := &Collector{
		Fetcher:  fetcher,
		Cache:    cache,
		Parallel: parallel,
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	if memorySize > 0 {
		mem, err := lru.New[string, *Data](memorySize)
		if err != nil {
			return nil, fmt.Errorf("creating log memory cache: %w", err)
		}
		c.memory = mem
	}
	return c, nil
}

// Get returns the parsed log for a build. ErrMissingLog means no usable log
// exists.
func (c *Collector) Get(ctx context.Context, name string) (*Data, error) {
	if c.memory != nil {
		if d, ok := c.memory.Get(name); ok {
			return d, nil
		}
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		return c.load(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	d := v.(*Data)

	if c.memory != nil {
		c.memory.Add(name, d)
	}
	return d, nil
}

func (c *Collector) load(ctx context.Context, name string) (*Data, error) {
	logger := log.FromContext(ctx)

	if !c.Fetcher.Required {
		return nil, ErrMissingLog
	}

	logPath := c.Fetcher.Path(name)
	if c.Cache != nil {
		if d, ok := c.Cache.Get(logPath); ok {
			c.hits.Add(1)
			return d, nil
		}
		c.misses.Add(1)
	}

	path, err := c.Fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	if c.Redactor != nil {
		var rules []string
		d.Exception, rules = c.Redactor.Redact(d.Exception)
		if len(rules) > 0 {
			logger.Warn("redacted secrets from build log", "build", name, "rules", rules)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Put(logPath, d); err != nil {
			logger.Warn("cache: write failed", "build", name, "err", err)
		}
	}
	return d, nil
}

// CacheStats reports on-disk cache hits and misses so far.
func (c *Collector) CacheStats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Prefetch loads logs for many builds concurrently and returns the errors
// keyed by build name. Missing logs are reported like any other error; use
// errors.Is(err, ErrMissingLog) to tell them apart.
func (c *Collector) Prefetch(ctx context.Context, names []string) map[string]error {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs = map[string]error{}
	)

	sem := semaphore.NewWeighted(int64(c.Parallel))

	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs[name] = err
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := c.Get(ctx, n); err != nil {
				mu.Lock()
				errs[n] = err
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()

	missing := 0
	for _, err := range errs {
		if errors.Is(err, ErrMissingLog) {
			missing++
		}
	}
	log.FromContext(ctx).Debug("log prefetch complete",
		"builds", len(names),
		"failed", len(errs),
		"missing", missing,
		"cache_hits", c.hits.Load(),
		"cache_misses", c.misses.Load())
	return errs
}
