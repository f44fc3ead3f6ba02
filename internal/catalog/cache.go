package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Cache memoizes the catalog after the first successful load. Concurrent
// first requests share one upstream load through singleflight, and transient
// source failures are retried with backoff before surfacing.
type Cache struct {
	provider Provider
	timeout  time.Duration
	retries  int

	group singleflight.Group

	mu       sync.RWMutex
	products []models.Product
	loaded   bool
}

// NewCache wraps a provider with memoization. timeout bounds each load
// attempt; retries is the total attempt count (minimum 1).
func NewCache(provider Provider, timeout time.Duration, retries int) *Cache {
	if retries < 1 {
		retries = 1
	}
	return &Cache{
		provider: provider,
		timeout:  timeout,
		retries:  retries,
	}
}

// Products returns the usable catalog (sentinel rows excluded), loading it
// on first access.
func (c *Cache) Products(ctx context.Context) ([]models.Product, error) {
	c.mu.RLock()
	if c.loaded {
		products := c.products
		c.mu.RUnlock()
		return products, nil
	}
	c.mu.RUnlock()

	_, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// A caller that lost the race to an already-finished load must not
		// trigger a second one.
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		products, err := c.loadWithRetry(ctx)
		if err != nil {
			return nil, err
		}

		usable := FilterUsable(products)
		c.mu.Lock()
		c.products = usable
		c.loaded = true
		c.mu.Unlock()

		log.Printf("[Catalog] loaded %d products (%d usable)", len(products), len(usable))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, nil
}

// Refresh drops the memoized snapshot so the next access reloads.
func (c *Cache) Refresh() {
	c.mu.Lock()
	c.loaded = false
	c.products = nil
	c.mu.Unlock()
}

func (c *Cache) loadWithRetry(ctx context.Context) ([]models.Product, error) {
	var lastErr error
	backoff := 250 * time.Millisecond

	for attempt := 1; attempt <= c.retries; attempt++ {
		loadCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			loadCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}

		products, err := c.provider.LoadAll(loadCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return products, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < c.retries {
			log.Printf("[Catalog] load attempt %d/%d failed: %v (retrying in %s)", attempt, c.retries, err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("catalog load failed after %d attempt(s): %w", c.retries, lastErr)
}
