package store

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/twfolio"
)

// DefaultTTL is how long a cached ledger is served before being reloaded.
const DefaultTTL = 5 * time.Minute

// Cached serves List from memory for up to a TTL. Writes go through to the
// underlying store and invalidate the cache. Writes made by other processes
// are seen after at most the TTL.
type Cached struct {
	inner twfolio.Store
	ttl   time.Duration
	now   func() time.Time // injectable clock for testing

	mu       sync.Mutex
	txs      []twfolio.Transaction
	loadedAt time.Time
	valid    bool
}

// NewCached wraps inner.
func NewCached(inner twfolio.Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{inner: inner, ttl: ttl, now: time.Now}
}

// List returns the cached ledger, reloading it when stale.
func (c *Cached) List(ctx context.Context) ([]twfolio.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		return append([]twfolio.Transaction(nil), c.txs...), nil
	}
	txs, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.txs, c.loadedAt, c.valid = txs, c.now(), true
	return append([]twfolio.Transaction(nil), txs...), nil
}

// Append appends to the underlying store.
func (c *Cached) Append(ctx context.Context, tx twfolio.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	return c.inner.Append(ctx, tx)
}

// Delete deletes from the underlying store.
func (c *Cached) Delete(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	return c.inner.Delete(ctx, index)
}

// Invalidate forces the next List to reload.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
