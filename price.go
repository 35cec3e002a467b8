package twfolio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Defaults of the price resolution layer.
const (
	DefaultPriceTTL     = 30 * time.Minute
	DefaultQuoteTimeout = 10 * time.Second
)

// Quote sources.
const (
	SourceSnapshot = "snapshot"
	SourceLive     = "live"
	SourceNone     = "none"
)

// Quote is a resolved price for a security.
type Quote struct {
	Code      string
	Name      string // directory name, UnknownName when the directory has none
	Price     Money
	Source    string
	FetchedAt time.Time
}

// SnapshotSource produces a bulk price mapping keyed by full security code.
type SnapshotSource interface {
	Refresh(ctx context.Context) (map[string]decimal.Decimal, error)
}

// QuoteProvider returns the latest close of a security. ok is false when the
// provider has no data.
type QuoteProvider interface {
	LatestClose(ctx context.Context, code string) (price decimal.Decimal, ok bool, err error)
}

// PriceCache is the process wide cache of resolved quotes. It is safe for
// concurrent use.
type PriceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time // injectable clock for testing
	entries map[string]Quote
}

// NewPriceCache returns an empty cache whose entries live for ttl.
func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCache{ttl: ttl, now: time.Now, entries: make(map[string]Quote)}
}

// Get returns the cached quote of code if it is younger than the TTL.
func (c *PriceCache) Get(code string) (Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.entries[code]
	if !ok || c.now().Sub(q.FetchedAt) >= c.ttl {
		return Quote{}, false
	}
	return q, true
}

// Put stores q, replacing any previous entry of the same code.
func (c *PriceCache) Put(q Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[q.Code] = q
}

// Clear drops every entry.
func (c *PriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Quote)
}

// Len returns the number of entries, expired ones included.
func (c *PriceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// PriceSnapshot holds the latest bulk price mapping. Zero prices are dropped:
// they mean "no data".
type PriceSnapshot struct {
	src SnapshotSource
	now func() time.Time

	mu          sync.RWMutex
	prices      map[string]decimal.Decimal
	refreshedAt time.Time
}

// NewPriceSnapshot returns an empty snapshot fed by src. src may be nil, in
// which case the snapshot stays empty.
func NewPriceSnapshot(src SnapshotSource) *PriceSnapshot {
	return &PriceSnapshot{src: src, now: time.Now, prices: make(map[string]decimal.Decimal)}
}

// Refresh replaces the mapping with a fresh one from the source. On error the
// previous mapping is kept.
func (s *PriceSnapshot) Refresh(ctx context.Context) error {
	if s.src == nil {
		return nil
	}
	fresh, err := s.src.Refresh(ctx)
	if err != nil {
		return err
	}
	prices := make(map[string]decimal.Decimal, len(fresh))
	for code, p := range fresh {
		if p.IsPositive() {
			prices[code] = p
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = prices
	s.refreshedAt = s.now()
	return nil
}

// Set replaces the mapping directly.
func (s *PriceSnapshot) Set(prices map[string]decimal.Decimal) {
	cp := make(map[string]decimal.Decimal, len(prices))
	for code, p := range prices {
		if p.IsPositive() {
			cp[code] = p
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = cp
	s.refreshedAt = s.now()
}

// Price returns the snapshot price of code, ok is false if there is none.
func (s *PriceSnapshot) Price(code string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[code]
	return p, ok
}

// Len returns the number of priced securities.
func (s *PriceSnapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prices)
}

// RefreshedAt returns the time of the last successful refresh.
func (s *PriceSnapshot) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// PriceResolver resolves current prices: from the cache, then the snapshot,
// then the live provider. Resolution never fails: a security nobody can
// price is worth 0.
type PriceResolver struct {
	cache    *PriceCache
	snapshot *PriceSnapshot
	live     QuoteProvider
	dir      *StockDirectory
	timeout  time.Duration
	log      zerolog.Logger
}

// NewPriceResolver wires a resolver. snapshot, live and dir may be nil.
func NewPriceResolver(cache *PriceCache, snapshot *PriceSnapshot, live QuoteProvider, dir *StockDirectory, log zerolog.Logger) *PriceResolver {
	if cache == nil {
		cache = NewPriceCache(DefaultPriceTTL)
	}
	if snapshot == nil {
		snapshot = NewPriceSnapshot(nil)
	}
	return &PriceResolver{
		cache:    cache,
		snapshot: snapshot,
		live:     live,
		dir:      dir,
		timeout:  DefaultQuoteTimeout,
		log:      log.With().Str("component", "prices").Logger(),
	}
}

// SetTimeout bounds each live provider call.
func (r *PriceResolver) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// Cache returns the resolver's cache.
func (r *PriceResolver) Cache() *PriceCache { return r.cache }

// Snapshot returns the resolver's snapshot.
func (r *PriceResolver) Snapshot() *PriceSnapshot { return r.snapshot }

// Resolve returns the current quote of code. The result is cached: a cache
// hit returns the quote as first resolved, Source included.
func (r *PriceResolver) Resolve(ctx context.Context, code string) Quote {
	if q, ok := r.cache.Get(code); ok {
		r.log.Debug().Str("code", code).Str("source", q.Source).Msg("price from cache")
		return q
	}

	q := Quote{Code: code, Price: TWD(0), Source: SourceNone}
	if r.dir != nil {
		base, market := ParseCode(code)
		q.Name = r.dir.Name(ctx, base, market)
	}

	if p, ok := r.snapshot.Price(code); ok {
		q.Price, q.Source = TWD(p), SourceSnapshot
	} else if p, ok := r.latestClose(ctx, code); ok {
		q.Price, q.Source = TWD(p), SourceLive
	}
	q.Price = q.Price.Round(2)
	q.FetchedAt = r.cache.now()
	r.cache.Put(q)
	return q
}

// Price is Resolve's price.
func (r *PriceResolver) Price(ctx context.Context, code string) Money {
	return r.Resolve(ctx, code).Price
}

// latestClose queries the live provider, logging and swallowing failures.
func (r *PriceResolver) latestClose(ctx context.Context, code string) (decimal.Decimal, bool) {
	if r.live == nil {
		return decimal.Zero, false
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	p, ok, err := r.live.LatestClose(ctx, code)
	if err != nil {
		r.log.Warn().Err(err).Str("code", code).Msg("live quote failed, using 0")
		return decimal.Zero, false
	}
	if !ok || !p.IsPositive() {
		r.log.Info().Str("code", code).Msg("no live quote")
		return decimal.Zero, false
	}
	r.log.Info().Str("code", code).Str("price", p.String()).Msg("live quote")
	return p, true
}

// RefreshAll reloads the snapshot and invalidates every cached price. The
// cache is cleared even when the reload fails.
func (r *PriceResolver) RefreshAll(ctx context.Context) error {
	err := r.snapshot.Refresh(ctx)
	r.cache.Clear()
	if err != nil {
		r.log.Error().Err(err).Msg("price snapshot refresh failed")
		return err
	}
	r.log.Info().Int("prices", r.snapshot.Len()).Msg("prices refreshed")
	return nil
}
