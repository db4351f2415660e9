// Package analytics derives fill-rate KPIs, billing and case totals, and
// vendor/product rankings from an in-memory purchase-order snapshot.
//
// Every call recomputes from the Source on the caller's goroutine. The two
// ranking lists are the only state: each is cached for a short TTL and is
// dropped by ClearCaches, which must be called after the Source changes.
package analytics

import (
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/cache"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheTTL is how long a ranking snapshot is served before rebuild.
	DefaultCacheTTL = 5000 * time.Millisecond
	// DefaultLimit is used when a ranking view is asked for a non-positive limit.
	DefaultLimit = 10

	vendorsFlightKey  = "vendors"
	productsFlightKey = "products"
)

// Source exposes the three collections the engine reads. Counts must be
// cheap; it gates every ranking call, cached or not.
type Source interface {
	POs() []domain.PurchaseOrder
	OpenPOs() []domain.PurchaseOrder
	LandingRates() []domain.LandingRate
	Counts() store.Counts
}

// UniversalPOSink receives the enriched table built by UpdateUniversalPO.
type UniversalPOSink interface {
	SetUniversalPO(rows []domain.EnrichedPO)
}

type Engine struct {
	source   Source
	vendors  *cache.Snapshot[domain.VendorMetrics]
	products *cache.Snapshot[domain.ProductMetrics]
	flight   singleflight.Group
	logger   zerolog.Logger
}

type engineOptions struct {
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithCacheTTL overrides DefaultCacheTTL. Non-positive values are ignored.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *engineOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for cache ageing.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

func NewEngine(source Source, opts ...Option) *Engine {
	o := engineOptions{
		ttl:    DefaultCacheTTL,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		source:   source,
		vendors:  cache.NewSnapshot[domain.VendorMetrics](o.ttl, o.now),
		products: cache.NewSnapshot[domain.ProductMetrics](o.ttl, o.now),
		logger:   o.logger,
	}
}

// ClearCaches drops both ranking snapshots. A rebuild already in flight
// still answers its own callers but cannot repopulate the snapshot, and
// later callers start a fresh rebuild instead of joining it.
func (e *Engine) ClearCaches() {
	e.flight.Forget(vendorsFlightKey)
	e.flight.Forget(productsFlightKey)
	e.vendors.Clear()
	e.products.Clear()
	e.logger.Debug().Msg("analytics caches cleared")
}

// CacheStates reports the lifecycle state of both ranking snapshots.
func (e *Engine) CacheStates() domain.CacheStates {
	return domain.CacheStates{
		Vendors:  e.vendors.State(),
		Products: e.products.State(),
	}
}

// CacheCaptures reports when each ranking snapshot was built.
func (e *Engine) CacheCaptures() domain.CacheCaptures {
	return domain.CacheCaptures{
		Vendors:  capturedAt(e.vendors.CapturedAt()),
		Products: capturedAt(e.products.CapturedAt()),
	}
}

func capturedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (e *Engine) allPOs() []domain.PurchaseOrder {
	return append(e.source.POs(), e.source.OpenPOs()...)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func percent(numerator, denominator float64) float64 {
	return ratio(numerator*100, denominator)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// head copies at most limit elements so callers never alias a snapshot.
func head[T any](items []T, limit int) []T {
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]T, limit)
	copy(out, items[:limit])
	return out
}
