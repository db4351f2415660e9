package analytics

import (
	"testing"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(t *testing.T) (*store.Store, *Engine, *fakeClock) {
	t.Helper()

	s := store.New()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return s, NewEngine(s, WithClock(clock.Now)), clock
}

func po(number, vendor, sku string, ordered, received float64, status domain.POStatus) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		PONumber:    number,
		Vendor:      vendor,
		SKUCode:     sku,
		OrderedQty:  ordered,
		ReceivedQty: received,
		Status:      status,
	}
}

func TestCacheStatesLifecycle(t *testing.T) {
	s, engine, clock := newTestEngine(t)
	s.AddPO(po("PO-1", "Acme", "X", 10, 10, domain.StatusCompleted))
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "X", Cases: 1}})

	assert.Equal(t, domain.CacheStates{Vendors: domain.CacheEmpty, Products: domain.CacheEmpty}, engine.CacheStates())

	engine.TopVendorsByValue(5)
	assert.Equal(t, domain.CachePopulated, engine.CacheStates().Vendors)
	assert.Equal(t, domain.CacheEmpty, engine.CacheStates().Products)

	engine.BestProductsByLandingRate(5)
	clock.Advance(DefaultCacheTTL)
	assert.Equal(t, domain.CacheStates{Vendors: domain.CacheStale, Products: domain.CacheStale}, engine.CacheStates())

	engine.TopVendorsByValue(5)
	assert.Equal(t, domain.CachePopulated, engine.CacheStates().Vendors)

	engine.ClearCaches()
	assert.Equal(t, domain.CacheStates{Vendors: domain.CacheEmpty, Products: domain.CacheEmpty}, engine.CacheStates())
}

func TestWithCacheTTLIgnoresNonPositive(t *testing.T) {
	s := store.New()
	clock := &fakeClock{now: time.Unix(0, 0)}
	engine := NewEngine(s, WithClock(clock.Now), WithCacheTTL(0))
	s.AddPO(po("PO-1", "Acme", "X", 1, 1, domain.StatusCompleted))

	engine.TopVendorsByValue(1)
	clock.Advance(DefaultCacheTTL - time.Millisecond)
	assert.Equal(t, domain.CachePopulated, engine.CacheStates().Vendors)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 75.0, round2(75))
	assert.Equal(t, 0.0, round2(0))
}

func TestHeadCopies(t *testing.T) {
	src := []int{1, 2, 3}
	out := head(src, 2)
	require.Equal(t, []int{1, 2}, out)

	out[0] = 99
	assert.Equal(t, 1, src[0])
	assert.Len(t, head(src, 10), 3)
}

func TestCacheCaptures(t *testing.T) {
	s, engine, clock := newTestEngine(t)
	s.AddPO(po("PO-1", "Acme", "X", 1, 1, domain.StatusCompleted))

	assert.Equal(t, domain.CacheCaptures{}, engine.CacheCaptures())

	built := clock.now
	engine.TopVendorsByValue(1)
	captures := engine.CacheCaptures()
	require.NotNil(t, captures.Vendors)
	assert.Equal(t, built, *captures.Vendors)
	assert.Nil(t, captures.Products)

	engine.ClearCaches()
	assert.Equal(t, domain.CacheCaptures{}, engine.CacheCaptures())
}
