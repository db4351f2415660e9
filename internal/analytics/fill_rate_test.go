package analytics

import (
	"testing"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fillRateFixture() []domain.PurchaseOrder {
	return []domain.PurchaseOrder{
		po("PO-1", "A", "X", 10, 10, domain.StatusCompleted),
		po("PO-2", "A", "X", 10, 5, domain.StatusCompleted),
		po("PO-3", "B", "Y", 10, 0, domain.StatusCompleted),
		po("PO-4", "B", "Y", 5, 5, domain.StatusConfirmed),
		po("PO-5", "C", "Z", 100, 0, domain.StatusOpen),
	}
}

func TestFillRateFamily(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplacePOs(fillRateFixture())

	assert.Equal(t, 50.0, engine.FillRate())
	assert.Equal(t, 33.33, engine.LineFillRate())
	assert.Equal(t, 66.67, engine.NonZeroFillRate())
	assert.Equal(t, engine.FillRate(), engine.UnitReceiptFillRate())
}

func TestFillRateFamilyOrderIndependent(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	fixture := fillRateFixture()
	s.ReplacePOs(fixture)
	before := engine.AllMetrics()

	reversed := make([]domain.PurchaseOrder, len(fixture))
	for i := range fixture {
		reversed[len(fixture)-1-i] = fixture[i]
	}
	s.ReplacePOs(reversed)

	assert.Equal(t, before, engine.AllMetrics())
}

func TestFillRateFamilyEmptyInputs(t *testing.T) {
	s, engine, _ := newTestEngine(t)

	assert.Zero(t, engine.FillRate())
	assert.Zero(t, engine.LineFillRate())
	assert.Zero(t, engine.UnitReceiptFillRate())
	assert.Zero(t, engine.NonZeroFillRate())

	// lines exist but none are completed
	s.ReplacePOs([]domain.PurchaseOrder{po("PO-1", "A", "X", 10, 10, domain.StatusConfirmed)})
	assert.Zero(t, engine.FillRate())
	assert.Zero(t, engine.LineFillRate())
	assert.Zero(t, engine.NonZeroFillRate())

	// completed lines with nothing ordered
	s.ReplacePOs([]domain.PurchaseOrder{po("PO-1", "A", "X", 0, 0, domain.StatusCompleted)})
	assert.Zero(t, engine.FillRate())
	assert.Equal(t, 100.0, engine.LineFillRate())
}

func TestLineFillRateBounds(t *testing.T) {
	s, engine, _ := newTestEngine(t)

	s.ReplacePOs([]domain.PurchaseOrder{
		po("PO-1", "A", "X", 10, 10, domain.StatusCompleted),
		po("PO-2", "A", "X", 3, 3, domain.StatusCompleted),
		po("PO-3", "A", "X", 3, 1, domain.StatusCancelled),
	})
	assert.Equal(t, 100.0, engine.LineFillRate())

	s.ReplacePOs([]domain.PurchaseOrder{
		po("PO-1", "A", "X", 10, 9, domain.StatusCompleted),
		po("PO-2", "A", "X", 3, 4, domain.StatusCompleted),
	})
	assert.Zero(t, engine.LineFillRate())
}

func TestFillRateAllowsOverReceipt(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplacePOs([]domain.PurchaseOrder{po("PO-1", "A", "X", 10, 12, domain.StatusCompleted)})

	assert.Equal(t, 120.0, engine.FillRate())
	assert.Equal(t, 100.0, engine.NonZeroFillRate())
}

func TestAllMetrics(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	fixture := fillRateFixture()
	fixture[0].POAmount = 100
	fixture[4].POAmount = 50
	s.ReplacePOs(fixture)

	assert.Equal(t, domain.DashboardMetrics{
		Revenue:             150,
		FillRate:            50,
		LineFillRate:        33.33,
		NZFR:                66.67,
		TotalOrders:         5,
		UnitReceiptFillRate: 50,
	}, engine.AllMetrics())
}
