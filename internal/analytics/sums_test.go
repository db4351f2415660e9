package analytics

import (
	"testing"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLineValue(p domain.PurchaseOrder, value float64) domain.PurchaseOrder {
	p.POLineValueWithTax = value
	return p
}

func seedSums(t *testing.T) *Engine {
	t.Helper()

	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "A", Cases: 10, LandingRate: 2}})
	s.ReplacePOs([]domain.PurchaseOrder{
		withLineValue(po("PO-1", "Acme", "A", 20, 20, domain.StatusCompleted), 100),
		withLineValue(po("PO-1", "Acme", "A", 10, 10, domain.StatusCompleted), 50),
		withLineValue(po("PO-2", "Acme", "A", 30, 0, domain.StatusCompleted), 70),
		withLineValue(po("PO-3", "Beta", "A", 40, 0, domain.StatusConfirmed), 200),
		withLineValue(po("PO-4", "Beta", "A", 50, 0, domain.StatusExpired), 300),
		withLineValue(po("PO-5", "", "A", 60, 0, domain.StatusCancelled), 400),
		withLineValue(po("PO-6", "Gamma", "A", 70, 0, domain.StatusOpen), 500),
	})
	s.ReplaceOpenPOs([]domain.PurchaseOrder{
		withLineValue(po("OP-1", "Gamma", "A", 5, 0, domain.StatusOpen), 80),
		withLineValue(po("OP-2", "Gamma", "A", 5, 0, domain.StatusOpen), 20),
	})
	return engine
}

func TestConsolidatedSums(t *testing.T) {
	engine := seedSums(t)

	assert.InDelta(t, 720.0, engine.SumOfPOBillingValue(), 1e-9)
	assert.InDelta(t, 15.0, engine.SumOfPOCases(), 1e-9)
	assert.InDelta(t, 220.0, engine.SumOfClosedPOBillingValue(), 1e-9)
	assert.InDelta(t, 100.0, engine.SumOfOpenPOBillingValue(), 1e-9)
	assert.InDelta(t, 60.0, engine.SumOfGrnBillValue(), 1e-9)
	assert.InDelta(t, 3.0, engine.SumOfGrnCases(), 1e-9)
	assert.InDelta(t, 28.0, engine.NoOfCases(), 1e-9)
	assert.Equal(t, 3, engine.OpenPOCount())
}

// Closed PO billing keeps both PO-1 lines while closed PO cases counts PO-1 once.
func TestClosedPOCasesCountsEachPONumberOnce(t *testing.T) {
	engine := seedSums(t)

	assert.InDelta(t, 5.0, engine.SumOfClosedPOCases(), 1e-9)
	assert.InDelta(t, 220.0, engine.SumOfClosedPOBillingValue(), 1e-9)
}

func TestClosedPOCasesUsesFirstLineOfEachPONumber(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplacePOs([]domain.PurchaseOrder{
		po("PO-9", "Acme", "A", 4, 0, domain.StatusConfirmed),
		po("PO-9", "Acme", "A", 6, 6, domain.StatusCompleted),
		po("PO-8", "Acme", "A", 2, 2, domain.StatusCompleted),
	})

	assert.Equal(t, 2.0, engine.SumOfClosedPOCases())
	assert.Equal(t, 8.0, engine.SumOfGrnCases())
}

func TestSumsEmptyStore(t *testing.T) {
	_, engine, _ := newTestEngine(t)

	assert.Zero(t, engine.SumOfPOBillingValue())
	assert.Zero(t, engine.SumOfPOCases())
	assert.Zero(t, engine.SumOfClosedPOBillingValue())
	assert.Zero(t, engine.SumOfClosedPOCases())
	assert.Zero(t, engine.SumOfOpenPOBillingValue())
	assert.Zero(t, engine.SumOfGrnBillValue())
	assert.Zero(t, engine.SumOfGrnCases())
	assert.Zero(t, engine.SumOfBilling())
	assert.Zero(t, engine.TotalOrders())
	assert.Zero(t, engine.OpenPOCount())
	assert.Empty(t, engine.VendorCaseStats(10))
}

func TestCaseBreakdown(t *testing.T) {
	engine := seedSums(t)

	breakdown := engine.CaseBreakdown()
	require.Len(t, breakdown.Cases, 4)
	require.Len(t, breakdown.Billing, 4)

	assert.Equal(t, domain.DistributionPoint{Name: "Total PO", Value: 15}, breakdown.Cases[0])
	assert.Equal(t, domain.DistributionPoint{Name: "Closed", Value: 5}, breakdown.Cases[1])
	assert.Equal(t, domain.DistributionPoint{Name: "GRN", Value: 3}, breakdown.Cases[2])
	assert.Equal(t, domain.DistributionPoint{Name: "Open", Value: 3}, breakdown.Cases[3])

	assert.Equal(t, domain.DistributionPoint{Name: "PO Billing", Value: 720}, breakdown.Billing[0])
	assert.Equal(t, domain.DistributionPoint{Name: "Closed PO", Value: 220}, breakdown.Billing[1])
	assert.Equal(t, domain.DistributionPoint{Name: "GRN Billing", Value: 60}, breakdown.Billing[2])
	assert.Equal(t, domain.DistributionPoint{Name: "Open PO", Value: 100}, breakdown.Billing[3])
}

func TestVendorCaseStats(t *testing.T) {
	engine := seedSums(t)

	stats := engine.VendorCaseStats(0)
	require.Len(t, stats, 4)

	assert.Equal(t, domain.VendorCaseStats{
		Vendor: "Acme", TotalCases: 3, Closed: 3, GRN: 2, Billing: 220, GRNBilling: 60,
	}, stats[0])
	assert.Equal(t, "Beta", stats[1].Vendor)
	assert.Equal(t, unknownVendor, stats[2].Vendor)
	assert.Equal(t, domain.VendorCaseStats{Vendor: "Gamma", TotalCases: 1, Open: 1, Billing: 500}, stats[3])

	assert.Len(t, engine.VendorCaseStats(2), 2)
}
