package analytics

import "github.com/andresuchdata/po-insights/backend-go/internal/domain"

// FillRate is Σreceived × 100 ÷ Σordered over completed closed POs.
func (e *Engine) FillRate() float64 {
	return unitFillRate(completedOnly(e.source.POs()))
}

// LineFillRate is the share of completed lines received in full.
func (e *Engine) LineFillRate() float64 {
	completed := completedOnly(e.source.POs())

	perfect := 0
	for _, po := range completed {
		if po.OrderedQty == po.ReceivedQty {
			perfect++
		}
	}

	return round2(percent(float64(perfect), float64(len(completed))))
}

// UnitReceiptFillRate uses the FillRate formula over its own completed filter.
func (e *Engine) UnitReceiptFillRate() float64 {
	pos := e.source.POs()
	if len(pos) == 0 {
		return 0
	}

	completed := make([]domain.PurchaseOrder, 0, len(pos))
	for _, po := range pos {
		if po.Status == domain.StatusCompleted {
			completed = append(completed, po)
		}
	}

	return unitFillRate(completed)
}

// NonZeroFillRate is the share of completed lines with any quantity received.
func (e *Engine) NonZeroFillRate() float64 {
	completed := completedOnly(e.source.POs())

	nonZero := 0
	for _, po := range completed {
		if po.ReceivedQty > 0 {
			nonZero++
		}
	}

	return round2(percent(float64(nonZero), float64(len(completed))))
}

// SumOfBilling is Σ poAmount over closed POs regardless of status.
func (e *Engine) SumOfBilling() float64 {
	total := 0.0
	for _, po := range e.source.POs() {
		total += po.POAmount
	}
	return total
}

// TotalOrders is the number of closed PO lines.
func (e *Engine) TotalOrders() int {
	return len(e.source.POs())
}

// AllMetrics bundles the KPI cards shown on the dashboard header.
func (e *Engine) AllMetrics() domain.DashboardMetrics {
	return domain.DashboardMetrics{
		Revenue:             e.SumOfBilling(),
		FillRate:            e.FillRate(),
		LineFillRate:        e.LineFillRate(),
		NZFR:                e.NonZeroFillRate(),
		TotalOrders:         e.TotalOrders(),
		UnitReceiptFillRate: e.UnitReceiptFillRate(),
	}
}

func completedOnly(pos []domain.PurchaseOrder) []domain.PurchaseOrder {
	var out []domain.PurchaseOrder
	for _, po := range pos {
		if po.Status.IsCompleted() {
			out = append(out, po)
		}
	}
	return out
}

func unitFillRate(pos []domain.PurchaseOrder) float64 {
	var ordered, received float64
	for _, po := range pos {
		ordered += po.OrderedQty
		received += po.ReceivedQty
	}
	return round2(percent(received, ordered))
}
