package analytics

import "github.com/andresuchdata/po-insights/backend-go/internal/domain"

const unknownVendor = "Unknown"

// SumOfPOBillingValue sums poLineValueWithTax over completed, confirmed and expired lines.
func (e *Engine) SumOfPOBillingValue() float64 {
	return sumPOBilling(e.Mapping())
}

// SumOfPOCases sums cases over completed, confirmed and expired lines.
func (e *Engine) SumOfPOCases() float64 {
	return sumPOCases(e.Mapping())
}

// SumOfClosedPOBillingValue sums poLineValueWithTax over completed lines.
func (e *Engine) SumOfClosedPOBillingValue() float64 {
	return sumWhere(e.Mapping(), isCompleted, billingValue)
}

// SumOfClosedPOCases sums cases over completed lines, counting each PO
// number once. Only the first line seen for a PO number is considered,
// even when that line is not completed.
func (e *Engine) SumOfClosedPOCases() float64 {
	return sumClosedPOCases(e.Mapping())
}

// SumOfOpenPOBillingValue sums poLineValueWithTax over the open-PO collection.
func (e *Engine) SumOfOpenPOBillingValue() float64 {
	total := 0.0
	for _, po := range e.source.OpenPOs() {
		total += po.POLineValueWithTax
	}
	return total
}

// SumOfGrnBillValue sums grnBillValue over completed lines with a receipt.
func (e *Engine) SumOfGrnBillValue() float64 {
	return sumWhere(e.Mapping(), isGRN, func(row domain.EnrichedPO) float64 { return row.GRNBillValue })
}

// SumOfGrnCases sums grncase over completed lines with a receipt.
func (e *Engine) SumOfGrnCases() float64 {
	return sumGRNCases(e.Mapping())
}

// NoOfCases sums cases over every enriched line.
func (e *Engine) NoOfCases() float64 {
	return sumWhere(e.Mapping(), func(domain.EnrichedPO) bool { return true }, caseValue)
}

// OpenPOCount counts closed lines still marked open plus every open-PO line.
func (e *Engine) OpenPOCount() int {
	count := len(e.source.OpenPOs())
	for _, po := range e.source.POs() {
		if po.Status == domain.StatusOpen {
			count++
		}
	}
	return count
}

// CaseBreakdown builds the case and billing distributions from one enrichment.
func (e *Engine) CaseBreakdown() domain.CaseBreakdown {
	rows := e.Mapping()

	return domain.CaseBreakdown{
		Cases: []domain.DistributionPoint{
			{Name: "Total PO", Value: sumPOCases(rows)},
			{Name: "Closed", Value: sumClosedPOCases(rows)},
			{Name: "GRN", Value: sumGRNCases(rows)},
			{Name: "Open", Value: float64(e.OpenPOCount())},
		},
		Billing: []domain.DistributionPoint{
			{Name: "PO Billing", Value: sumPOBilling(rows)},
			{Name: "Closed PO", Value: sumWhere(rows, isCompleted, billingValue)},
			{Name: "GRN Billing", Value: sumWhere(rows, isGRN, func(row domain.EnrichedPO) float64 { return row.GRNBillValue })},
			{Name: "Open PO", Value: e.SumOfOpenPOBillingValue()},
		},
	}
}

// VendorCaseStats counts enriched lines per vendor in first-seen order.
func (e *Engine) VendorCaseStats(limit int) []domain.VendorCaseStats {
	rows := e.Mapping()
	if len(rows) == 0 {
		return []domain.VendorCaseStats{}
	}

	index := make(map[string]int)
	var stats []domain.VendorCaseStats
	for _, row := range rows {
		vendor := row.Vendor
		if vendor == "" {
			vendor = unknownVendor
		}

		i, ok := index[vendor]
		if !ok {
			i = len(stats)
			index[vendor] = i
			stats = append(stats, domain.VendorCaseStats{Vendor: vendor})
		}

		s := &stats[i]
		s.TotalCases++
		s.Billing += row.POLineValueWithTax
		s.GRNBilling += row.GRNBillValue
		switch row.Status {
		case domain.StatusCompleted:
			s.Closed++
		case domain.StatusOpen:
			s.Open++
		}
		if row.ReceivedQty > 0 {
			s.GRN++
		}
	}

	return head(stats, normalizeLimit(limit))
}

func sumPOBilling(rows []domain.EnrichedPO) float64 {
	return sumWhere(rows, countsTowardPOTotals, billingValue)
}

func sumPOCases(rows []domain.EnrichedPO) float64 {
	return sumWhere(rows, countsTowardPOTotals, caseValue)
}

func sumGRNCases(rows []domain.EnrichedPO) float64 {
	return sumWhere(rows, isGRN, func(row domain.EnrichedPO) float64 { return row.GRNCase })
}

func sumClosedPOCases(rows []domain.EnrichedPO) float64 {
	seen := make(map[string]struct{}, len(rows))
	unique := make([]domain.EnrichedPO, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.PONumber]; dup {
			continue
		}
		seen[row.PONumber] = struct{}{}
		unique = append(unique, row)
	}

	return sumWhere(unique, isCompleted, caseValue)
}

func sumWhere(rows []domain.EnrichedPO, keep func(domain.EnrichedPO) bool, value func(domain.EnrichedPO) float64) float64 {
	total := 0.0
	for _, row := range rows {
		if keep(row) {
			total += value(row)
		}
	}
	return total
}

func countsTowardPOTotals(row domain.EnrichedPO) bool { return row.Status.CountsTowardPOTotals() }

func isCompleted(row domain.EnrichedPO) bool { return row.Status.IsCompleted() }

func isGRN(row domain.EnrichedPO) bool {
	return row.ReceivedQty > 0 && row.Status.IsCompleted()
}

func billingValue(row domain.EnrichedPO) float64 { return row.POLineValueWithTax }

func caseValue(row domain.EnrichedPO) float64 { return row.Cases }
