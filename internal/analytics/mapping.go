package analytics

import "github.com/andresuchdata/po-insights/backend-go/internal/domain"

// Mapping joins every closed PO to its landing rate by SKU, keeping input order.
// On a miss the PO keeps its own SKU code, units per case is 1 and the cost
// fields are zero.
func (e *Engine) Mapping() []domain.EnrichedPO {
	return enrich(e.source.POs(), e.source.LandingRates())
}

// UpdateUniversalPO rebuilds the enriched table and hands it to sink.
func (e *Engine) UpdateUniversalPO(sink UniversalPOSink) []domain.EnrichedPO {
	rows := e.Mapping()
	if rows == nil {
		rows = []domain.EnrichedPO{}
	}
	if sink != nil {
		sink.SetUniversalPO(rows)
	}
	return rows
}

func enrich(pos []domain.PurchaseOrder, rates []domain.LandingRate) []domain.EnrichedPO {
	if len(pos) == 0 {
		return nil
	}

	// later rows for the same SKU win
	bySKU := make(map[string]domain.LandingRate, len(rates))
	for _, rate := range rates {
		bySKU[rate.SKUID] = rate
	}

	out := make([]domain.EnrichedPO, 0, len(pos))
	for _, po := range pos {
		row := domain.EnrichedPO{
			PONumber:           po.PONumber,
			Vendor:             po.Vendor,
			OrderedQty:         po.OrderedQty,
			ReceivedQty:        po.ReceivedQty,
			POAmount:           po.POAmount,
			SKUCode:            po.SKUCode,
			Units:              1,
			SKUDescription:     po.SKUDescription,
			POLineValueWithTax: po.POLineValueWithTax,
			Status:             po.Status,
		}

		if rate, ok := bySKU[po.SKUCode]; ok {
			if rate.SKUID != "" {
				row.SKUCode = rate.SKUID
			}
			if rate.Cases > 0 {
				row.Units = rate.Cases
			}
			row.MRP = rate.MRP
			row.LandingRate = rate.LandingRate
		}

		row.Cases = po.OrderedQty / row.Units
		row.GRNCase = po.ReceivedQty / row.Units
		row.GRNBillValue = po.ReceivedQty * row.LandingRate

		out = append(out, row)
	}

	return out
}
