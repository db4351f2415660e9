package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
)

const (
	vendorRankSample      = 50
	vendorSummarySample   = 100
	vendorLookupSample    = 1000
	underperformThreshold = 80.0
)

// TopVendorsByValue returns vendors ordered by total PO value, served from
// the vendor snapshot while it is fresh.
func (e *Engine) TopVendorsByValue(limit int) []domain.VendorMetrics {
	return head(e.vendorRanking(), normalizeLimit(limit))
}

// TopVendorsByFillRate ranks vendors with a non-zero fill rate.
func (e *Engine) TopVendorsByFillRate(limit int) []domain.VendorMetrics {
	vendors := filterVendors(e.TopVendorsByValue(vendorRankSample), func(v domain.VendorMetrics) bool {
		return v.FillRate > 0
	})
	sort.SliceStable(vendors, func(i, j int) bool { return vendors[i].FillRate > vendors[j].FillRate })
	return head(vendors, normalizeLimit(limit))
}

func (e *Engine) TopVendorsByOrderCount(limit int) []domain.VendorMetrics {
	vendors := e.TopVendorsByValue(vendorRankSample)
	sort.SliceStable(vendors, func(i, j int) bool { return vendors[i].OrderCount > vendors[j].OrderCount })
	return head(vendors, normalizeLimit(limit))
}

// UnderperformingVendors lists vendors below an 80% fill rate, worst first.
// Vendors with no received volume are left out.
func (e *Engine) UnderperformingVendors(limit int) []domain.VendorMetrics {
	vendors := filterVendors(e.TopVendorsByValue(vendorSummarySample), func(v domain.VendorMetrics) bool {
		return v.FillRate > 0 && v.FillRate < underperformThreshold
	})
	sort.SliceStable(vendors, func(i, j int) bool { return vendors[i].FillRate < vendors[j].FillRate })
	return head(vendors, normalizeLimit(limit))
}

// VendorDetails finds the first vendor whose name contains name, ignoring case.
func (e *Engine) VendorDetails(name string) (domain.VendorMetrics, bool) {
	needle := strings.ToLower(name)
	for _, v := range e.TopVendorsByValue(vendorLookupSample) {
		if strings.Contains(strings.ToLower(v.Vendor), needle) {
			return v, true
		}
	}
	return domain.VendorMetrics{}, false
}

func (e *Engine) VendorPerformanceSummary() domain.VendorSummary {
	vendors := e.TopVendorsByValue(vendorSummarySample)
	if len(vendors) == 0 {
		return domain.VendorSummary{}
	}

	var totalValue, fillRateSum, bestFillRate float64
	for i, v := range vendors {
		totalValue += v.TotalPOValue
		fillRateSum += v.FillRate
		if i == 0 || v.FillRate > bestFillRate {
			bestFillRate = v.FillRate
		}
	}

	top := vendors[0].Vendor
	if top == "" {
		top = "N/A"
	}

	return domain.VendorSummary{
		TotalVendors: len(vendors),
		TotalValue:   round2(totalValue),
		AvgFillRate:  round2(fillRateSum / float64(len(vendors))),
		TopVendor:    top,
		BestFillRate: round2(bestFillRate),
	}
}

func (e *Engine) vendorRanking() []domain.VendorMetrics {
	if counts := e.source.Counts(); counts.POs+counts.OpenPOs == 0 {
		return nil
	}

	if cached, ok := e.vendors.Get(); ok {
		e.logger.Debug().Int("vendors", len(cached)).Msg("vendor ranking cache hit")
		return cached
	}

	ranked, _, _ := e.flight.Do(vendorsFlightKey, func() (interface{}, error) {
		if cached, ok := e.vendors.Get(); ok {
			return cached, nil
		}

		start := time.Now()
		gen := e.vendors.Generation()
		all := e.allPOs()
		vendors := rankVendors(all)
		if !e.vendors.SetIfGeneration(gen, vendors) {
			e.logger.Debug().Msg("vendor ranking cleared during rebuild, not cached")
			return vendors, nil
		}
		e.logger.Debug().
			Int("pos", len(all)).
			Int("vendors", len(vendors)).
			Dur("took", time.Since(start)).
			Msg("vendor ranking rebuilt")
		return vendors, nil
	})

	return ranked.([]domain.VendorMetrics)
}

func rankVendors(pos []domain.PurchaseOrder) []domain.VendorMetrics {
	index := make(map[string]int)
	var vendors []domain.VendorMetrics

	for _, po := range pos {
		if po.Vendor == "" {
			continue
		}

		i, ok := index[po.Vendor]
		if !ok {
			i = len(vendors)
			index[po.Vendor] = i
			vendors = append(vendors, domain.VendorMetrics{Vendor: po.Vendor})
		}

		v := &vendors[i]
		v.TotalPOValue += po.POAmount
		v.TotalOrderedQty += po.OrderedQty
		v.TotalReceivedQty += po.ReceivedQty
		v.OrderCount++
		if po.Status.IsCompleted() {
			v.CompletedOrders++
		} else {
			v.PendingOrders++
		}
	}

	for i := range vendors {
		v := &vendors[i]
		v.FillRate = round2(percent(v.TotalReceivedQty, v.TotalOrderedQty))
		v.AvgOrderValue = round2(ratio(v.TotalPOValue, float64(v.OrderCount)))
	}

	sort.SliceStable(vendors, func(i, j int) bool { return vendors[i].TotalPOValue > vendors[j].TotalPOValue })

	return vendors
}

func filterVendors(vendors []domain.VendorMetrics, keep func(domain.VendorMetrics) bool) []domain.VendorMetrics {
	out := vendors[:0]
	for _, v := range vendors {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
