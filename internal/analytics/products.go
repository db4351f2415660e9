package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
)

const (
	productRankSample   = 100
	productLookupSample = 1000
)

// BestProductsByLandingRate returns landing-rate rows joined with their POs,
// most expensive first, served from the product snapshot while it is fresh.
func (e *Engine) BestProductsByLandingRate(limit int) []domain.ProductMetrics {
	return head(e.productRanking(), normalizeLimit(limit))
}

func (e *Engine) BestProductsByValue(limit int) []domain.ProductMetrics {
	return e.rankProductsBy(limit, func(p domain.ProductMetrics) float64 { return p.TotalPOValue })
}

func (e *Engine) BestProductsByOrderCount(limit int) []domain.ProductMetrics {
	return e.rankProductsBy(limit, func(p domain.ProductMetrics) float64 { return float64(p.OrderCount) })
}

func (e *Engine) BestProductsByFillRate(limit int) []domain.ProductMetrics {
	return e.rankProductsBy(limit, func(p domain.ProductMetrics) float64 { return p.FillRate })
}

// ProductsByCategory keeps landing-rate order and filters by category substring.
func (e *Engine) ProductsByCategory(category string, limit int) []domain.ProductMetrics {
	needle := strings.ToLower(category)

	var out []domain.ProductMetrics
	for _, p := range e.BestProductsByLandingRate(productLookupSample) {
		if strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return head(out, normalizeLimit(limit))
}

// ProductDetails finds the first product whose name or SKU contains identifier.
func (e *Engine) ProductDetails(identifier string) (domain.ProductMetrics, bool) {
	needle := strings.ToLower(identifier)
	for _, p := range e.BestProductsByLandingRate(productLookupSample) {
		if strings.Contains(strings.ToLower(p.ProductName), needle) ||
			strings.Contains(strings.ToLower(p.SKUID), needle) {
			return p, true
		}
	}
	return domain.ProductMetrics{}, false
}

func (e *Engine) ProductPerformanceSummary() domain.ProductSummary {
	products := e.BestProductsByLandingRate(productRankSample)
	if len(products) == 0 {
		return domain.ProductSummary{}
	}

	var totalValue, landingRateSum, highest float64
	totalOrders := 0
	for _, p := range products {
		totalValue += p.TotalPOValue
		landingRateSum += p.LandingRate
		totalOrders += p.OrderCount
		if p.LandingRate > highest {
			highest = p.LandingRate
		}
	}

	top := products[0].ProductName
	if top == "" {
		top = "N/A"
	}

	return domain.ProductSummary{
		TotalProducts:      len(products),
		TotalValue:         round2(totalValue),
		AvgLandingRate:     round2(landingRateSum / float64(len(products))),
		TopProduct:         top,
		HighestLandingRate: round2(highest),
		TotalOrders:        totalOrders,
	}
}

func (e *Engine) rankProductsBy(limit int, metric func(domain.ProductMetrics) float64) []domain.ProductMetrics {
	var products []domain.ProductMetrics
	for _, p := range e.BestProductsByLandingRate(productRankSample) {
		if metric(p) > 0 {
			products = append(products, p)
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return metric(products[i]) > metric(products[j]) })
	return head(products, normalizeLimit(limit))
}

func (e *Engine) productRanking() []domain.ProductMetrics {
	if e.source.Counts().LandingRates == 0 {
		return nil
	}

	if cached, ok := e.products.Get(); ok {
		e.logger.Debug().Int("products", len(cached)).Msg("product ranking cache hit")
		return cached
	}

	ranked, _, _ := e.flight.Do(productsFlightKey, func() (interface{}, error) {
		if cached, ok := e.products.Get(); ok {
			return cached, nil
		}

		start := time.Now()
		gen := e.products.Generation()
		rates := e.source.LandingRates()
		all := e.allPOs()
		products := rankProducts(rates, all)
		if !e.products.SetIfGeneration(gen, products) {
			e.logger.Debug().Msg("product ranking cleared during rebuild, not cached")
			return products, nil
		}
		e.logger.Debug().
			Int("landing_rates", len(rates)).
			Int("pos", len(all)).
			Dur("took", time.Since(start)).
			Msg("product ranking rebuilt")
		return products, nil
	})

	return ranked.([]domain.ProductMetrics)
}

func rankProducts(rates []domain.LandingRate, pos []domain.PurchaseOrder) []domain.ProductMetrics {
	bySKU := make(map[string][]domain.PurchaseOrder)
	for _, po := range pos {
		bySKU[po.SKUCode] = append(bySKU[po.SKUCode], po)
	}

	products := make([]domain.ProductMetrics, 0, len(rates))
	for _, rate := range rates {
		p := domain.ProductMetrics{
			SKUID:       rate.SKUID,
			ProductName: rate.ProductName,
			Category:    rate.Category,
			LandingRate: rate.LandingRate,
			MRP:         rate.MRP,
			Merchants:   rate.Merchants,
			Cases:       rate.Cases,
		}

		for _, po := range bySKU[rate.SKUID] {
			p.TotalOrderedQty += po.OrderedQty
			p.TotalReceivedQty += po.ReceivedQty
			p.TotalPOValue += po.POAmount
			p.OrderCount++
		}
		p.AvgOrderValue = ratio(p.TotalPOValue, float64(p.OrderCount))
		p.FillRate = percent(p.TotalReceivedQty, p.TotalOrderedQty)

		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool { return products[i].LandingRate > products[j].LandingRate })

	return products
}
