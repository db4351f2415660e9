// Package insights turns free-text questions into KPI lookups and builds the
// prompt an assistant model would answer from. It performs no network calls.
package insights

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
)

const answerLimit = 5

// Topic names the KPI view a question was routed to.
type Topic string

const (
	TopicNone                   Topic = ""
	TopicTopVendorsByFillRate   Topic = "top_vendors_fill_rate"
	TopicTopVendorsByOrderCount Topic = "top_vendors_order_count"
	TopicTopVendorsByValue      Topic = "top_vendors_value"
	TopicVendorSummary          Topic = "vendor_summary"
	TopicUnderperformingVendors Topic = "underperforming_vendors"
	TopicRevenue                Topic = "revenue"
	TopicFillRate               Topic = "fill_rate"
	TopicProductsByLandingRate  Topic = "products_landing_rate"
	TopicProductsByValue        Topic = "products_value"
	TopicProductsByOrderCount   Topic = "products_order_count"
	TopicBestProducts           Topic = "best_products"
	TopicProductSummary         Topic = "product_summary"
	TopicProductsByCategory     Topic = "products_category"
)

var categoryPattern = regexp.MustCompile(`(?:in|of|for)\s+(\w+)`)

// KPIs is the slice of the analytics engine the assistant reads from.
type KPIs interface {
	TopVendorsByValue(limit int) []domain.VendorMetrics
	TopVendorsByFillRate(limit int) []domain.VendorMetrics
	TopVendorsByOrderCount(limit int) []domain.VendorMetrics
	UnderperformingVendors(limit int) []domain.VendorMetrics
	VendorPerformanceSummary() domain.VendorSummary
	SumOfBilling() float64
	SumOfOpenPOBillingValue() float64
	FillRate() float64
	LineFillRate() float64
	UnitReceiptFillRate() float64
	BestProductsByLandingRate(limit int) []domain.ProductMetrics
	BestProductsByValue(limit int) []domain.ProductMetrics
	BestProductsByOrderCount(limit int) []domain.ProductMetrics
	ProductPerformanceSummary() domain.ProductSummary
	ProductsByCategory(category string, limit int) []domain.ProductMetrics
}

// CountSource reports how many rows are loaded.
type CountSource interface {
	Counts() store.Counts
}

// Analysis is the routed topic and its Markdown summary.
// Summary is empty when no topic matched.
type Analysis struct {
	Topic    Topic  `json:"topic"`
	Category string `json:"category,omitempty"`
	Summary  string `json:"summary"`
}

type Assistant struct {
	kpis   KPIs
	counts CountSource
}

func NewAssistant(kpis KPIs, counts CountSource) *Assistant {
	return &Assistant{kpis: kpis, counts: counts}
}

// Analyze routes question by keyword. The first matching rule wins.
func (a *Assistant) Analyze(question string) Analysis {
	q := strings.ToLower(question)

	if has(q, "top") && hasAny(q, "vendor", "supplier") {
		switch {
		case hasAny(q, "fill rate", "performance"):
			return a.topVendorsByFillRate()
		case hasAny(q, "order", "count"):
			return a.topVendorsByOrderCount()
		default:
			return a.topVendorsByValue()
		}
	}

	if hasAny(q, "vendor performance", "vendor summary") {
		return a.vendorSummary()
	}

	if hasAny(q, "underperforming", "poor performance") {
		return a.underperformingVendors()
	}

	if hasAny(q, "total value", "revenue") {
		return a.revenue()
	}

	if has(q, "fill rate") {
		return a.fillRates()
	}

	if has(q, "best performing") && hasAny(q, "product", "item") {
		switch {
		case hasAny(q, "landing rate", "profitability"):
			return a.productsByLandingRate()
		case hasAny(q, "value", "revenue"):
			return a.productsByValue()
		case hasAny(q, "order", "popular"):
			return a.productsByOrderCount()
		default:
			return a.bestProducts()
		}
	}

	if hasAny(q, "product performance", "product summary") {
		return a.productSummary()
	}

	if has(q, "products") && hasAny(q, "category", "type") {
		if m := categoryPattern.FindStringSubmatch(q); m != nil {
			return a.productsByCategory(m[1])
		}
	}

	return Analysis{}
}

func (a *Assistant) topVendorsByFillRate() Analysis {
	vendors := a.kpis.TopVendorsByFillRate(answerLimit)
	return Analysis{
		Topic: TopicTopVendorsByFillRate,
		Summary: listing("Top 5 Vendors by Fill Rate:", len(vendors), func(i int) string {
			v := vendors[i]
			return fmt.Sprintf("%s: %s (%s)", v.Vendor, percentage(v.FillRate), FormatINR(v.TotalPOValue))
		}),
	}
}

func (a *Assistant) topVendorsByOrderCount() Analysis {
	vendors := a.kpis.TopVendorsByOrderCount(answerLimit)
	return Analysis{
		Topic: TopicTopVendorsByOrderCount,
		Summary: listing("Top 5 Vendors by Order Count:", len(vendors), func(i int) string {
			v := vendors[i]
			return fmt.Sprintf("%s: %d orders (%s)", v.Vendor, v.OrderCount, FormatINR(v.TotalPOValue))
		}),
	}
}

func (a *Assistant) topVendorsByValue() Analysis {
	vendors := a.kpis.TopVendorsByValue(answerLimit)
	return Analysis{
		Topic: TopicTopVendorsByValue,
		Summary: listing("Top 5 Vendors by PO Value:", len(vendors), func(i int) string {
			v := vendors[i]
			return fmt.Sprintf("%s: %s (%d orders, %s fill rate)", v.Vendor, FormatINR(v.TotalPOValue), v.OrderCount, percentage(v.FillRate))
		}),
	}
}

func (a *Assistant) vendorSummary() Analysis {
	s := a.kpis.VendorPerformanceSummary()

	var b strings.Builder
	b.WriteString("## Vendor Performance Summary\n\n### Key Metrics\n")
	fmt.Fprintf(&b, "- **Total Vendors:** %d\n", s.TotalVendors)
	fmt.Fprintf(&b, "- **Total Value:** %s\n", FormatINR(s.TotalValue))
	fmt.Fprintf(&b, "- **Average Fill Rate:** %s\n", percentage(s.AvgFillRate))
	fmt.Fprintf(&b, "- **Top Vendor:** %s\n", s.TopVendor)
	fmt.Fprintf(&b, "- **Best Fill Rate:** %s\n\n", percentage(s.BestFillRate))
	b.WriteString("### Analysis\n")
	fmt.Fprintf(&b, "Your vendor network consists of %d active vendors with a total business value of %s. ",
		s.TotalVendors, FormatINR(s.TotalValue))
	fmt.Fprintf(&b, "The average fill rate is %s. %s is your top vendor by value.", percentage(s.AvgFillRate), s.TopVendor)

	return Analysis{Topic: TopicVendorSummary, Summary: b.String()}
}

func (a *Assistant) underperformingVendors() Analysis {
	vendors := a.kpis.UnderperformingVendors(answerLimit)
	return Analysis{
		Topic: TopicUnderperformingVendors,
		Summary: listing("Underperforming Vendors (Fill Rate < 80%):", len(vendors), func(i int) string {
			v := vendors[i]
			return fmt.Sprintf("%s: %s fill rate (%s)", v.Vendor, percentage(v.FillRate), FormatINR(v.TotalPOValue))
		}),
	}
}

func (a *Assistant) revenue() Analysis {
	closed, open := a.kpis.SumOfBilling(), a.kpis.SumOfOpenPOBillingValue()
	return Analysis{
		Topic: TopicRevenue,
		Summary: fmt.Sprintf("Financial Summary:\n- Total Completed PO Value: %s\n- Open PO Value: %s\n- Combined PO Value: %s",
			FormatINR(closed), FormatINR(open), FormatCompactINR(closed+open)),
	}
}

func (a *Assistant) fillRates() Analysis {
	return Analysis{
		Topic: TopicFillRate,
		Summary: fmt.Sprintf("Fill Rate Metrics:\n- Overall Fill Rate: %s\n- Line Fill Rate: %s\n- Unit Receipt Fill Rate: %s",
			percentage(a.kpis.FillRate()), percentage(a.kpis.LineFillRate()), percentage(a.kpis.UnitReceiptFillRate())),
	}
}

func (a *Assistant) productsByLandingRate() Analysis {
	products := a.kpis.BestProductsByLandingRate(answerLimit)
	return Analysis{
		Topic: TopicProductsByLandingRate,
		Summary: listing("Top 5 Best Performing Products by Landing Rate:", len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("%s: %s%s landing rate (%s total value)", p.ProductName, rupee, fixed2(p.LandingRate), FormatINR(p.TotalPOValue))
		}),
	}
}

func (a *Assistant) productsByValue() Analysis {
	products := a.kpis.BestProductsByValue(answerLimit)
	return Analysis{
		Topic: TopicProductsByValue,
		Summary: listing("Top 5 Best Performing Products by Total Value:", len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("%s: %s (%d orders, %s%s landing rate)", p.ProductName, FormatINR(p.TotalPOValue), p.OrderCount, rupee, fixed2(p.LandingRate))
		}),
	}
}

func (a *Assistant) productsByOrderCount() Analysis {
	products := a.kpis.BestProductsByOrderCount(answerLimit)
	return Analysis{
		Topic: TopicProductsByOrderCount,
		Summary: listing("Top 5 Most Popular Products by Order Count:", len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("%s: %d orders (%s, %s%s landing rate)", p.ProductName, p.OrderCount, FormatINR(p.TotalPOValue), rupee, fixed2(p.LandingRate))
		}),
	}
}

func (a *Assistant) bestProducts() Analysis {
	products := a.kpis.BestProductsByLandingRate(answerLimit)

	blocks := make([]string, 0, len(products))
	for i, p := range products {
		blocks = append(blocks, fmt.Sprintf(
			"### %d. %s\n- **Landing Rate:** %s%s\n- **Total Value:** %s\n- **Orders:** %d\n- **Category:** %s\n- **MRP:** %s",
			i+1, p.ProductName, rupee, fixed2(p.LandingRate), FormatINR(p.TotalPOValue), p.OrderCount, p.Category, FormatINR(p.MRP)))
	}

	return Analysis{
		Topic:   TopicBestProducts,
		Summary: "## Top 5 Best Performing Products (by Landing Rate)\n\n" + strings.Join(blocks, "\n\n"),
	}
}

func (a *Assistant) productSummary() Analysis {
	s := a.kpis.ProductPerformanceSummary()

	var b strings.Builder
	b.WriteString("## Product Performance Summary\n\n### Key Metrics\n")
	fmt.Fprintf(&b, "- **Total Products:** %d\n", s.TotalProducts)
	fmt.Fprintf(&b, "- **Total Value:** %s\n", FormatINR(s.TotalValue))
	fmt.Fprintf(&b, "- **Average Landing Rate:** %s%s\n", rupee, fixed2(s.AvgLandingRate))
	fmt.Fprintf(&b, "- **Top Product:** %s\n", s.TopProduct)
	fmt.Fprintf(&b, "- **Highest Landing Rate:** %s%s\n", rupee, fixed2(s.HighestLandingRate))
	fmt.Fprintf(&b, "- **Total Orders:** %d\n\n", s.TotalOrders)
	b.WriteString("### Analysis\n")
	fmt.Fprintf(&b, "Across %d unique products the average landing rate is %s%s. ", s.TotalProducts, rupee, fixed2(s.AvgLandingRate))
	fmt.Fprintf(&b, "%q carries the highest landing rate at %s%s.", s.TopProduct, rupee, fixed2(s.HighestLandingRate))

	return Analysis{Topic: TopicProductSummary, Summary: b.String()}
}

func (a *Assistant) productsByCategory(category string) Analysis {
	products := a.kpis.ProductsByCategory(category, answerLimit)
	title := fmt.Sprintf("Top Products in %s Category:", strings.ToUpper(category))
	return Analysis{
		Topic:    TopicProductsByCategory,
		Category: category,
		Summary: listing(title, len(products), func(i int) string {
			p := products[i]
			return fmt.Sprintf("%s: %s%s landing rate (%s)", p.ProductName, rupee, fixed2(p.LandingRate), FormatINR(p.TotalPOValue))
		}),
	}
}

// listing renders a numbered list under title, one line per item.
func listing(title string, n int, line func(i int) string) string {
	var b strings.Builder
	b.WriteString(title)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "\n%d. %s", i+1, line(i))
	}
	return b.String()
}

func has(s, sub string) bool {
	return strings.Contains(s, sub)
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
