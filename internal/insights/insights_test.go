package insights

import (
	"testing"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssistant(t *testing.T) *Assistant {
	t.Helper()

	s := store.New()
	s.ReplacePOs([]domain.PurchaseOrder{
		{PONumber: "PO-1", Vendor: "Acme", SKUCode: "SKU-1", OrderedQty: 10, ReceivedQty: 5, POAmount: 300, Status: domain.StatusCompleted},
		{PONumber: "PO-2", Vendor: "Beta", SKUCode: "SKU-2", OrderedQty: 5, ReceivedQty: 5, POAmount: 500, Status: domain.StatusCompleted},
	})
	s.ReplaceOpenPOs([]domain.PurchaseOrder{
		{PONumber: "OP-1", Vendor: "Gamma", SKUCode: "SKU-1", OrderedQty: 4, POLineValueWithTax: 120, Status: domain.StatusOpen},
	})
	s.ReplaceLandingRates([]domain.LandingRate{
		{SKUID: "SKU-1", ProductName: "Milk", Category: "Dairy", LandingRate: 40.5, MRP: 50, Cases: 2},
		{SKUID: "SKU-2", ProductName: "Bread", Category: "Bakery", LandingRate: 20, MRP: 25, Cases: 1},
	})

	return NewAssistant(analytics.NewEngine(s), s)
}

func TestAnalyzeRouting(t *testing.T) {
	a := newAssistant(t)

	tests := []struct {
		question string
		topic    Topic
		contains string
	}{
		{"Who are the top vendors by fill rate?", TopicTopVendorsByFillRate, "1. Beta: 100% (₹500)\n2. Acme: 50% (₹300)"},
		{"top suppliers by order count", TopicTopVendorsByOrderCount, "1. Beta: 1 orders (₹500)\n2. Acme: 1 orders (₹300)"},
		{"Show me the top 5 vendors", TopicTopVendorsByValue, "1. Beta: ₹500 (1 orders, 100% fill rate)"},
		{"What's the vendor performance summary?", TopicVendorSummary, "- **Total Vendors:** 3"},
		{"show underperforming vendors", TopicUnderperformingVendors, "1. Acme: 50% fill rate (₹300)"},
		{"What is our revenue?", TopicRevenue, "- Total Completed PO Value: ₹800\n- Open PO Value: ₹120\n- Combined PO Value: ₹920"},
		{"how is the fill rate", TopicFillRate, "- Overall Fill Rate: 66.67%"},
		{"best performing products by landing rate", TopicProductsByLandingRate, "1. Milk: ₹40.50 landing rate (₹300 total value)"},
		{"best performing products by value", TopicProductsByValue, "1. Bread: ₹500 (1 orders, ₹20.00 landing rate)"},
		{"best performing items with most orders", TopicProductsByOrderCount, "1. Milk: 2 orders"},
		{"What are the best performing products?", TopicBestProducts, "### 1. Milk\n- **Landing Rate:** ₹40.50"},
		{"product summary please", TopicProductSummary, "- **Total Products:** 2"},
		{"show me products in dairy category", TopicProductsByCategory, "Top Products in DAIRY Category:\n1. Milk: ₹40.50 landing rate (₹300)"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := a.Analyze(tt.question)
			assert.Equal(t, tt.topic, got.Topic)
			assert.Contains(t, got.Summary, tt.contains)
		})
	}
}

func TestAnalyzeUnmatched(t *testing.T) {
	a := newAssistant(t)

	assert.Equal(t, Analysis{}, a.Analyze("hello there"))
	// a category question with no "in/of/for" clause falls through
	assert.Equal(t, Analysis{}, a.Analyze("list products by type"))
}

func TestAnalyzeCategoryCapture(t *testing.T) {
	a := newAssistant(t)

	got := a.Analyze("Products of BAKERY category")
	assert.Equal(t, "bakery", got.Category)
	assert.Contains(t, got.Summary, "1. Bread: ₹20.00 landing rate (₹500)")
}

func TestBuildPrompt(t *testing.T) {
	a := newAssistant(t)

	p := a.BuildPrompt("What is our revenue?")
	require.Equal(t, TopicRevenue, p.Analysis.Topic)
	assert.Contains(t, p.Text, "- Open Purchase Orders: 1 records")
	assert.Contains(t, p.Text, "- Completed Purchase Orders: 2 records")
	assert.Contains(t, p.Text, "- Landing Rates: 2 records")
	assert.Contains(t, p.Text, "User Question: What is our revenue?")
	assert.Contains(t, p.Text, p.Analysis.Summary)
	assert.Contains(t, p.Text, formattingInstruction)
}

func TestSystemPromptCounts(t *testing.T) {
	prompt := SystemPrompt(store.Counts{POs: 4, OpenPOs: 3, LandingRates: 2, UniversalPO: 1})

	assert.Contains(t, prompt, "- Open Purchase Orders: 3 records")
	assert.Contains(t, prompt, "- Universal PO Data: 1 records")
}

func TestFormatCompactINR(t *testing.T) {
	assert.Equal(t, "₹2.5Cr", FormatCompactINR(25_000_000))
	assert.Equal(t, "₹1.5L", FormatCompactINR(150_000))
	assert.Equal(t, "₹2.5K", FormatCompactINR(2_500))
	assert.Equal(t, "₹999", FormatCompactINR(999))
	assert.Equal(t, "₹0", FormatCompactINR(0))
}

func TestFormatSmallValues(t *testing.T) {
	assert.Equal(t, "₹800", FormatINR(800))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "40.50", fixed2(40.5))
	assert.Equal(t, "33.33%", percentage(33.33))
}
