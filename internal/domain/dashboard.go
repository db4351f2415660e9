package domain

import "time"

// VendorMetrics is the per-vendor rollup across closed and open POs.
type VendorMetrics struct {
	Vendor           string  `json:"vendor"`
	TotalPOValue     float64 `json:"totalPOValue"`
	TotalOrderedQty  float64 `json:"totalOrderedQty"`
	TotalReceivedQty float64 `json:"totalReceivedQty"`
	FillRate         float64 `json:"fillRate"`
	OrderCount       int     `json:"orderCount"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
	CompletedOrders  int     `json:"completedOrders"`
	PendingOrders    int     `json:"pendingOrders"`
}

// ProductMetrics is the per-SKU rollup driven by the landing-rate table.
type ProductMetrics struct {
	SKUID            string  `json:"skuId"`
	ProductName      string  `json:"productName"`
	Category         string  `json:"category"`
	LandingRate      float64 `json:"landingRate"`
	MRP              float64 `json:"mrp"`
	TotalOrderedQty  float64 `json:"totalOrderedQty"`
	TotalReceivedQty float64 `json:"totalReceivedQty"`
	TotalPOValue     float64 `json:"totalPoValue"`
	OrderCount       int     `json:"orderCount"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
	FillRate         float64 `json:"fillRate"`
	Merchants        float64 `json:"merchants"`
	Cases            float64 `json:"cases"`
}

// VendorSummary describes the vendor portfolio of the sampled ranking.
// TopVendor is "N/A" when no vendor has a name.
type VendorSummary struct {
	TotalVendors int     `json:"totalVendors"`
	TotalValue   float64 `json:"totalValue"`
	AvgFillRate  float64 `json:"avgFillRate"`
	TopVendor    string  `json:"topVendor,omitempty"`
	BestFillRate float64 `json:"bestFillRate"`
}

// ProductSummary describes the product portfolio of the sampled ranking.
type ProductSummary struct {
	TotalProducts      int     `json:"totalProducts"`
	TotalValue         float64 `json:"totalValue"`
	AvgLandingRate     float64 `json:"avgLandingRate"`
	TopProduct         string  `json:"topProduct,omitempty"`
	HighestLandingRate float64 `json:"highestLandingRate"`
	TotalOrders        int     `json:"totalOrders"`
}

// DashboardMetrics aggregates the KPI cards
type DashboardMetrics struct {
	Revenue             float64 `json:"revenue"`
	FillRate            float64 `json:"fillRate"`
	LineFillRate        float64 `json:"lineFillRate"`
	NZFR                float64 `json:"nzfr"`
	TotalOrders         int     `json:"totalOrders"`
	UnitReceiptFillRate float64 `json:"unitReceiptFillRate"`
}

// DistributionPoint is one slice of a case or billing distribution chart.
type DistributionPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CaseBreakdown feeds the case analytics page.
type CaseBreakdown struct {
	Cases   []DistributionPoint `json:"caseDistribution"`
	Billing []DistributionPoint `json:"billingData"`
}

// VendorCaseStats counts enriched lines per vendor.
type VendorCaseStats struct {
	Vendor     string  `json:"vendor"`
	TotalCases int     `json:"totalCases"`
	Open       int     `json:"open"`
	Closed     int     `json:"closed"`
	GRN        int     `json:"grn"`
	Billing    float64 `json:"billing"`
	GRNBilling float64 `json:"grnBilling"`
}

// CacheState is the lifecycle state of a ranking snapshot.
type CacheState string

const (
	CacheEmpty     CacheState = "EMPTY"
	CachePopulated CacheState = "POPULATED"
	CacheStale     CacheState = "STALE"
)

// CacheStates reports the state of both ranking caches.
type CacheStates struct {
	Vendors  CacheState `json:"vendors"`
	Products CacheState `json:"products"`
}

// CacheCaptures holds when each ranking snapshot was built, nil when empty.
type CacheCaptures struct {
	Vendors  *time.Time `json:"vendors"`
	Products *time.Time `json:"products"`
}
