// backend-go/internal/domain/models.go
package domain

// PurchaseOrder represents one purchase-order line from a closed or open PO upload.
// ReceivedQty is not bounded by OrderedQty; over-receipts are kept as-is.
type PurchaseOrder struct {
	PONumber           string   `json:"poNumber" validate:"required"`
	Vendor             string   `json:"vendor"`
	SKUCode            string   `json:"skuCode"`
	SKUDescription     string   `json:"skuDescription"`
	OrderedQty         float64  `json:"orderedQty" validate:"gte=0"`
	ReceivedQty        float64  `json:"receivedQty" validate:"gte=0"`
	POAmount           float64  `json:"poAmount"`
	POLineValueWithTax float64  `json:"poLineValueWithTax"`
	Status             POStatus `json:"status"`
}

// LandingRate is the cost/reference row for a single SKU.
type LandingRate struct {
	SKUID       string  `json:"skuId" validate:"required"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	MRP         float64 `json:"mrp"`
	LandingRate float64 `json:"landingRate"`
	Cases       float64 `json:"cases" validate:"gte=0"`
	Merchants   float64 `json:"merchants"`
}

// EnrichedPO is a closed PO line joined to its landing rate.
type EnrichedPO struct {
	PONumber           string   `json:"poNumber"`
	Vendor             string   `json:"vendor"`
	OrderedQty         float64  `json:"orderedQty"`
	ReceivedQty        float64  `json:"receivedQty"`
	POAmount           float64  `json:"poAmount"`
	SKUCode            string   `json:"skuCode"`
	Units              float64  `json:"units"`
	Cases              float64  `json:"cases"`
	GRNCase            float64  `json:"grncase"`
	MRP                float64  `json:"mrp"`
	LandingRate        float64  `json:"landingRate"`
	SKUDescription     string   `json:"skuDescription"`
	POLineValueWithTax float64  `json:"poLineValueWithTax"`
	GRNBillValue       float64  `json:"grnBillValue"`
	Status             POStatus `json:"status"`
}

// UploadedFile represents an uploaded file for import
type UploadedFile struct {
	Filename string
	Path     string
	Size     int64
}
