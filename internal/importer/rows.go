package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/rs/zerolog"
)

var (
	poColumns = map[string][]string{
		"poNumber":           {"ponumber", "pono", "po"},
		"vendor":             {"vendor", "vendorname", "supplier", "suppliername"},
		"skuCode":            {"skucode", "sku", "skuid"},
		"skuDescription":     {"skudescription", "description", "skuname"},
		"orderedQty":         {"orderedqty", "orderqty", "quantity", "qty"},
		"receivedQty":        {"receivedqty", "grnqty", "receivedquantity"},
		"poAmount":           {"poamount", "amount", "povalue"},
		"poLineValueWithTax": {"polinevaluewithtax", "linevaluewithtax"},
		"status":             {"status", "postatus"},
	}

	landingRateColumns = map[string][]string{
		"skuId":       {"skuid", "sku", "skucode"},
		"productName": {"productname", "product", "name"},
		"category":    {"category"},
		"mrp":         {"mrp"},
		"landingRate": {"landingrate", "lr"},
		"cases":       {"cases", "casesize", "unitspercase"},
		"merchants":   {"merchants"},
	}
)

// resolveColumns finds each field's column; required fields must be present.
func resolveColumns(h header, columns map[string][]string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for field, aliases := range columns {
		i, _ := h.index(aliases...)
		idx[field] = i
	}
	for _, field := range required {
		if idx[field] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	return idx, nil
}

func (i *Importer) parsePOs(records [][]string, open bool, name string, logger zerolog.Logger) ([]domain.PurchaseOrder, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrMissingHeader
	}

	cols, err := resolveColumns(newHeader(records[0]), poColumns, "poNumber")
	if err != nil {
		return nil, 0, err
	}

	defaultStatus := domain.StatusUnknown
	if open {
		defaultStatus = domain.StatusOpen
	}

	pos := make([]domain.PurchaseOrder, 0, len(records)-1)
	skipped := 0
	for n, row := range records[1:] {
		if blank(row) {
			continue
		}

		po, err := i.buildPO(row, cols, defaultStatus)
		if err != nil {
			skipped++
			logger.Warn().Err(err).Str("file", name).Int("row", n+2).Msg("skipping purchase order row")
			continue
		}
		pos = append(pos, po)
	}

	return pos, skipped, nil
}

func (i *Importer) buildPO(row []string, cols map[string]int, defaultStatus domain.POStatus) (domain.PurchaseOrder, error) {
	var nums numberReader
	po := domain.PurchaseOrder{
		PONumber:           cell(row, cols["poNumber"]),
		Vendor:             cell(row, cols["vendor"]),
		SKUCode:            cell(row, cols["skuCode"]),
		SKUDescription:     cell(row, cols["skuDescription"]),
		OrderedQty:         nums.read(row, cols["orderedQty"], "orderedQty"),
		ReceivedQty:        nums.read(row, cols["receivedQty"], "receivedQty"),
		POAmount:           nums.read(row, cols["poAmount"], "poAmount"),
		POLineValueWithTax: nums.read(row, cols["poLineValueWithTax"], "poLineValueWithTax"),
		Status:             defaultStatus,
	}
	if nums.err != nil {
		return po, nums.err
	}

	if label := cell(row, cols["status"]); label != "" {
		po.Status, _ = domain.ParsePOStatus(label)
	}

	if err := i.validate.Struct(po); err != nil {
		return po, err
	}
	return po, nil
}

func (i *Importer) parseLandingRates(records [][]string, name string, logger zerolog.Logger) ([]domain.LandingRate, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrMissingHeader
	}

	cols, err := resolveColumns(newHeader(records[0]), landingRateColumns, "skuId")
	if err != nil {
		return nil, 0, err
	}

	rates := make([]domain.LandingRate, 0, len(records)-1)
	skipped := 0
	for n, row := range records[1:] {
		if blank(row) {
			continue
		}

		var nums numberReader
		rate := domain.LandingRate{
			SKUID:       cell(row, cols["skuId"]),
			ProductName: cell(row, cols["productName"]),
			Category:    cell(row, cols["category"]),
			MRP:         nums.read(row, cols["mrp"], "mrp"),
			LandingRate: nums.read(row, cols["landingRate"], "landingRate"),
			Cases:       nums.read(row, cols["cases"], "cases"),
			Merchants:   nums.read(row, cols["merchants"], "merchants"),
		}

		err := nums.err
		if err == nil {
			err = i.validate.Struct(rate)
		}
		if err != nil {
			skipped++
			logger.Warn().Err(err).Str("file", name).Int("row", n+2).Msg("skipping landing rate row")
			continue
		}
		rates = append(rates, rate)
	}

	return rates, skipped, nil
}

// numberReader parses numeric cells and keeps the first failure.
type numberReader struct {
	err error
}

func (r *numberReader) read(row []string, idx int, field string) float64 {
	v, err := parseNumber(cell(row, idx))
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

// parseNumber accepts thousands separators and a rupee sign. Empty is 0.
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
