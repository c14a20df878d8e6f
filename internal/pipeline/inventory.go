package pipeline

import (
	"github.com/salesops/asinsight/internal/domain"
)

// SKUStock is the per-(ASIN, SKU) stock aggregate feeding the SKU-level
// inventory report.
type SKUStock struct {
	ASIN        string
	SKU         string
	Fulfillable float64
	Reserved    float64
}

// InventoryView is everything the resolver derives from one inventory
// snapshot: the active identifier sets, per-ASIN and per-(ASIN, SKU) stock
// aggregates, and the product names the snapshot carries.
type InventoryView struct {
	// Fulfillable and Reserved sum quantities across duplicate ASIN rows.
	Fulfillable map[string]float64
	Reserved    map[string]float64

	// FulfillableASINs and ReservedASINs hold identifiers with non-zero
	// quantity of the respective kind.
	FulfillableASINs map[string]struct{}
	ReservedASINs    map[string]struct{}

	// ActiveASINs is the union of the two sets above in first-seen order:
	// fulfillable identifiers first, then reserved-only ones.
	ActiveASINs []string

	// BySKU aggregates stock per (ASIN, SKU) pair in first-seen order.
	BySKU []SKUStock

	// ProductNames maps ASIN to the first non-empty product name in the
	// snapshot. Lowest priority in product-name resolution.
	ProductNames map[string]string

	// Rows is the number of data rows in the snapshot.
	Rows int
}

// Active reports whether the identifier carries any non-zero stock.
func (v *InventoryView) Active(asin string) bool {
	if _, ok := v.FulfillableASINs[asin]; ok {
		return true
	}
	_, ok := v.ReservedASINs[asin]
	return ok
}

// ResolveInventory coerces the quantity columns of a normalized inventory
// table and derives the active identifier sets and stock aggregates.
// Non-numeric quantities become 0 and are counted in the audit. An
// identifier with all-zero stock stays out of the active set but may still
// reach the final report through its sales.
func ResolveInventory(t *domain.Table, audit *domain.CoercionAudit) (*InventoryView, error) {
	idxASIN := t.ColumnIndex(identifierColumn)
	if idxASIN < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: identifierColumn}
	}
	idxSKU := t.ColumnIndex("sku", "seller-sku")
	if idxSKU < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "sku"}
	}
	idxFulfillable := t.ColumnIndex("afn-fulfillable-quantity", "fulfillable-quantity")
	if idxFulfillable < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "afn-fulfillable-quantity"}
	}
	idxReserved := t.ColumnIndex("afn-reserved-quantity", "reserved-quantity")
	if idxReserved < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "afn-reserved-quantity"}
	}
	idxName := t.ColumnIndex("product-name", "product name")

	view := &InventoryView{
		Fulfillable:      make(map[string]float64),
		Reserved:         make(map[string]float64),
		FulfillableASINs: make(map[string]struct{}),
		ReservedASINs:    make(map[string]struct{}),
		ProductNames:     make(map[string]string),
		Rows:             len(t.Rows),
	}

	type skuKey struct{ asin, sku string }
	skuIndex := make(map[skuKey]int)

	coerce := func(row []string, idx int, column string) float64 {
		f, ok := parseNumber(domain.Cell(row, idx))
		if !ok && domain.Cell(row, idx) != "" {
			audit.Record(t.Name, column)
		}
		return f
	}

	var fulfillableOrder, reservedOrder []string
	for _, row := range t.Rows {
		rec := domain.InventoryRecord{
			ASIN: domain.Cell(row, idxASIN),
			SKU:  domain.Cell(row, idxSKU),
		}
		if rec.ASIN == "" {
			continue
		}
		if idxName >= 0 {
			rec.ProductName = domain.Cell(row, idxName)
		}
		rec.Fulfillable = coerce(row, idxFulfillable, "afn-fulfillable-quantity")
		rec.Reserved = coerce(row, idxReserved, "afn-reserved-quantity")

		view.Fulfillable[rec.ASIN] += rec.Fulfillable
		view.Reserved[rec.ASIN] += rec.Reserved

		if rec.Fulfillable != 0 {
			if _, ok := view.FulfillableASINs[rec.ASIN]; !ok {
				view.FulfillableASINs[rec.ASIN] = struct{}{}
				fulfillableOrder = append(fulfillableOrder, rec.ASIN)
			}
		}
		if rec.Reserved != 0 {
			if _, ok := view.ReservedASINs[rec.ASIN]; !ok {
				view.ReservedASINs[rec.ASIN] = struct{}{}
				reservedOrder = append(reservedOrder, rec.ASIN)
			}
		}

		key := skuKey{rec.ASIN, rec.SKU}
		if i, ok := skuIndex[key]; ok {
			view.BySKU[i].Fulfillable += rec.Fulfillable
			view.BySKU[i].Reserved += rec.Reserved
		} else {
			skuIndex[key] = len(view.BySKU)
			view.BySKU = append(view.BySKU, SKUStock{
				ASIN:        rec.ASIN,
				SKU:         rec.SKU,
				Fulfillable: rec.Fulfillable,
				Reserved:    rec.Reserved,
			})
		}

		if rec.ProductName != "" {
			if _, ok := view.ProductNames[rec.ASIN]; !ok {
				view.ProductNames[rec.ASIN] = rec.ProductName
			}
		}
	}

	// Union keeps fulfillable identifiers first, then reserved-only ones.
	view.ActiveASINs = append(view.ActiveASINs, fulfillableOrder...)
	for _, asin := range reservedOrder {
		if _, ok := view.FulfillableASINs[asin]; !ok {
			view.ActiveASINs = append(view.ActiveASINs, asin)
		}
	}

	return view, nil
}
