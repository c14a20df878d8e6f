package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/salesops/asinsight/internal/domain"
)

// CleanPolicy selects how raw sales rows are filtered. Both policies from the
// source extracts are supported as an explicit choice, never a hidden branch.
type CleanPolicy string

const (
	// CleanByPrice keeps rows whose unit price coerces to a non-zero number.
	CleanByPrice CleanPolicy = "price"
	// CleanByStatus keeps rows with positive quantity whose order status is
	// not "Cancelled".
	CleanByStatus CleanPolicy = "status"
)

const cancelledStatus = "Cancelled"

func (p CleanPolicy) Valid() bool {
	return p == CleanByPrice || p == CleanByStatus
}

// CleanSales filters a raw sales table to valid line items and coerces the
// numeric fields. The returned slice is dense; source row positions are not
// preserved. Coercion failures are substituted per field policy and counted
// in the audit.
func CleanSales(t *domain.Table, policy CleanPolicy, audit *domain.CoercionAudit) ([]domain.SalesRecord, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown clean policy %q", policy)
	}

	idxASIN := t.ColumnIndex(identifierColumn)
	if idxASIN < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: identifierColumn}
	}
	idxName := t.ColumnIndex("product-name", "product name")
	if idxName < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "product-name"}
	}
	idxQty := t.ColumnIndex("quantity", "qty")
	if idxQty < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "quantity"}
	}
	idxPrice := t.ColumnIndex("item-price", "unit-price")
	if idxPrice < 0 {
		return nil, &domain.SchemaError{Table: t.Name, Column: "item-price"}
	}
	// order-status is optional; rows without it are treated as not cancelled.
	idxStatus := t.ColumnIndex("order-status", "order status")

	records := make([]domain.SalesRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := domain.SalesRecord{
			ASIN:        domain.Cell(row, idxASIN),
			ProductName: domain.Cell(row, idxName),
			OrderStatus: domain.Cell(row, idxStatus),
		}

		rawQty := domain.Cell(row, idxQty)
		qty, qtyOK := parseNumber(rawQty)
		if !qtyOK && rawQty != "" {
			audit.Record(t.Name, "quantity")
		}
		rec.Quantity = qty

		rawPrice := domain.Cell(row, idxPrice)
		price, priceOK := parseNumber(rawPrice)
		if !priceOK && rawPrice != "" {
			audit.Record(t.Name, "item-price")
		}
		rec.UnitPrice = price

		switch policy {
		case CleanByPrice:
			// Non-numeric prices became the missing marker above and are
			// excluded here together with zero prices.
			if !priceOK || price == 0 {
				continue
			}
		case CleanByStatus:
			if rec.OrderStatus == cancelledStatus {
				continue
			}
			if !qtyOK || qty <= 0 {
				continue
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseNumber coerces a cell to a float. Thousands separators are stripped
// first. The second return is false when the cell is blank or non-numeric.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
