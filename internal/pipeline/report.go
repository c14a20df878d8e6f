package pipeline

import (
	"fmt"

	"github.com/salesops/asinsight/internal/domain"
)

// UnionPolicy decides how inventory-only identifiers enter the unified
// report.
type UnionPolicy string

const (
	// MergeByIdentifier merges sales and active-inventory identifiers into
	// one keyed set; every row gets the full attribute and metric joins.
	// Preferred when all four tables are jointly normalized.
	MergeByIdentifier UnionPolicy = "merge"
	// AppendAsNewRows keeps sales identifiers as the base table and appends
	// inventory-only identifiers as extra rows carrying only stock fields,
	// with brand, product and the sales columns left null. Used when new
	// ASINs not yet in sales must stay visibly distinguished.
	AppendAsNewRows UnionPolicy = "append"
)

func (p UnionPolicy) Valid() bool {
	return p == MergeByIdentifier || p == AppendAsNewRows
}

// AssembleReport joins cleaned sales, resolved inventory, catalog attributes
// and window metrics into the unified report, one row per identifier.
//
// Total value is computed last, after the identifier set is final and every
// attribute join — cost price included — is complete. Recomputing it earlier
// would capture a stale zero.
func AssembleReport(
	longSales []domain.SalesRecord,
	inv *InventoryView,
	cat *Catalog,
	names map[string]string,
	long, short WindowMetrics,
	policy UnionPolicy,
) ([]domain.ReportRow, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown union policy %q", policy)
	}

	// Distinct sales identifiers in first-seen order.
	salesSet := make(map[string]struct{}, len(longSales))
	var salesASINs []string
	for _, rec := range longSales {
		if rec.ASIN == "" {
			continue
		}
		if _, ok := salesSet[rec.ASIN]; !ok {
			salesSet[rec.ASIN] = struct{}{}
			salesASINs = append(salesASINs, rec.ASIN)
		}
	}

	rows := make([]domain.ReportRow, 0, len(salesASINs)+len(inv.ActiveASINs))
	for _, asin := range salesASINs {
		rows = append(rows, fullRow(asin, inv, cat, names, long, short))
	}

	for _, asin := range inv.ActiveASINs {
		if _, ok := salesSet[asin]; ok {
			continue
		}
		switch policy {
		case MergeByIdentifier:
			rows = append(rows, fullRow(asin, inv, cat, names, long, short))
		case AppendAsNewRows:
			rows = append(rows, stockOnlyRow(asin, inv))
		}
	}

	// Final pass: the row invariant total-value = total-stock x cost-price,
	// evaluated only now that both inputs are settled.
	for i := range rows {
		rows[i].TotalValue = rows[i].TotalStock * rows[i].CP
	}

	return rows, nil
}

func fullRow(asin string, inv *InventoryView, cat *Catalog, names map[string]string, long, short WindowMetrics) domain.ReportRow {
	row := domain.ReportRow{
		ASIN:      asin,
		CP:        cat.CostPrice[asin],
		SaleLong:  f64ptr(long.SaleQuantity(asin)),
		DRRLong:   f64ptr(long.DemandRate(asin)),
		SaleShort: f64ptr(short.SaleQuantity(asin)),
		DRRShort:  f64ptr(short.DemandRate(asin)),
		SIH:       inv.Fulfillable[asin],
		Reserved:  inv.Reserved[asin],
	}
	row.TotalStock = row.SIH + row.Reserved
	if v, ok := cat.Brand[asin]; ok {
		row.Brand = strptr(v)
	}
	if v, ok := names[asin]; ok {
		row.Product = strptr(v)
	}
	if v, ok := cat.Manager[asin]; ok {
		row.Manager = strptr(v)
	}
	return row
}

// stockOnlyRow builds an appended row for an identifier that has active
// inventory but no sales history: stock fields only, everything else null.
func stockOnlyRow(asin string, inv *InventoryView) domain.ReportRow {
	row := domain.ReportRow{
		ASIN:     asin,
		SIH:      inv.Fulfillable[asin],
		Reserved: inv.Reserved[asin],
	}
	row.TotalStock = row.SIH + row.Reserved
	return row
}

// AssembleInventoryReport builds the SKU-level report: one row per
// (ASIN, SKU) stock aggregate, left-joined against the product master and the
// window metrics. Missing catalog attributes stay null — not 0 — so a missing
// catalog entry is distinguishable from a zero cost; missing sales map to 0.
func AssembleInventoryReport(
	inv *InventoryView,
	cat *Catalog,
	long, short WindowMetrics,
) []domain.InventoryReportRow {
	rows := make([]domain.InventoryReportRow, 0, len(inv.BySKU))
	for _, stock := range inv.BySKU {
		row := domain.InventoryReportRow{
			ASIN:       stock.ASIN,
			SKU:        stock.SKU,
			SIH:        stock.Fulfillable,
			Reserved:   stock.Reserved,
			TotalStock: stock.Fulfillable + stock.Reserved,
			SaleLong:   long.SaleQuantity(stock.ASIN),
			DRRLong:    long.DemandRate(stock.ASIN),
			SaleShort:  short.SaleQuantity(stock.ASIN),
			DRRShort:   short.DemandRate(stock.ASIN),
		}
		if v, ok := cat.VendorSKU[stock.ASIN]; ok {
			row.VendorSKU = strptr(v)
		}
		if v, ok := cat.Manager[stock.ASIN]; ok {
			row.Manager = strptr(v)
		}
		if v, ok := cat.Brand[stock.ASIN]; ok {
			row.Brand = strptr(v)
		}
		if v, ok := cat.ProductName[stock.ASIN]; ok {
			row.Product = strptr(v)
		}
		if cat.HasEntry(stock.ASIN) {
			row.CP = f64ptr(cat.CostPrice[stock.ASIN])
		}
		rows = append(rows, row)
	}
	return rows
}

func strptr(v string) *string   { return &v }
func f64ptr(v float64) *float64 { return &v }
