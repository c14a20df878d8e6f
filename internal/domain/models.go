// internal/domain/models.go
package domain

import "time"

// SalesRecord is one cleaned sales line item. Records are immutable once the
// cleaner has produced them.
type SalesRecord struct {
	ASIN        string
	ProductName string
	Quantity    float64
	UnitPrice   float64
	OrderStatus string
}

// InventoryRecord is one stock row after numeric coercion. Total stock is
// always derived as Fulfillable + Reserved, never stored.
type InventoryRecord struct {
	ASIN        string
	SKU         string
	ProductName string
	Fulfillable float64
	Reserved    float64
}

// CatalogRecord is one product-master row read by fixed column position.
type CatalogRecord struct {
	ASIN        string
	VendorSKU   string
	Manager     string
	Brand       string
	ProductName string
	CostPrice   float64
}

// ReportRow is one row of the unified sales/inventory report, keyed by ASIN.
// Brand, Product and Manager are nil when no source supplies them. The sales
// columns are nil only on rows appended under the append-as-new-rows union
// policy; under merge-by-identifier a missing window maps to 0, never nil.
type ReportRow struct {
	ASIN       string   `json:"asin"`
	Brand      *string  `json:"brand"`
	Product    *string  `json:"product"`
	CP         float64  `json:"cp"`
	SaleLong   *float64 `json:"sale_long"`
	DRRLong    *float64 `json:"drr_long"`
	SaleShort  *float64 `json:"sale_short"`
	DRRShort   *float64 `json:"drr_short"`
	SIH        float64  `json:"sih"`
	Reserved   float64  `json:"reserved"`
	TotalStock float64  `json:"total_stock"`
	TotalValue float64  `json:"total_value"`
	Manager    *string  `json:"manager"`
}

// InventoryReportRow is one row of the SKU-level inventory report, keyed by
// (ASIN, SKU). Catalog attributes are nil, not zero, when the product master
// has no entry for the ASIN, so "no catalog entry" stays distinguishable from
// "zero cost".
type InventoryReportRow struct {
	ASIN       string   `json:"asin"`
	SKU        string   `json:"sku"`
	VendorSKU  *string  `json:"vendor_sku"`
	Manager    *string  `json:"manager"`
	Brand      *string  `json:"brand"`
	Product    *string  `json:"product"`
	CP         *float64 `json:"cp"`
	SIH        float64  `json:"sih"`
	Reserved   float64  `json:"reserved"`
	TotalStock float64  `json:"total_stock"`
	SaleLong   float64  `json:"sale_long"`
	DRRLong    float64  `json:"drr_long"`
	SaleShort  float64  `json:"sale_short"`
	DRRShort   float64  `json:"drr_short"`
}

// RunSummary captures what one pipeline run did: row counts per stage, the
// policies in effect and how many values were substituted during numeric
// coercion.
type RunSummary struct {
	SessionID           string         `json:"session_id" db:"session_id"`
	LongWindowDays      int            `json:"long_window_days" db:"long_window_days"`
	ShortWindowDays     int            `json:"short_window_days" db:"short_window_days"`
	CleanPolicy         string         `json:"clean_policy" db:"clean_policy"`
	UnionPolicy         string         `json:"union_policy" db:"union_policy"`
	LongSalesRows       int            `json:"long_sales_rows" db:"long_sales_rows"`
	LongSalesKept       int            `json:"long_sales_kept" db:"long_sales_kept"`
	ShortSalesRows      int            `json:"short_sales_rows" db:"short_sales_rows"`
	ShortSalesKept      int            `json:"short_sales_kept" db:"short_sales_kept"`
	InventoryRows       int            `json:"inventory_rows" db:"inventory_rows"`
	ActiveASINs         int            `json:"active_asins" db:"active_asins"`
	ReportRows          int            `json:"report_rows" db:"report_rows"`
	InventoryReportRows int            `json:"inventory_report_rows" db:"inventory_report_rows"`
	Coercions           map[string]int `json:"coercions" db:"-"`
	CoercionCount       int            `json:"coercion_count" db:"coercion_count"`
	ElapsedMS           int64          `json:"elapsed_ms" db:"elapsed_ms"`
	GeneratedAt         time.Time      `json:"generated_at" db:"generated_at"`
}

// StoredReports is the cached output of one run: the report rows for
// re-display plus the two rendered workbooks for re-download. A new run for
// the same session overwrites the whole value.
type StoredReports struct {
	SessionID         string               `json:"session_id"`
	Report            []ReportRow          `json:"report"`
	InventoryReport   []InventoryReportRow `json:"inventory_report"`
	Summary           RunSummary           `json:"summary"`
	SummaryWorkbook   []byte               `json:"summary_workbook"`
	InventoryWorkbook []byte               `json:"inventory_workbook"`
}
