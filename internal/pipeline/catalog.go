package pipeline

import (
	"github.com/salesops/asinsight/internal/domain"
)

// The product master is read by fixed column position; its header names are
// not trusted. This is the one positional contract in the pipeline.
const (
	masterColASIN      = 0
	masterColVendorSKU = 1
	masterColManager   = 4
	masterColBrand     = 6
	masterColProduct   = 7
	masterColCostPrice = 9

	masterMinColumns = 10
)

// Catalog holds the deduplicated identifier-to-attribute maps built from the
// product master. Duplicate identifiers keep the first row encountered; later
// rows are discarded, never merged. Blank attribute values are not inserted,
// so map presence distinguishes "no value" from an empty one — except cost
// price, which is recorded (as 0 when blank) for every master identifier.
type Catalog struct {
	Brand       map[string]string
	ProductName map[string]string
	Manager     map[string]string
	VendorSKU   map[string]string
	CostPrice   map[string]float64

	// entries tracks every identifier present in the master, whatever its
	// attribute values, so lookups can tell a missing catalog entry from a
	// zero-valued one.
	entries map[string]struct{}
}

// HasEntry reports whether the master has any row for the identifier.
func (c *Catalog) HasEntry(asin string) bool {
	_, ok := c.entries[asin]
	return ok
}

// BuildCatalog reads the normalized product-master table positionally and
// builds the attribute maps. Cost prices that fail numeric coercion are
// recorded as 0 and counted in the audit.
func BuildCatalog(t *domain.Table, audit *domain.CoercionAudit) (*Catalog, error) {
	if len(t.Header) < masterMinColumns {
		return nil, &domain.SchemaError{Table: t.Name, Column: "cost-price (position 9)"}
	}

	cat := &Catalog{
		Brand:       make(map[string]string),
		ProductName: make(map[string]string),
		Manager:     make(map[string]string),
		VendorSKU:   make(map[string]string),
		CostPrice:   make(map[string]float64),
		entries:     make(map[string]struct{}),
	}

	for _, row := range t.Rows {
		rec := domain.CatalogRecord{
			ASIN:        domain.Cell(row, masterColASIN),
			VendorSKU:   domain.Cell(row, masterColVendorSKU),
			Manager:     domain.Cell(row, masterColManager),
			Brand:       domain.Cell(row, masterColBrand),
			ProductName: domain.Cell(row, masterColProduct),
		}
		if rec.ASIN == "" {
			continue
		}
		if _, ok := cat.entries[rec.ASIN]; ok {
			continue
		}
		cat.entries[rec.ASIN] = struct{}{}

		raw := domain.Cell(row, masterColCostPrice)
		cp, ok := parseNumber(raw)
		if !ok && raw != "" {
			audit.Record(t.Name, "cost-price")
		}
		rec.CostPrice = cp

		if rec.Brand != "" {
			cat.Brand[rec.ASIN] = rec.Brand
		}
		if rec.ProductName != "" {
			cat.ProductName[rec.ASIN] = rec.ProductName
		}
		if rec.Manager != "" {
			cat.Manager[rec.ASIN] = rec.Manager
		}
		if rec.VendorSKU != "" {
			cat.VendorSKU[rec.ASIN] = rec.VendorSKU
		}
		cat.CostPrice[rec.ASIN] = rec.CostPrice
	}

	return cat, nil
}

// MergeProductNames resolves product names across the three sources with
// strict precedence master > sales > inventory. A higher-priority source only
// overwrites when it actually has an entry; its silence never blanks out a
// lower-priority value.
func MergeProductNames(master, sales, inventory map[string]string) map[string]string {
	merged := make(map[string]string, len(master)+len(sales)+len(inventory))
	for asin, name := range inventory {
		merged[asin] = name
	}
	for asin, name := range sales {
		merged[asin] = name
	}
	for asin, name := range master {
		merged[asin] = name
	}
	return merged
}

// SalesProductNames builds the ASIN-to-name map from cleaned sales records,
// keeping the first non-empty name per identifier.
func SalesProductNames(records []domain.SalesRecord) map[string]string {
	names := make(map[string]string)
	for _, rec := range records {
		if rec.ProductName == "" {
			continue
		}
		if _, ok := names[rec.ASIN]; !ok {
			names[rec.ASIN] = rec.ProductName
		}
	}
	return names
}
