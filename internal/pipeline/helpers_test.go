package pipeline

import "github.com/salesops/asinsight/internal/domain"

func tbl(name string, header []string, rows ...[]string) *domain.Table {
	return &domain.Table{Name: name, Header: header, Rows: rows}
}

var salesHeader = []string{"asin", "product-name", "quantity", "item-price", "order-status"}

var inventoryHeader = []string{"asin", "sku", "product-name", "afn-fulfillable-quantity", "afn-reserved-quantity"}

// masterHeader is ten columns wide; only the positional slots carry data in
// tests.
var masterHeader = []string{"asin", "vendor-sku", "c2", "c3", "manager", "c5", "brand", "product", "c8", "cost-price"}

func masterRow(asin, vendorSKU, manager, brand, product, cp string) []string {
	return []string{asin, vendorSKU, "", "", manager, "", brand, product, "", cp}
}
