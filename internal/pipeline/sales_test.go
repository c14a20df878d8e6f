package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/asinsight/internal/domain"
)

func TestCleanSalesStatusPolicy(t *testing.T) {
	in := tbl("sales_long", salesHeader,
		[]string{"B01", "Widget", "2", "9.99", "Shipped"},
		[]string{"B02", "Gadget", "1", "4.50", "Cancelled"},
		[]string{"B03", "Doohickey", "0", "3.00", "Shipped"},
		[]string{"B04", "Gizmo", "-1", "3.00", "Pending"},
		[]string{"B05", "Sprocket", "3", "not-a-price", "Shipped"},
	)

	audit := domain.NewCoercionAudit()
	records, err := CleanSales(in, CleanByStatus, audit)
	require.NoError(t, err)

	// Cancelled and non-positive quantities are dropped; a bad price is
	// substituted, not fatal.
	require.Len(t, records, 2)
	assert.Equal(t, "B01", records[0].ASIN)
	assert.Equal(t, "B05", records[1].ASIN)
	assert.Equal(t, 0.0, records[1].UnitPrice)
	assert.Equal(t, 1, audit.Total())
	assert.Equal(t, map[string]int{"sales_long.item-price": 1}, audit.Counts())
}

func TestCleanSalesPricePolicy(t *testing.T) {
	in := tbl("sales_short", salesHeader,
		[]string{"B01", "Widget", "2", "9.99", ""},
		[]string{"B02", "Gadget", "1", "0", ""},
		[]string{"B03", "Doohickey", "1", "", ""},
		[]string{"B04", "Gizmo", "1", "abc", ""},
		[]string{"B05", "Sprocket", "1", "1,299.00", ""},
	)

	audit := domain.NewCoercionAudit()
	records, err := CleanSales(in, CleanByPrice, audit)
	require.NoError(t, err)

	// Zero, blank and non-numeric prices are all excluded; thousands
	// separators still parse.
	require.Len(t, records, 2)
	assert.Equal(t, "B01", records[0].ASIN)
	assert.Equal(t, "B05", records[1].ASIN)
	assert.Equal(t, 1299.0, records[1].UnitPrice)
	assert.Equal(t, 1, audit.Total())
}

func TestCleanSalesMissingStatusColumn(t *testing.T) {
	in := tbl("sales_long", []string{"asin", "product-name", "quantity", "item-price"},
		[]string{"B01", "Widget", "2", "9.99"},
	)

	// order-status is optional: rows without it count as not cancelled.
	records, err := CleanSales(in, CleanByStatus, domain.NewCoercionAudit())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCleanSalesSchemaError(t *testing.T) {
	in := tbl("sales_long", []string{"asin", "product-name", "item-price"},
		[]string{"B01", "Widget", "9.99"},
	)

	_, err := CleanSales(in, CleanByStatus, domain.NewCoercionAudit())
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "sales_long", schemaErr.Table)
	assert.Equal(t, "quantity", schemaErr.Column)
}

func TestCleanSalesRejectsUnknownPolicy(t *testing.T) {
	in := tbl("sales_long", salesHeader)
	_, err := CleanSales(in, CleanPolicy("bogus"), domain.NewCoercionAudit())
	require.Error(t, err)
}
