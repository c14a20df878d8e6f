package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/asinsight/internal/domain"
)

func TestBuildCatalogKeepsFirstOccurrence(t *testing.T) {
	in := tbl("product_master", masterHeader,
		masterRow("B01", "V-1", "Alice", "brand1", "Widget", "10.50"),
		masterRow("B01", "V-9", "Mallory", "brand2", "Widget v2", "99"),
		masterRow("B02", "V-2", "Bob", "Bravo", "Gadget", ""),
	)

	audit := domain.NewCoercionAudit()
	cat, err := BuildCatalog(in, audit)
	require.NoError(t, err)

	// Later duplicate rows are discarded, never merged.
	assert.Equal(t, "brand1", cat.Brand["B01"])
	assert.Equal(t, "Alice", cat.Manager["B01"])
	assert.Equal(t, "V-1", cat.VendorSKU["B01"])
	assert.Equal(t, 10.50, cat.CostPrice["B01"])

	// Blank cost price is treated as 0, and the entry still exists.
	assert.Equal(t, 0.0, cat.CostPrice["B02"])
	assert.True(t, cat.HasEntry("B02"))
	assert.False(t, cat.HasEntry("B99"))

	// A blank is a default, not a failed coercion.
	assert.Equal(t, 0, audit.Total())
}

func TestBuildCatalogCostPriceCoercion(t *testing.T) {
	in := tbl("product_master", masterHeader,
		masterRow("B01", "", "", "", "", "TBD"),
	)

	audit := domain.NewCoercionAudit()
	cat, err := BuildCatalog(in, audit)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cat.CostPrice["B01"])
	assert.Equal(t, 1, audit.Total())
}

func TestBuildCatalogTooNarrow(t *testing.T) {
	in := tbl("product_master", []string{"asin", "brand"},
		[]string{"B01", "Acme"},
	)

	_, err := BuildCatalog(in, domain.NewCoercionAudit())
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "product_master", schemaErr.Table)
}

func TestMergeProductNamesPrecedence(t *testing.T) {
	master := map[string]string{"B01": "Master Widget"}
	sales := map[string]string{"B01": "Sales Widget", "B02": "Widget"}
	inventory := map[string]string{"B01": "Inv Widget", "B02": "Gadget", "B03": "Doohickey"}

	merged := MergeProductNames(master, sales, inventory)

	// Master wins when present; sales wins over inventory when master is
	// silent; inventory survives when it is the only source.
	assert.Equal(t, "Master Widget", merged["B01"])
	assert.Equal(t, "Widget", merged["B02"])
	assert.Equal(t, "Doohickey", merged["B03"])
}

func TestSalesProductNamesFirstWins(t *testing.T) {
	names := SalesProductNames([]domain.SalesRecord{
		{ASIN: "B01", ProductName: "Widget"},
		{ASIN: "B01", ProductName: "Widget Deluxe"},
		{ASIN: "B02", ProductName: ""},
	})

	assert.Equal(t, map[string]string{"B01": "Widget"}, names)
}
