package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/asinsight/internal/domain"
)

func TestResolveInventory(t *testing.T) {
	in := tbl("inventory", inventoryHeader,
		[]string{"B01", "SKU-1", "Widget", "5", "0"},
		[]string{"B01", "SKU-2", "", "3", "2"},
		[]string{"B02", "SKU-3", "Gadget", "0", "4"},
		[]string{"B03", "SKU-4", "", "0", "0"},
	)

	audit := domain.NewCoercionAudit()
	view, err := ResolveInventory(in, audit)
	require.NoError(t, err)

	// Per-ASIN aggregates sum across duplicate rows.
	assert.Equal(t, 8.0, view.Fulfillable["B01"])
	assert.Equal(t, 2.0, view.Reserved["B01"])
	assert.Equal(t, 4.0, view.Reserved["B02"])

	// Active set: fulfillable first, then reserved-only; all-zero excluded.
	assert.Equal(t, []string{"B01", "B02"}, view.ActiveASINs)
	assert.True(t, view.Active("B01"))
	assert.False(t, view.Active("B03"))

	// Per-(ASIN, SKU) aggregates keep first-seen order.
	require.Len(t, view.BySKU, 4)
	assert.Equal(t, SKUStock{ASIN: "B01", SKU: "SKU-1", Fulfillable: 5, Reserved: 0}, view.BySKU[0])
	assert.Equal(t, SKUStock{ASIN: "B03", SKU: "SKU-4"}, view.BySKU[3])

	// First non-empty product name per ASIN.
	assert.Equal(t, "Widget", view.ProductNames["B01"])
	assert.Equal(t, "Gadget", view.ProductNames["B02"])

	assert.Equal(t, 0, audit.Total())
}

func TestResolveInventoryCoercion(t *testing.T) {
	in := tbl("inventory", inventoryHeader,
		[]string{"B01", "SKU-1", "", "n/a", "2"},
		[]string{"B02", "SKU-2", "", "", ""},
	)

	audit := domain.NewCoercionAudit()
	view, err := ResolveInventory(in, audit)
	require.NoError(t, err)

	// Non-numeric coerces to 0 and is counted; blank defaults to 0 silently.
	assert.Equal(t, 0.0, view.Fulfillable["B01"])
	assert.Equal(t, 2.0, view.Reserved["B01"])
	assert.Equal(t, 1, audit.Total())
	assert.Equal(t, map[string]int{"inventory.afn-fulfillable-quantity": 1}, audit.Counts())

	// B02 has all-zero stock: aggregated but not active.
	assert.Equal(t, []string{"B01"}, view.ActiveASINs)
	assert.False(t, view.Active("B02"))
}

func TestResolveInventorySchemaError(t *testing.T) {
	in := tbl("inventory", []string{"asin", "sku", "afn-fulfillable-quantity"},
		[]string{"B01", "SKU-1", "5"},
	)

	_, err := ResolveInventory(in, domain.NewCoercionAudit())
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "afn-reserved-quantity", schemaErr.Column)
}
