package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/asinsight/internal/domain"
)

func pipelineInputs() Inputs {
	return Inputs{
		SalesLong: tbl(TableSalesLong, salesHeader,
			[]string{" b01 ", "Widget", "90", "9.99", "Shipped"},
			[]string{"B01", "Widget", "90", "9.99", "Shipped"},
			[]string{"B02", "Gadget", "45", "4.50", "Shipped"},
			[]string{"B02", "Gadget", "1", "4.50", "Cancelled"},
		),
		SalesShort: tbl(TableSalesShort, salesHeader,
			[]string{"B01", "Widget", "30", "9.99", "Shipped"},
		),
		Inventory: tbl(TableInventory, inventoryHeader,
			[]string{"b01", "SKU-1", "Widget", "10", "2"},
			[]string{"B03", "SKU-3", "Thingamajig", "5", "0"},
		),
		ProductMaster: tbl(TableProductMaster, masterHeader,
			masterRow(" b01 ", "V-1", "Alice", "Acme", "Widget Pro", "12.50"),
			masterRow("B02", "V-2", "Bob", "Bravo", "Gadget Pro", "3.00"),
		),
	}
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), pipelineInputs(), DefaultParams())
	require.NoError(t, err)

	// Identifiers from every source are normalized before any join, so the
	// ragged casing above still lines up.
	require.Len(t, res.Report, 3)
	assert.Equal(t, "B01", res.Report[0].ASIN)
	assert.Equal(t, "Widget Pro", *res.Report[0].Product)
	assert.Equal(t, 180.0, *res.Report[0].SaleLong)
	assert.Equal(t, 12.0, res.Report[0].TotalStock)
	assert.Equal(t, 150.0, res.Report[0].TotalValue)

	require.Len(t, res.InventoryReport, 2)
	assert.Equal(t, "SKU-1", res.InventoryReport[0].SKU)
	require.NotNil(t, res.InventoryReport[0].CP)
	assert.Equal(t, 12.50, *res.InventoryReport[0].CP)

	sum := res.Summary
	assert.Equal(t, 90, sum.LongWindowDays)
	assert.Equal(t, 15, sum.ShortWindowDays)
	assert.Equal(t, 4, sum.LongSalesRows)
	assert.Equal(t, 3, sum.LongSalesKept)
	assert.Equal(t, 2, sum.InventoryRows)
	assert.Equal(t, 2, sum.ActiveASINs)
	assert.Equal(t, 3, sum.ReportRows)
	assert.Equal(t, 2, sum.InventoryReportRows)
	assert.Equal(t, 0, sum.CoercionCount)
	assert.False(t, sum.GeneratedAt.IsZero())
}

func TestRunMissingInputs(t *testing.T) {
	in := pipelineInputs()
	in.SalesShort = nil
	in.ProductMaster = nil

	_, err := Run(context.Background(), in, DefaultParams())
	var missing *domain.MissingInputError
	require.ErrorAs(t, err, &missing)

	// All absent tables are reported at once.
	assert.Equal(t, []string{TableSalesShort, TableProductMaster}, missing.Missing)
}

func TestRunRejectsBadWindows(t *testing.T) {
	p := DefaultParams()
	p.ShortWindowDays = 0

	// Window validation happens before any stage, so the demand-rate division
	// never sees the zero.
	_, err := Run(context.Background(), pipelineInputs(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short window")
}

func TestRunSchemaErrorCarriesTable(t *testing.T) {
	in := pipelineInputs()
	in.Inventory = tbl(TableInventory, []string{"asin", "sku"}, []string{"B01", "SKU-1"})

	_, err := Run(context.Background(), in, DefaultParams())
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, TableInventory, schemaErr.Table)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, pipelineInputs(), DefaultParams())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunDoesNotMutateInputs(t *testing.T) {
	in := pipelineInputs()
	rawASIN := in.SalesLong.Rows[0][0]
	rawMaster := in.ProductMaster.Rows[0][0]

	_, err := Run(context.Background(), in, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, rawASIN, in.SalesLong.Rows[0][0])
	assert.Equal(t, rawMaster, in.ProductMaster.Rows[0][0])
}
