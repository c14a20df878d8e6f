package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/asinsight/internal/domain"
)

func strptr(v string) *string   { return &v }
func f64ptr(v float64) *float64 { return &v }

func TestSummaryHeaderDayCounts(t *testing.T) {
	header := SummaryHeader(90, 15)

	assert.Equal(t, "Sale last 90 days", header[4])
	assert.Equal(t, "DRR 90 days", header[5])
	assert.Equal(t, "Sale last 15 days", header[6])
	assert.Equal(t, "DRR 15 days", header[7])

	// Day counts follow the configured windows, not fixed labels.
	custom := SummaryHeader(30, 7)
	assert.Equal(t, "Sale last 30 days", custom[4])
	assert.Equal(t, "DRR 7 days", custom[7])
}

func TestWriteSummaryReportRoundtrip(t *testing.T) {
	rows := []domain.ReportRow{
		{
			ASIN:       "B01",
			Brand:      strptr("Acme"),
			Product:    strptr("Widget Pro"),
			CP:         12.5,
			SaleLong:   f64ptr(180),
			DRRLong:    f64ptr(2),
			SaleShort:  f64ptr(30),
			DRRShort:   f64ptr(2),
			SIH:        10,
			Reserved:   2,
			TotalStock: 12,
			TotalValue: 150,
			Manager:    strptr("Alice"),
		},
		{ASIN: "B03", SIH: 5, TotalStock: 5},
	}

	data, err := WriteSummaryReport(rows, 90, 15)
	require.NoError(t, err)

	table, err := ReadTableFrom(bytes.NewReader(data), "summary")
	require.NoError(t, err)

	assert.Equal(t, SummaryHeader(90, 15), table.Header)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "B01", table.Rows[0][0])
	assert.Equal(t, "Acme", table.Rows[0][1])
	assert.Equal(t, "150", table.Rows[0][11])
	assert.Equal(t, "Alice", table.Rows[0][12])

	// Null attributes come back as empty cells, not a rendered "<nil>".
	assert.Equal(t, "B03", table.Rows[1][0])
	assert.Empty(t, domain.Cell(table.Rows[1], 1))
	assert.Empty(t, domain.Cell(table.Rows[1], 4))
	assert.Equal(t, "5", domain.Cell(table.Rows[1], 8))
}

func TestWriteInventoryReportRoundtrip(t *testing.T) {
	rows := []domain.InventoryReportRow{
		{
			ASIN:       "B01",
			SKU:        "SKU-1",
			VendorSKU:  strptr("V-1"),
			Manager:    strptr("Alice"),
			Brand:      strptr("Acme"),
			Product:    strptr("Widget Pro"),
			CP:         f64ptr(12.5),
			SIH:        10,
			Reserved:   2,
			TotalStock: 12,
			SaleLong:   180,
			DRRLong:    2,
			SaleShort:  30,
			DRRShort:   2,
		},
		{ASIN: "B03", SKU: "SKU-3", SIH: 5, TotalStock: 5},
	}

	data, err := WriteInventoryReport(rows, 90, 15)
	require.NoError(t, err)

	table, err := ReadTableFrom(bytes.NewReader(data), "inventory_report")
	require.NoError(t, err)

	assert.Equal(t, InventoryHeader(90, 15), table.Header)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "SKU-1", table.Rows[0][1])
	assert.Equal(t, "12.5", table.Rows[0][6])
	assert.Equal(t, "180", table.Rows[0][10])

	// Missing catalog entry: attribute and cost cells stay empty.
	assert.Empty(t, domain.Cell(table.Rows[1], 2))
	assert.Empty(t, domain.Cell(table.Rows[1], 6))
	assert.Equal(t, "5", domain.Cell(table.Rows[1], 9))
}

func TestReadTableFromRejectsEmptyWorkbook(t *testing.T) {
	_, err := ReadTableFrom(bytes.NewReader(nil), "empty")
	require.Error(t, err)
}

func TestReadTableFromHeaderOnly(t *testing.T) {
	data, err := WriteSummaryReport(nil, 90, 15)
	require.NoError(t, err)

	table, err := ReadTableFrom(bytes.NewReader(data), "summary")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Equal(t, "ASIN", table.Header[0])
}
