package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/salesops/asinsight/internal/cache"
	"github.com/salesops/asinsight/internal/domain"
	"github.com/salesops/asinsight/internal/pipeline"
)

func workbook(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func generateInput(t *testing.T) *GenerateInput {
	t.Helper()

	sales := func(qty string) io.Reader {
		return workbook(t, [][]interface{}{
			{"asin", "product-name", "quantity", "item-price", "order-status"},
			{"B01", "Widget", qty, "9.99", "Shipped"},
		})
	}
	return &GenerateInput{
		SalesLong:  sales("90"),
		SalesShort: sales("15"),
		Inventory: workbook(t, [][]interface{}{
			{"asin", "sku", "afn-fulfillable-quantity", "afn-reserved-quantity"},
			{"B01", "SKU-1", "10", "2"},
		}),
		ProductMaster: workbook(t, [][]interface{}{
			{"asin", "vendor-sku", "c2", "c3", "manager", "c5", "brand", "product", "c8", "cost-price"},
			{"B01", "V-1", "", "", "Alice", "", "Acme", "Widget Pro", "", "12.50"},
		}),
	}
}

func TestGenerate(t *testing.T) {
	svc := NewReportService(cache.NewMemoryReportCache(), nil, nil)

	stored, err := svc.Generate(context.Background(), generateInput(t), pipeline.DefaultParams())
	require.NoError(t, err)

	assert.NotEmpty(t, stored.SessionID)
	require.Len(t, stored.Report, 1)
	assert.Equal(t, "B01", stored.Report[0].ASIN)
	assert.Equal(t, 12.0, stored.Report[0].TotalStock)
	require.Len(t, stored.InventoryReport, 1)
	assert.NotEmpty(t, stored.SummaryWorkbook)
	assert.NotEmpty(t, stored.InventoryWorkbook)
	assert.Equal(t, stored.SessionID, stored.Summary.SessionID)

	// The cached value serves re-display without another run.
	cached, ok, err := svc.GetReports(context.Background(), stored.SessionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored.SessionID, cached.SessionID)
}

func TestGenerateKeepsSuppliedSession(t *testing.T) {
	svc := NewReportService(cache.NewMemoryReportCache(), nil, nil)

	in := generateInput(t)
	in.SessionID = "session-42"
	stored, err := svc.Generate(context.Background(), in, pipeline.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "session-42", stored.SessionID)
}

func TestGenerateMissingUploads(t *testing.T) {
	svc := NewReportService(cache.NewMemoryReportCache(), nil, nil)

	in := generateInput(t)
	in.Inventory = nil
	in.ProductMaster = nil

	_, err := svc.Generate(context.Background(), in, pipeline.DefaultParams())
	var missing *domain.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{pipeline.TableInventory, pipeline.TableProductMaster}, missing.Missing)
}

func TestGetReportsUnknownSession(t *testing.T) {
	svc := NewReportService(cache.NewMemoryReportCache(), nil, nil)

	_, ok, err := svc.GetReports(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
