package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salesops/asinsight/internal/domain"
)

const (
	summarySheet   = "Analysis"
	inventorySheet = "Inventory"
)

// SummaryHeader returns the unified report header with the configured day
// counts baked into the sales columns.
func SummaryHeader(longDays, shortDays int) []string {
	return []string{
		"ASIN",
		"Brand",
		"Product",
		"CP",
		fmt.Sprintf("Sale last %d days", longDays),
		fmt.Sprintf("DRR %d days", longDays),
		fmt.Sprintf("Sale last %d days", shortDays),
		fmt.Sprintf("DRR %d days", shortDays),
		"SIH",
		"Reserved Stock",
		"Total Stock",
		"Total Value",
		"Manager",
	}
}

// InventoryHeader returns the SKU-level report header.
func InventoryHeader(longDays, shortDays int) []string {
	return []string{
		"ASIN",
		"SKU",
		"Vendor SKU",
		"Manager",
		"Brand",
		"Product",
		"CP",
		"SIH",
		"Reserved Stock",
		"Total Stock",
		fmt.Sprintf("Sale last %d days", longDays),
		fmt.Sprintf("DRR %d days", longDays),
		fmt.Sprintf("Sale last %d days", shortDays),
		fmt.Sprintf("DRR %d days", shortDays),
	}
}

// WriteSummaryReport renders the unified report to a single-sheet workbook.
func WriteSummaryReport(rows []domain.ReportRow, longDays, shortDays int) ([]byte, error) {
	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{
			r.ASIN,
			strCell(r.Brand),
			strCell(r.Product),
			r.CP,
			numCell(r.SaleLong),
			numCell(r.DRRLong),
			numCell(r.SaleShort),
			numCell(r.DRRShort),
			r.SIH,
			r.Reserved,
			r.TotalStock,
			r.TotalValue,
			strCell(r.Manager),
		})
	}
	return writeSheet(summarySheet, SummaryHeader(longDays, shortDays), cells)
}

// WriteInventoryReport renders the SKU-level report to a single-sheet
// workbook.
func WriteInventoryReport(rows []domain.InventoryReportRow, longDays, shortDays int) ([]byte, error) {
	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{
			r.ASIN,
			r.SKU,
			strCell(r.VendorSKU),
			strCell(r.Manager),
			strCell(r.Brand),
			strCell(r.Product),
			numCell(r.CP),
			r.SIH,
			r.Reserved,
			r.TotalStock,
			r.SaleLong,
			r.DRRLong,
			r.SaleShort,
			r.DRRShort,
		})
	}
	return writeSheet(inventorySheet, InventoryHeader(longDays, shortDays), cells)
}

func writeSheet(sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell for row %d: %w", i+2, err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// strCell maps a nil attribute to an empty cell rather than the string
// "<nil>".
func strCell(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func numCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
