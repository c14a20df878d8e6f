// Package excel reads spreadsheet exports into raw tables and renders the
// two reports back to single-sheet workbooks.
package excel

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/salesops/asinsight/internal/domain"
)

// ReadTable reads the first sheet of an xlsx file into a table. The first
// row is the header; remaining rows are data.
func ReadTable(path, name string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadTableFrom(f, name)
}

// ReadTableFrom reads the first sheet of an xlsx stream into a table.
func ReadTableFrom(r io.Reader, name string) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook for %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook for %s has no sheets", name)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	table := &domain.Table{Name: name}
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", name, err)
		}
		if table.Header == nil {
			table.Header = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", name, err)
	}

	if table.Header == nil {
		return nil, fmt.Errorf("workbook for %s is empty", name)
	}

	return table, nil
}
