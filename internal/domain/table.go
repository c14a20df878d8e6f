package domain

import "strings"

// Table is one raw tabular input as read from the first sheet of a
// spreadsheet export: a header row plus data rows, all values as strings.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

// NormalizeColumnName lower-cases a header and strips separator characters so
// that "item-price", "Item Price" and "item_price" all resolve to the same
// column.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// ColumnIndex returns the index of the first header matching any of the given
// names after normalization, or -1 when none matches.
func (t *Table) ColumnIndex(names ...string) int {
	if len(names) == 0 {
		return -1
	}
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[NormalizeColumnName(name)] = struct{}{}
	}
	for i, h := range t.Header {
		if _, ok := targets[NormalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at the given column of a row, or "" when the
// row is shorter than the header.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Clone returns a deep copy of the table. Stages that rewrite a column work
// on a copy so the caller's table is never mutated.
func (t *Table) Clone() *Table {
	c := &Table{
		Name:   t.Name,
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}
