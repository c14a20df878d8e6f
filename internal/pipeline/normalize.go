package pipeline

import (
	"strings"

	"github.com/salesops/asinsight/internal/domain"
)

// identifierColumn is the canonical product key column shared by all four
// input tables. It is matched by name, case-insensitively.
const identifierColumn = "asin"

// NormalizeIdentifiers returns a copy of the table with every value in the
// identifier column trimmed and upper-cased. Row order and all other columns
// are untouched. Tables without an identifier column are returned unchanged;
// the column is only required once a downstream stage asks for it.
func NormalizeIdentifiers(t *domain.Table) *domain.Table {
	idx := findIdentifierColumn(t)
	if idx < 0 {
		return t
	}

	out := t.Clone()
	for _, row := range out.Rows {
		if idx < len(row) {
			row[idx] = NormalizeIdentifier(row[idx])
		}
	}
	return out
}

// NormalizeIdentifier canonicalizes a single identifier value.
func NormalizeIdentifier(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func findIdentifierColumn(t *domain.Table) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), identifierColumn) {
			return i
		}
	}
	return -1
}
