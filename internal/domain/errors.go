package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MissingInputError reports that one or more of the four required input
// tables was not supplied. It is raised before any processing starts; there
// is no partial pipeline run.
type MissingInputError struct {
	Missing []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input table(s): %s", strings.Join(e.Missing, ", "))
}

// SchemaError reports a required column that could not be found in an input
// table.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing column %q in table %q", e.Column, e.Table)
}

// ComputationError wraps an unexpected failure inside a pipeline stage. It is
// caught at the top-level boundary; no partial output is returned.
type ComputationError struct {
	Stage string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// CoercionAudit counts values that failed numeric coercion and were
// substituted with a field-specific default. Substitutions are never errors,
// but they must stay countable rather than becoming silent data loss.
type CoercionAudit struct {
	counts map[string]int
}

func NewCoercionAudit() *CoercionAudit {
	return &CoercionAudit{counts: make(map[string]int)}
}

// Record notes one substitution for the given table column.
func (a *CoercionAudit) Record(table, column string) {
	a.counts[table+"."+column]++
}

// Counts returns a copy of the per-column substitution counts.
func (a *CoercionAudit) Counts() map[string]int {
	out := make(map[string]int, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of substitutions across all columns.
func (a *CoercionAudit) Total() int {
	n := 0
	for _, v := range a.counts {
		n += v
	}
	return n
}

// Fields returns the audited column keys in stable order.
func (a *CoercionAudit) Fields() []string {
	keys := make([]string, 0, len(a.counts))
	for k := range a.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
