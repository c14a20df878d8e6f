// Package pipeline implements the reconciliation and enrichment pipeline:
// identifier normalization across four independently-sourced tables, sales
// cleaning, inventory resolution, catalog lookup, demand-rate metrics and
// report assembly. One Run is request-scoped and synchronous; all
// intermediate products are explicit values passed between stages.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/salesops/asinsight/internal/domain"
)

// Input table names used in error reporting.
const (
	TableSalesLong     = "sales_long"
	TableSalesShort    = "sales_short"
	TableInventory     = "inventory"
	TableProductMaster = "product_master"
)

// Inputs are the four raw tables of one run. All four are required before
// any stage begins; partial input is a configuration error, not a
// partial-result case.
type Inputs struct {
	SalesLong     *domain.Table
	SalesShort    *domain.Table
	Inventory     *domain.Table
	ProductMaster *domain.Table
}

// Validate reports every absent input at once.
func (in Inputs) Validate() error {
	var missing []string
	if in.SalesLong == nil {
		missing = append(missing, TableSalesLong)
	}
	if in.SalesShort == nil {
		missing = append(missing, TableSalesShort)
	}
	if in.Inventory == nil {
		missing = append(missing, TableInventory)
	}
	if in.ProductMaster == nil {
		missing = append(missing, TableProductMaster)
	}
	if len(missing) > 0 {
		return &domain.MissingInputError{Missing: missing}
	}
	return nil
}

// Params configure one run.
type Params struct {
	LongWindowDays  int
	ShortWindowDays int
	CleanPolicy     CleanPolicy
	UnionPolicy     UnionPolicy
}

// DefaultParams mirror the source extracts: 90/15 day windows, status-based
// cleaning, merged identifier union.
func DefaultParams() Params {
	return Params{
		LongWindowDays:  90,
		ShortWindowDays: 15,
		CleanPolicy:     CleanByStatus,
		UnionPolicy:     MergeByIdentifier,
	}
}

// Validate rejects window lengths below one day and unknown policies before
// any stage runs, so demand-rate division never sees a zero.
func (p Params) Validate() error {
	if p.LongWindowDays < 1 {
		return fmt.Errorf("long window must be at least 1 day, got %d", p.LongWindowDays)
	}
	if p.ShortWindowDays < 1 {
		return fmt.Errorf("short window must be at least 1 day, got %d", p.ShortWindowDays)
	}
	if !p.CleanPolicy.Valid() {
		return fmt.Errorf("unknown clean policy %q", p.CleanPolicy)
	}
	if !p.UnionPolicy.Valid() {
		return fmt.Errorf("unknown union policy %q", p.UnionPolicy)
	}
	return nil
}

// Result is the output of one run. Nothing in it is returned unless every
// stage succeeded.
type Result struct {
	Report          []domain.ReportRow
	InventoryReport []domain.InventoryReportRow
	Summary         domain.RunSummary
}

// Run executes the full pipeline over the four inputs. It is the single
// top-level error boundary: stage failures bubble up typed
// (MissingInputError, SchemaError) or wrapped in a ComputationError naming
// the stage, and partial state is discarded.
func Run(ctx context.Context, in Inputs, p Params) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &domain.ComputationError{Stage: "assemble", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	audit := domain.NewCoercionAudit()

	salesLong := NormalizeIdentifiers(in.SalesLong)
	salesShort := NormalizeIdentifiers(in.SalesShort)
	inventory := NormalizeIdentifiers(in.Inventory)
	// The product master is keyed positionally; its identifier column may
	// not be named. Normalize the key column in place of the name lookup.
	master := normalizeMasterIdentifiers(in.ProductMaster)

	longRecords, err := CleanSales(salesLong, p.CleanPolicy, audit)
	if err != nil {
		return nil, stageError("clean_sales_long", err)
	}
	shortRecords, err := CleanSales(salesShort, p.CleanPolicy, audit)
	if err != nil {
		return nil, stageError("clean_sales_short", err)
	}

	inv, err := ResolveInventory(inventory, audit)
	if err != nil {
		return nil, stageError("resolve_inventory", err)
	}

	cat, err := BuildCatalog(master, audit)
	if err != nil {
		return nil, stageError("build_catalog", err)
	}

	names := MergeProductNames(cat.ProductName, SalesProductNames(longRecords), inv.ProductNames)

	longMetrics := ComputeWindow(longRecords, p.LongWindowDays)
	shortMetrics := ComputeWindow(shortRecords, p.ShortWindowDays)

	report, err := AssembleReport(longRecords, inv, cat, names, longMetrics, shortMetrics, p.UnionPolicy)
	if err != nil {
		return nil, stageError("assemble_report", err)
	}
	inventoryReport := AssembleInventoryReport(inv, cat, longMetrics, shortMetrics)

	return &Result{
		Report:          report,
		InventoryReport: inventoryReport,
		Summary: domain.RunSummary{
			LongWindowDays:      p.LongWindowDays,
			ShortWindowDays:     p.ShortWindowDays,
			CleanPolicy:         string(p.CleanPolicy),
			UnionPolicy:         string(p.UnionPolicy),
			LongSalesRows:       len(in.SalesLong.Rows),
			LongSalesKept:       len(longRecords),
			ShortSalesRows:      len(in.SalesShort.Rows),
			ShortSalesKept:      len(shortRecords),
			InventoryRows:       inv.Rows,
			ActiveASINs:         len(inv.ActiveASINs),
			ReportRows:          len(report),
			InventoryReportRows: len(inventoryReport),
			Coercions:           audit.Counts(),
			CoercionCount:       audit.Total(),
			ElapsedMS:           time.Since(started).Milliseconds(),
			GeneratedAt:         time.Now().UTC(),
		},
	}, nil
}

// stageError passes typed schema errors through untouched and wraps anything
// else with the stage name.
func stageError(stage string, err error) error {
	switch err.(type) {
	case *domain.SchemaError, *domain.MissingInputError:
		return err
	default:
		return &domain.ComputationError{Stage: stage, Err: err}
	}
}

// normalizeMasterIdentifiers canonicalizes column 0 of the product master.
// Unlike the other tables the master's key is positional, so the name-based
// normalizer cannot be trusted to find it.
func normalizeMasterIdentifiers(t *domain.Table) *domain.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		if len(row) > masterColASIN {
			row[masterColASIN] = NormalizeIdentifier(row[masterColASIN])
		}
	}
	return out
}
