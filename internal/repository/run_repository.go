// Package repository persists run history: one row per pipeline run with its
// row counts, policies and coercion-substitution totals. Report contents are
// never persisted; the run log exists for auditing, not replay.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/salesops/asinsight/internal/domain"
)

type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the run-history table when it does not exist yet.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS report_runs (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			long_window_days INT NOT NULL,
			short_window_days INT NOT NULL,
			clean_policy TEXT NOT NULL,
			union_policy TEXT NOT NULL,
			long_sales_rows INT NOT NULL,
			long_sales_kept INT NOT NULL,
			short_sales_rows INT NOT NULL,
			short_sales_kept INT NOT NULL,
			inventory_rows INT NOT NULL,
			active_asins INT NOT NULL,
			report_rows INT NOT NULL,
			inventory_report_rows INT NOT NULL,
			coercion_count INT NOT NULL,
			elapsed_ms BIGINT NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure report_runs schema: %w", err)
	}
	return nil
}

// InsertRun records one completed pipeline run.
func (r *RunRepository) InsertRun(ctx context.Context, summary *domain.RunSummary) error {
	query := `
		INSERT INTO report_runs (
			session_id, long_window_days, short_window_days, clean_policy,
			union_policy, long_sales_rows, long_sales_kept, short_sales_rows,
			short_sales_kept, inventory_rows, active_asins, report_rows,
			inventory_report_rows, coercion_count, elapsed_ms, generated_at
		) VALUES (
			:session_id, :long_window_days, :short_window_days, :clean_policy,
			:union_policy, :long_sales_rows, :long_sales_kept, :short_sales_rows,
			:short_sales_kept, :inventory_rows, :active_asins, :report_rows,
			:inventory_report_rows, :coercion_count, :elapsed_ms, :generated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, summary); err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent run summaries, newest first.
func (r *RunRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT session_id, long_window_days, short_window_days, clean_policy,
			union_policy, long_sales_rows, long_sales_kept, short_sales_rows,
			short_sales_kept, inventory_rows, active_asins, report_rows,
			inventory_report_rows, coercion_count, elapsed_ms, generated_at
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT $1
	`
	runs := make([]domain.RunSummary, 0, limit)
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch recent runs: %w", err)
	}
	return runs, nil
}
