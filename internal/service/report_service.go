// internal/service/report_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/salesops/asinsight/internal/cache"
	"github.com/salesops/asinsight/internal/domain"
	"github.com/salesops/asinsight/internal/excel"
	"github.com/salesops/asinsight/internal/pipeline"
	"github.com/salesops/asinsight/internal/repository"
	"github.com/salesops/asinsight/internal/storage"
)

// ReportService ties input reading, the reconciliation pipeline, workbook
// rendering, the session cache and the optional archive/run-log together.
type ReportService struct {
	cache   cache.ReportCache
	archive storage.ObjectStorage // nil when archiving is disabled
	runs    *repository.RunRepository
}

func NewReportService(reportCache cache.ReportCache, archive storage.ObjectStorage, runs *repository.RunRepository) *ReportService {
	return &ReportService{
		cache:   reportCache,
		archive: archive,
		runs:    runs,
	}
}

// GenerateInput carries the four uploaded workbooks of one run.
type GenerateInput struct {
	SessionID     string
	SalesLong     io.Reader
	SalesShort    io.Reader
	Inventory     io.Reader
	ProductMaster io.Reader
}

// Validate reports every absent upload at once, before any reading starts.
func (in *GenerateInput) Validate() error {
	var missing []string
	if in.SalesLong == nil {
		missing = append(missing, pipeline.TableSalesLong)
	}
	if in.SalesShort == nil {
		missing = append(missing, pipeline.TableSalesShort)
	}
	if in.Inventory == nil {
		missing = append(missing, pipeline.TableInventory)
	}
	if in.ProductMaster == nil {
		missing = append(missing, pipeline.TableProductMaster)
	}
	if len(missing) > 0 {
		return &domain.MissingInputError{Missing: missing}
	}
	return nil
}

// Generate runs one full request-scoped cycle: read all four inputs, run the
// pipeline, render both workbooks, overwrite the session cache and fire the
// optional archive upload and run log.
func (s *ReportService) Generate(ctx context.Context, in *GenerateInput, params pipeline.Params) (*domain.StoredReports, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// All four inputs must be fully read before any stage begins. The reads
	// are independent, so they run concurrently.
	var inputs pipeline.Inputs
	var g errgroup.Group
	g.Go(func() (err error) {
		inputs.SalesLong, err = excel.ReadTableFrom(in.SalesLong, pipeline.TableSalesLong)
		return err
	})
	g.Go(func() (err error) {
		inputs.SalesShort, err = excel.ReadTableFrom(in.SalesShort, pipeline.TableSalesShort)
		return err
	})
	g.Go(func() (err error) {
		inputs.Inventory, err = excel.ReadTableFrom(in.Inventory, pipeline.TableInventory)
		return err
	})
	g.Go(func() (err error) {
		inputs.ProductMaster, err = excel.ReadTableFrom(in.ProductMaster, pipeline.TableProductMaster)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read input tables: %w", err)
	}

	result, err := pipeline.Run(ctx, inputs, params)
	if err != nil {
		return nil, err
	}
	result.Summary.SessionID = sessionID

	summaryBook, err := excel.WriteSummaryReport(result.Report, params.LongWindowDays, params.ShortWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary workbook: %w", err)
	}
	inventoryBook, err := excel.WriteInventoryReport(result.InventoryReport, params.LongWindowDays, params.ShortWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to render inventory workbook: %w", err)
	}

	stored := &domain.StoredReports{
		SessionID:         sessionID,
		Report:            result.Report,
		InventoryReport:   result.InventoryReport,
		Summary:           result.Summary,
		SummaryWorkbook:   summaryBook,
		InventoryWorkbook: inventoryBook,
	}

	if err := s.cache.Set(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to cache reports: %w", err)
	}

	s.archiveWorkbooks(stored)

	if s.runs != nil {
		if err := s.runs.InsertRun(ctx, &result.Summary); err != nil {
			// Run history is best-effort; the report itself already succeeded.
			log.Error().Err(err).Str("session_id", sessionID).Msg("failed to record run history")
		}
	}

	return stored, nil
}

// GetReports returns the cached output of the session's last run.
func (s *ReportService) GetReports(ctx context.Context, sessionID string) (*domain.StoredReports, bool, error) {
	return s.cache.Get(ctx, sessionID)
}

// RecentRuns exposes run history when the run log is configured.
func (s *ReportService) RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.RecentRuns(ctx, limit)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// archiveWorkbooks uploads both rendered workbooks in the background. The
// archive is an off-path copy; failures are logged, never surfaced.
func (s *ReportService) archiveWorkbooks(stored *domain.StoredReports) {
	if s.archive == nil {
		return
	}

	stamp := stored.Summary.GeneratedAt.Format("20060102T150405Z")
	uploads := map[string][]byte{
		fmt.Sprintf("%s/%s_summary.xlsx", stored.SessionID, stamp):   stored.SummaryWorkbook,
		fmt.Sprintf("%s/%s_inventory.xlsx", stored.SessionID, stamp): stored.InventoryWorkbook,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for key, data := range uploads {
			if err := s.archive.UploadObject(ctx, key, data, xlsxContentType); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to archive workbook")
			}
		}
	}()
}
