package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/salesops/asinsight/internal/domain"
	"github.com/salesops/asinsight/internal/pipeline"
	"github.com/salesops/asinsight/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service  *service.ReportService
	defaults pipeline.Params
}

func NewReportHandler(reportService *service.ReportService, defaults pipeline.Params) *ReportHandler {
	return &ReportHandler{service: reportService, defaults: defaults}
}

// GenerateReport accepts the four workbook uploads plus run parameters, runs
// the pipeline and returns both reports as JSON. The rendered workbooks stay
// cached under the returned session id for download.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	params, err := h.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &service.GenerateInput{SessionID: strings.TrimSpace(c.PostForm("session_id"))}
	var closers []multipart.File

	openUpload := func(field string) multipart.File {
		files := form.File[field]
		if len(files) == 0 {
			return nil
		}
		f, err := files[0].Open()
		if err != nil {
			log.Error().Err(err).Str("field", field).Msg("failed to open uploaded file")
			return nil
		}
		closers = append(closers, f)
		return f
	}
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	if f := openUpload(pipeline.TableSalesLong); f != nil {
		input.SalesLong = f
	}
	if f := openUpload(pipeline.TableSalesShort); f != nil {
		input.SalesShort = f
	}
	if f := openUpload(pipeline.TableInventory); f != nil {
		input.Inventory = f
	}
	if f := openUpload(pipeline.TableProductMaster); f != nil {
		input.ProductMaster = f
	}

	stored, err := h.service.Generate(c.Request.Context(), input, params)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       stored.SessionID,
		"summary":          stored.Summary,
		"report":           stored.Report,
		"inventory_report": stored.InventoryReport,
	})
}

// GetReport re-displays the cached output of the session's last run.
func (h *ReportHandler) GetReport(c *gin.Context) {
	sessionID := c.Param("session")
	stored, ok, err := h.service.GetReports(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports for session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       stored.SessionID,
		"summary":          stored.Summary,
		"report":           stored.Report,
		"inventory_report": stored.InventoryReport,
	})
}

// DownloadReport streams one of the cached workbooks.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	sessionID := c.Param("session")
	stored, ok, err := h.service.GetReports(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports for session"})
		return
	}

	var (
		payload  []byte
		filename string
	)
	switch c.DefaultQuery("report", "summary") {
	case "summary":
		payload = stored.SummaryWorkbook
		filename = "sales_inventory_analysis.xlsx"
	case "inventory":
		payload = stored.InventoryWorkbook
		filename = "inventory_report.xlsx"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "report must be summary or inventory"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, payload)
}

// GetRuns returns recent run history when the run log is configured.
func (h *ReportHandler) GetRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 {
		limit = 30
	}

	runs, err := h.service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch runs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *ReportHandler) parseParams(c *gin.Context) (pipeline.Params, error) {
	params := h.defaults

	parseDays := func(field string, into *int) error {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer", field)
		}
		if v < 1 {
			return fmt.Errorf("%s must be at least 1", field)
		}
		*into = v
		return nil
	}

	if err := parseDays("long_window_days", &params.LongWindowDays); err != nil {
		return params, err
	}
	if err := parseDays("short_window_days", &params.ShortWindowDays); err != nil {
		return params, err
	}

	if raw := strings.TrimSpace(c.PostForm("clean_policy")); raw != "" {
		policy := pipeline.CleanPolicy(strings.ToLower(raw))
		if !policy.Valid() {
			return params, fmt.Errorf("clean_policy must be price or status")
		}
		params.CleanPolicy = policy
	}
	if raw := strings.TrimSpace(c.PostForm("union_policy")); raw != "" {
		policy := pipeline.UnionPolicy(strings.ToLower(raw))
		if !policy.Valid() {
			return params, fmt.Errorf("union_policy must be merge or append")
		}
		params.UnionPolicy = policy
	}

	return params, nil
}

// writeError maps pipeline failures to responses naming the stage and likely
// cause; raw stack traces never reach the caller.
func (h *ReportHandler) writeError(c *gin.Context, err error) {
	var missing *domain.MissingInputError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
		return
	}

	var schema *domain.SchemaError
	if errors.As(err, &schema) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  schema.Error(),
			"table":  schema.Table,
			"column": schema.Column,
		})
		return
	}

	var comp *domain.ComputationError
	if errors.As(err, &comp) {
		log.Error().Err(comp.Err).Str("stage", comp.Stage).Msg("pipeline stage failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("report generation failed at stage %q", comp.Stage),
		})
		return
	}

	log.Error().Err(err).Msg("report generation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed", "details": err.Error()})
}
