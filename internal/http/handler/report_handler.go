package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportArchiver stores the current deal report and returns its storage key
type ReportArchiver interface {
	Archive(ctx context.Context) (string, error)
}

type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
	store         storage.Storage
	archiver      ReportArchiver
	logger        *zap.Logger
}

func NewReportHandler(
	reportService *service.ReportService,
	exportService *service.ExportService,
	store storage.Storage,
	archiver ReportArchiver,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		store:         store,
		archiver:      archiver,
		logger:        logger,
	}
}

// @Summary Labor cost report
// @Description Labor by role (cost desc), labor on active deals, and labor totals on lost and won deals
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.LaborReportDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/labor [get]
func (h *ReportHandler) Labor(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Labor(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "build labor report", false)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// @Summary Salesperson report
// @Description Revenue, cost, margin and average ticket per salesperson, by revenue desc
// @Tags Reports
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} domain.SalespersonReportDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/salespeople [get]
func (h *ReportHandler) Salespeople(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	report, err := h.reportService.Salespeople(r.Context(), period)
	if err != nil {
		respondServiceError(w, h.logger, err, "build salesperson report", false)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// @Summary Export deals to Excel
// @Description Every deal with its financials, in pipeline order
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/deals.xlsx [get]
func (h *ReportHandler) DealsExcel(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.exportService.DealReport(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "export deals", false)
		return
	}

	writeAttachment(w, filename, data)
}

// @Summary Archive the deal report now
// @Description Renders the deal export and stores it with the archived reports
// @Tags Reports
// @Produce json
// @Success 201 {object} map[string]string
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/archive [post]
func (h *ReportHandler) ArchiveNow(w http.ResponseWriter, r *http.Request) {
	key, err := h.archiver.Archive(r.Context())
	if err != nil {
		h.logger.Error("failed to archive deal report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to archive deal report")
		return
	}

	name := strings.TrimPrefix(key, storage.ReportsPrefix)
	respondJSON(w, http.StatusCreated, map[string]string{
		"name": name,
		"url":  "/api/v1/reports/archive/" + name,
	})
}

// @Summary Download an archived report
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param name path string true "Report file name, e.g. report_deals_2024-03-01.xlsx"
// @Success 200 {file} file
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/archive/{name} [get]
func (h *ReportHandler) DownloadArchived(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, ".xlsx") {
		respondWithError(w, http.StatusBadRequest, "Invalid report name")
		return
	}

	rc, err := h.store.Get(r.Context(), storage.ReportsPrefix+name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, storage.ErrInvalidKey):
			respondWithError(w, http.StatusBadRequest, "Invalid report name")
		default:
			h.logger.Error("failed to read archived report", zap.String("name", name), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to read report")
		}
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		h.logger.Error("failed to read archived report", zap.String("name", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read report")
		return
	}

	writeAttachment(w, name, data)
}

func writeAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
