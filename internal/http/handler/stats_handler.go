package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

// StatsHandler serves the manually entered monthly costs
type StatsHandler struct {
	statsService *service.MonthlyStatsService
	logger       *zap.Logger
}

func NewStatsHandler(statsService *service.MonthlyStatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// @Summary List monthly stats
// @Tags Monthly stats
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} domain.MonthlyStatsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /stats/monthly [get]
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	stats, err := h.statsService.List(r.Context(), period.Year, period.Month)
	if err != nil {
		respondServiceError(w, h.logger, err, "list monthly stats", false)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// @Summary Get or create monthly stats
// @Description Returns the row for the month, creating a zeroed one on first access. Defaults to the current month.
// @Tags Monthly stats
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} domain.MonthlyStatsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /stats/monthly/current [get]
func (h *StatsHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	stats, err := h.statsService.GetOrCreate(r.Context(), period.Year, period.Month)
	if err != nil {
		respondServiceError(w, h.logger, err, "get monthly stats", false)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// @Summary Update monthly stats
// @Tags Monthly stats
// @Accept json
// @Produce json
// @Param id path string true "Stats ID"
// @Param request body domain.MonthlyStatsRequest true "Monthly costs"
// @Success 200 {object} domain.MonthlyStatsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /stats/monthly/{id} [put]
func (h *StatsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "stats")
	if !ok {
		return
	}

	var req domain.MonthlyStatsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stats, err := h.statsService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update monthly stats", true)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
