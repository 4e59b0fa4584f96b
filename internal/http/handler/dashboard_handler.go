package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard
// @Description KPIs for the selected period. Both filters are optional; a month without a year covers that month in every year.
// @Description
// @Description **Revenue:** product revenue from sales, service revenue from activities on deals won by those sales.
// @Description **Costs:** product cost, labor cost at role rates, plus fixed and marketing costs from the monthly stats.
// @Description **Categories:** categories with revenue, by revenue desc, with budget deviations when both year and month are set.
// @Description **Alerts:** margin below budget, slow fulfillment, returns and rejected financings.
// @Description **Trend:** the last twelve months, only when no filter is set.
// @Tags Dashboard
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} domain.DashboardDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(r.Context(), period)
	if err != nil {
		respondServiceError(w, h.logger, err, "get dashboard", false)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
