package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaleHandler struct {
	saleService *service.SaleService
	logger      *zap.Logger
}

func NewSaleHandler(saleService *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// @Summary List sales
// @Description Sales ordered by sale date, newest first
// @Tags Sales
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param year query int false "Sale year"
// @Param month query int false "Sale month (1-12), across all years when no year is given"
// @Param categoryId query string false "Product category ID"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SaleDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales [get]
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	filters := service.SaleListFilters{Period: period}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondFieldErrors(w, map[string]string{"categoryId": "Must be a valid UUID"})
			return
		}
		filters.CategoryID = &id
	}

	result, err := h.saleService.List(r.Context(), parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "list sales", false)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// @Summary Create sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body domain.SaleRequest true "Sale data"
// @Success 201 {object} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales [post]
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create sale", true)
		return
	}

	w.Header().Set("Location", "/api/v1/sales/"+sale.ID.String())
	respondJSON(w, http.StatusCreated, sale)
}

// @Summary Get sale
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} domain.SaleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [get]
func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get sale", false)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// @Summary Update sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param request body domain.SaleRequest true "Sale data"
// @Success 200 {object} domain.SaleDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update sale", true)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// @Summary Delete sale
// @Description A deal won by the sale stays won and loses the link
// @Tags Sales
// @Param id path string true "Sale ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	if err := h.saleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete sale", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
