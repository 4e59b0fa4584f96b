package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// @Summary List budgets
// @Tags Budgets
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} domain.BudgetDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets [get]
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	period, fields := parsePeriod(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	budgets, err := h.budgetService.List(r.Context(), period.Year, period.Month)
	if err != nil {
		respondServiceError(w, h.logger, err, "list budgets", false)
		return
	}
	respondJSON(w, http.StatusOK, budgets)
}

// @Summary Create budget
// @Description One budget per category and month. The margin target defaults to 30%.
// @Tags Budgets
// @Accept json
// @Produce json
// @Param request body domain.BudgetRequest true "Budget data"
// @Success 201 {object} domain.BudgetDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets [post]
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create budget", true)
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

// @Summary Get budget
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.BudgetDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "budget")
	if !ok {
		return
	}

	budget, err := h.budgetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get budget", false)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// @Summary Update budget
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.BudgetRequest true "Budget data"
// @Success 200 {object} domain.BudgetDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "budget")
	if !ok {
		return
	}

	var req domain.BudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update budget", true)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// @Summary Delete budget
// @Tags Budgets
// @Param id path string true "Budget ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "budget")
	if !ok {
		return
	}

	if err := h.budgetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete budget", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
