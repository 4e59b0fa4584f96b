package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// @Summary List deal activities
// @Description Activities logged on the deal, newest first
// @Tags Activities
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {array} domain.ActivityDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/activities [get]
func (h *ActivityHandler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	activities, err := h.activityService.ListByDeal(r.Context(), dealID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list activities", false)
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

// @Summary Log activity
// @Description Logs service work on a deal. The date defaults to today.
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.ActivityRequest true "Activity data"
// @Success 201 {object} domain.ActivityDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/activities [post]
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	var req domain.ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	activity, err := h.activityService.Create(r.Context(), dealID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create activity", true)
		return
	}

	w.Header().Set("Location", "/api/v1/activities/"+activity.ID.String())
	respondJSON(w, http.StatusCreated, activity)
}

// @Summary Get activity
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} domain.ActivityDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "activity")
	if !ok {
		return
	}

	activity, err := h.activityService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get activity", false)
		return
	}
	respondJSON(w, http.StatusOK, activity)
}

// @Summary Update activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param request body domain.ActivityRequest true "Activity data"
// @Success 200 {object} domain.ActivityDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/{id} [put]
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "activity")
	if !ok {
		return
	}

	var req domain.ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	activity, err := h.activityService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update activity", true)
		return
	}
	respondJSON(w, http.StatusOK, activity)
}

// @Summary Delete activity
// @Tags Activities
// @Param id path string true "Activity ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "activity")
	if !ok {
		return
	}

	if err := h.activityService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete activity", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Activity cost advisory
// @Description Cost of the hours at the role rate and the minimum price for the configured margin.
// @Description Missing or malformed inputs count as zero; an unknown role has no cost.
// @Tags Activities
// @Produce json
// @Param roleId query string false "Role ID"
// @Param hours query number false "Hours"
// @Param price query number false "Proposed sale price"
// @Success 200 {object} domain.CostAdvisoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/advisory [get]
func (h *ActivityHandler) Advise(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	advice, err := h.activityService.Advise(r.Context(), q.Get("roleId"), q.Get("hours"), q.Get("price"))
	if err != nil {
		respondServiceError(w, h.logger, err, "compute cost advisory", false)
		return
	}
	respondJSON(w, http.StatusOK, advice)
}
