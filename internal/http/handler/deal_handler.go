package handler

import (
	"net/http"
	"strings"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// parseDealFilters reads the stage, salesperson and search filters shared by the list and the board
func parseDealFilters(r *http.Request) (*repository.DealFilters, map[string]string) {
	filters := &repository.DealFilters{}
	fields := map[string]string{}

	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.DealStage(strings.ToLower(s))
		if !stage.IsValid() {
			fields["stage"] = "Unknown stage"
		} else {
			filters.Stage = &stage
		}
	}

	if sp := r.URL.Query().Get("salespersonId"); sp != "" {
		id, err := uuid.Parse(sp)
		if err != nil {
			fields["salespersonId"] = "Must be a valid UUID"
		} else {
			filters.SalespersonID = &id
		}
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		filters.SearchQuery = &q
	}

	if len(fields) > 0 {
		return nil, fields
	}
	return filters, nil
}

// @Summary List deals
// @Description Deals with their financials, most recently updated first by default
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param stage query string false "Filter by stage (lead, appointment, design, quote_sent, delivery, assembly, won, lost)"
// @Param salespersonId query string false "Filter by salesperson ID"
// @Param q query string false "Search title and client"
// @Param sortBy query string false "Sort field (updatedAt, createdAt, title, clientName, estimatedProductValue)"
// @Param sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.DealDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [get]
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, fields := parseDealFilters(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	sortBy := repository.DefaultSortConfig()
	if f := r.URL.Query().Get("sortBy"); f != "" {
		sortBy.Field = f
	}
	if o := r.URL.Query().Get("sortOrder"); o != "" {
		sortBy.Order = repository.ParseSortOrder(o)
	}

	result, err := h.dealService.List(r.Context(), parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20), filters, sortBy)
	if err != nil {
		respondServiceError(w, h.logger, err, "list deals", false)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// @Summary Kanban board
// @Description One column per stage in pipeline order, each with its deals, count and total value
// @Tags Deals
// @Produce json
// @Param salespersonId query string false "Filter by salesperson ID"
// @Param q query string false "Search title and client"
// @Success 200 {array} domain.BoardColumnDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/board [get]
func (h *DealHandler) Board(w http.ResponseWriter, r *http.Request) {
	filters, fields := parseDealFilters(r)
	if fields != nil {
		respondFieldErrors(w, fields)
		return
	}

	board, err := h.dealService.Board(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "load deal board", false)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// @Summary Create deal
// @Description New deals start at the lead stage. The salesperson defaults to the acting user.
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body domain.CreateDealRequest true "Deal data"
// @Success 201 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [post]
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create deal", true)
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+deal.ID.String())
	respondJSON(w, http.StatusCreated, deal)
}

// @Summary Get deal
// @Description Deal with financials, activities (newest first), chat messages (oldest first) and the linked sale
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.DealDetailDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [get]
func (h *DealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	deal, err := h.dealService.GetDetail(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get deal", false)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

// @Summary Update deal
// @Description Edits the deal details. The stage changes only through move and close.
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.UpdateDealRequest true "Deal data"
// @Success 200 {object} domain.DealDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [put]
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	var req domain.UpdateDealRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update deal", true)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

// @Summary Delete deal
// @Description Removes the deal with its activities and messages. A linked sale is kept.
// @Tags Deals
// @Param id path string true "Deal ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [delete]
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete deal", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Move deal
// @Description Moves an open deal to another stage. Won and lost deals cannot move (409); winning goes through close-won.
// @Description On success the X-Event header carries {"dealMoved":{"dealId":...,"stage":...}}.
// @Tags Deals
// @Accept json
// @Param id path string true "Deal ID"
// @Param request body domain.MoveDealRequest true "Target stage"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/move [post]
func (h *DealHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	var req domain.MoveDealRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	stage := domain.DealStage(strings.ToLower(string(req.Stage)))

	if err := h.dealService.Move(r.Context(), id, stage); err != nil {
		respondServiceError(w, h.logger, err, "move deal", true)
		return
	}

	setEvent(w, "dealMoved", map[string]interface{}{
		"dealId": id.String(),
		"stage":  stage,
	})
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Close-won form defaults
// @Description Pre-fills the close-as-won form from the deal, dated today
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.CloseDealFormDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/close-won [get]
func (h *DealHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	form, err := h.dealService.CloseForm(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "load close form", false)
		return
	}
	respondJSON(w, http.StatusOK, form)
}

// @Summary Close deal as won
// @Description Creates the sale, links it to the deal and marks the deal won in one transaction.
// @Description On success the X-Event header carries {"dealClosed":{"dealId":...}}.
// @Tags Deals
// @Accept json
// @Param id path string true "Deal ID"
// @Param request body domain.CloseDealWonRequest true "Sale data"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/close-won [post]
func (h *DealHandler) CloseWon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	var req domain.CloseDealWonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.dealService.CloseWon(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "close deal", true)
		return
	}

	h.logger.Info("deal closed as won",
		zap.String("deal_id", id.String()),
		zap.String("sale_id", sale.ID.String()))

	setEvent(w, "dealClosed", map[string]interface{}{
		"dealId": id.String(),
	})
	w.WriteHeader(http.StatusNoContent)
}
