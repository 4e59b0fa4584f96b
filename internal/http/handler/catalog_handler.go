package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler serves role costs and the product and service category lists
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// @Summary List role costs
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.RoleCostDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [get]
func (h *CatalogHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.catalogService.ListRoles(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list roles", false)
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

// @Summary Get role cost
// @Tags Catalog
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} domain.RoleCostDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [get]
func (h *CatalogHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "role")
	if !ok {
		return
	}
	role, err := h.catalogService.GetRole(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get role", false)
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// @Summary Create role cost
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.RoleCostRequest true "Role data"
// @Success 201 {object} domain.RoleCostDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [post]
func (h *CatalogHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleCostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	role, err := h.catalogService.CreateRole(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create role", true)
		return
	}
	respondJSON(w, http.StatusCreated, role)
}

// @Summary Update role cost
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body domain.RoleCostRequest true "Role data"
// @Success 200 {object} domain.RoleCostDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [put]
func (h *CatalogHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "role")
	if !ok {
		return
	}
	var req domain.RoleCostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	role, err := h.catalogService.UpdateRole(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update role", true)
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// @Summary Delete role cost
// @Description Activities that used the role keep their hours but lose the role
// @Tags Catalog
// @Param id path string true "Role ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [delete]
func (h *CatalogHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "role")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteRole(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete role", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary List product categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /product-categories [get]
func (h *CatalogHandler) ListProductCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListProductCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list product categories", false)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// @Summary Create product category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CategoryRequest true "Category data"
// @Success 201 {object} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /product-categories [post]
func (h *CatalogHandler) CreateProductCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalogService.CreateProductCategory(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create product category", true)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// @Summary Rename product category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body domain.CategoryRequest true "Category data"
// @Success 200 {object} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /product-categories/{id} [put]
func (h *CatalogHandler) UpdateProductCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	var req domain.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalogService.UpdateProductCategory(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update product category", true)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// @Summary Delete product category
// @Description Fails with 409 while sales or budgets reference the category
// @Tags Catalog
// @Param id path string true "Category ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /product-categories/{id} [delete]
func (h *CatalogHandler) DeleteProductCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProductCategory(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete product category", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary List service categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-categories [get]
func (h *CatalogHandler) ListServiceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListServiceCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list service categories", false)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// @Summary Create service category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CategoryRequest true "Category data"
// @Success 201 {object} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-categories [post]
func (h *CatalogHandler) CreateServiceCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalogService.CreateServiceCategory(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create service category", true)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// @Summary Rename service category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body domain.CategoryRequest true "Category data"
// @Success 200 {object} domain.CategoryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-categories/{id} [put]
func (h *CatalogHandler) UpdateServiceCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	var req domain.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalogService.UpdateServiceCategory(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update service category", true)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// @Summary Delete service category
// @Tags Catalog
// @Param id path string true "Category ID"
// @Success 204
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-categories/{id} [delete]
func (h *CatalogHandler) DeleteServiceCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteServiceCategory(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete service category", true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
