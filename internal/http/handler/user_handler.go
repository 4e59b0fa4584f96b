package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list users", false)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// @Summary List assignable salespeople
// @Description Staff users, ordered by name
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/salespeople [get]
func (h *UserHandler) ListSalespeople(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListSalespeople(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list salespeople", false)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.UserDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user", false)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// @Summary Create user
// @Description Staff only. A cost profile with the default hourly rate is provisioned for the new user.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User data"
// @Success 201 {object} domain.UserDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create user", true)
		return
	}

	w.Header().Set("Location", "/api/v1/users/"+user.ID.String())
	respondJSON(w, http.StatusCreated, user)
}

// @Summary Update user cost profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body domain.UpdateUserProfileRequest true "Profile data"
// @Success 200 {object} domain.UserDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id}/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "user")
	if !ok {
		return
	}

	var req domain.UpdateUserProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update user profile", true)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
