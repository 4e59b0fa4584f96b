package handler

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// @Summary List deal messages
// @Description Chat messages on the deal, oldest first
// @Tags Chat
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {array} domain.ChatMessageDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/messages [get]
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	messages, err := h.chatService.ListByDeal(r.Context(), dealID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list messages", false)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// @Summary Post message
// @Description Appends a message to the deal chat. The acting user is the author.
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.CreateChatMessageRequest true "Message"
// @Success 201 {object} domain.ChatMessageDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/messages [post]
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseUUIDParam(w, r, "id", "deal")
	if !ok {
		return
	}

	var req domain.CreateChatMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.chatService.Post(r.Context(), dealID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "post message", true)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}
