package service

import (
	"context"
	"strings"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService appends and lists the message thread of a deal
type ChatService struct {
	chatRepo *repository.ChatRepository
	dealRepo *repository.DealRepository
	logger   *zap.Logger
}

func NewChatService(chatRepo *repository.ChatRepository, dealRepo *repository.DealRepository, logger *zap.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, dealRepo: dealRepo, logger: logger}
}

// Post appends a message authored by the acting user
func (s *ChatService) Post(ctx context.Context, dealID uuid.UUID, req *domain.CreateChatMessageRequest) (*domain.ChatMessageDTO, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, NewValidationError("body", "message cannot be empty")
	}
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		return nil, translate(err, "get deal")
	}

	msg := &domain.ChatMessage{
		DealID:   dealID,
		AuthorID: auth.ActingUserID(ctx),
		Body:     body,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, translate(err, "post message")
	}

	created, err := s.chatRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, translate(err, "get message")
	}
	dto := mapper.ToChatMessageDTO(created)
	return &dto, nil
}

// ListByDeal returns the thread, oldest first
func (s *ChatService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.ChatMessageDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		return nil, translate(err, "get deal")
	}
	messages, err := s.chatRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, translate(err, "list messages")
	}
	dtos := make([]domain.ChatMessageDTO, len(messages))
	for i := range messages {
		dtos[i] = mapper.ToChatMessageDTO(&messages[i])
	}
	return dtos, nil
}
