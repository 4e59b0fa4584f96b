package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository stores deal chat messages. Messages are append-only.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error
}

// GetByID loads a message with its author
func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	var msg domain.ChatMessage
	if err := r.db.WithContext(ctx).Preload("Author").First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByDeal returns the deal's messages, oldest first
func (r *ChatRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
