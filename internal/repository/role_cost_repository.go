package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleCostRepository struct {
	db *gorm.DB
}

func NewRoleCostRepository(db *gorm.DB) *RoleCostRepository {
	return &RoleCostRepository{db: db}
}

func (r *RoleCostRepository) Create(ctx context.Context, role *domain.HourlyRoleCost) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RoleCostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.HourlyRoleCost, error) {
	var role domain.HourlyRoleCost
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleCostRepository) Update(ctx context.Context, role *domain.HourlyRoleCost) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete removes the role and detaches it from logged activities, which then cost nothing
func (r *RoleCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Activity{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &domain.HourlyRoleCost{}, id)
	})
}

func (r *RoleCostRepository) List(ctx context.Context) ([]domain.HourlyRoleCost, error) {
	var roles []domain.HourlyRoleCost
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}
