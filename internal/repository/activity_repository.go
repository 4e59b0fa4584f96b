package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository handles database operations for service activities logged on deals
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("ServiceCategory").
		First(&activity, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(activity).Error
}

func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Activity{}, id)
}

// ListByDeal returns the deal's activities, newest first
func (r *ActivityRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("ServiceCategory").
		Where("deal_id = ?", dealID).
		Order("activity_date DESC, created_at DESC").
		Find(&activities).Error
	return activities, err
}

// FindAll returns every activity with its role preloaded
func (r *ActivityRepository) FindAll(ctx context.Context) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).Preload("Role").Find(&activities).Error
	return activities, err
}

// FindByDealStage returns the activities of deals in the given stage, with roles preloaded
func (r *ActivityRepository) FindByDealStage(ctx context.Context, stage domain.DealStage) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Preload("Role").
		Joins("JOIN deals ON deals.id = activities.deal_id").
		Where("deals.stage = ?", stage).
		Find(&activities).Error
	return activities, err
}
