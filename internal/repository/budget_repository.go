package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(budget).Error
}

func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	if err := r.db.WithContext(ctx).Preload("Category").First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(budget).Error
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Budget{}, id)
}

// Find returns budgets matching the optional year and month, newest period first
func (r *BudgetRepository) Find(ctx context.Context, year, month int) ([]domain.Budget, error) {
	var budgets []domain.Budget
	query := r.db.WithContext(ctx).Preload("Category")
	if year != 0 {
		query = query.Where("year = ?", year)
	}
	if month != 0 {
		query = query.Where("month = ?", month)
	}
	err := query.Order("year DESC, month DESC, created_at ASC").Find(&budgets).Error
	return budgets, err
}
