package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BudgetService manages monthly sales and margin targets per product category
type BudgetService struct {
	budgetRepo    *repository.BudgetRepository
	categoryRepo  *repository.ProductCategoryRepository
	defaultMargin decimal.Decimal
	logger        *zap.Logger
}

func NewBudgetService(
	budgetRepo *repository.BudgetRepository,
	categoryRepo *repository.ProductCategoryRepository,
	businessCfg *config.BusinessConfig,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:    budgetRepo,
		categoryRepo:  categoryRepo,
		defaultMargin: decimal.NewFromFloat(businessCfg.DefaultBudgetMarginPercent),
		logger:        logger,
	}
}

func (s *BudgetService) Create(ctx context.Context, req *domain.BudgetRequest) (*domain.BudgetDTO, error) {
	budget := &domain.Budget{}
	if err := s.apply(ctx, budget, req); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, s.translateWrite(err, "create budget")
	}

	s.logger.Info("budget created",
		zap.Int("year", budget.Year),
		zap.Int("month", budget.Month),
		zap.String("category_id", budget.CategoryID.String()))

	return s.GetByID(ctx, budget.ID)
}

func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get budget")
	}
	dto := mapper.ToBudgetDTO(budget)
	return &dto, nil
}

func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req *domain.BudgetRequest) (*domain.BudgetDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get budget")
	}
	if err := s.apply(ctx, budget, req); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, s.translateWrite(err, "update budget")
	}
	return s.GetByID(ctx, id)
}

func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.budgetRepo.Delete(ctx, id), "delete budget")
}

// List returns budgets for the optional year and month
func (s *BudgetService) List(ctx context.Context, year, month int) ([]domain.BudgetDTO, error) {
	budgets, err := s.budgetRepo.Find(ctx, year, month)
	if err != nil {
		return nil, translate(err, "list budgets")
	}
	dtos := make([]domain.BudgetDTO, len(budgets))
	for i := range budgets {
		dtos[i] = mapper.ToBudgetDTO(&budgets[i])
	}
	return dtos, nil
}

func (s *BudgetService) apply(ctx context.Context, budget *domain.Budget, req *domain.BudgetRequest) error {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("categoryId", "unknown product category")
		}
		return translate(err, "get product category")
	}

	margin := s.defaultMargin
	if req.MarginPercentTarget != nil {
		margin = decimal.NewFromFloat(*req.MarginPercentTarget)
	}

	budget.Year = req.Year
	budget.Month = req.Month
	budget.CategoryID = req.CategoryID
	budget.Category = nil
	budget.SalesTarget = decimal.NewFromFloat(req.SalesTarget)
	budget.MarginPercentTarget = margin
	return nil
}

func (s *BudgetService) translateWrite(err error, action string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: a budget already exists for this category and month", ErrConflict)
	}
	return translate(err, action)
}
