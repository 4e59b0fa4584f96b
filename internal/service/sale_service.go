package service

import (
	"context"
	"errors"
	"strings"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleListFilters are the list filters accepted by SaleService.List
type SaleListFilters struct {
	Period     finance.Period
	CategoryID *uuid.UUID
}

type SaleService struct {
	saleRepo     *repository.SaleRepository
	categoryRepo *repository.ProductCategoryRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

func NewSaleService(
	saleRepo *repository.SaleRepository,
	categoryRepo *repository.ProductCategoryRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func (s *SaleService) Create(ctx context.Context, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	sale := &domain.Sale{}
	if err := s.apply(ctx, sale, req); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, translate(err, "create sale")
	}
	return s.GetByID(ctx, sale.ID)
}

func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SaleDTO, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get sale")
	}
	dto := mapper.ToSaleDTO(sale)
	return &dto, nil
}

func (s *SaleService) Update(ctx context.Context, id uuid.UUID, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get sale")
	}
	if err := s.apply(ctx, sale, req); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, translate(err, "update sale")
	}
	return s.GetByID(ctx, id)
}

func (s *SaleService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.saleRepo.Delete(ctx, id), "delete sale")
}

// List returns one page of sales, newest sale date first
func (s *SaleService) List(ctx context.Context, page, pageSize int, filters SaleListFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	repoFilters := &repository.SaleFilters{
		Range:      dateRange(filters.Period),
		CategoryID: filters.CategoryID,
	}
	sortBy := repository.SortConfig{Field: "saleDate", Order: repository.SortOrderDesc}

	var sales []domain.Sale
	var total int64
	if repoFilters.Range == nil && filters.Period.Month != 0 {
		// Month across all years: filter in memory, then page
		all, err := s.saleRepo.FindAll(ctx, repoFilters)
		if err != nil {
			return nil, translate(err, "list sales")
		}
		all = salesInPeriod(all, filters.Period)
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
		total = int64(len(all))
		start := (page - 1) * pageSize
		if start < len(all) {
			end := start + pageSize
			if end > len(all) {
				end = len(all)
			}
			sales = all[start:end]
		}
	} else {
		var err error
		sales, total, err = s.saleRepo.List(ctx, page, pageSize, repoFilters, sortBy)
		if err != nil {
			return nil, translate(err, "list sales")
		}
	}

	dtos := make([]domain.SaleDTO, len(sales))
	for i := range sales {
		dtos[i] = mapper.ToSaleDTO(&sales[i])
	}

	return newPaginatedResponse(dtos, total, page, pageSize), nil
}

// apply validates references and copies the request onto the sale
func (s *SaleService) apply(ctx context.Context, sale *domain.Sale, req *domain.SaleRequest) error {
	saleDate, err := mapper.ParseDate(req.SaleDate)
	if err != nil {
		return NewValidationError("saleDate", "must be a date in YYYY-MM-DD format")
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("categoryId", "unknown product category")
		}
		return translate(err, "get product category")
	}
	if req.SalespersonID != nil {
		ok, err := s.userRepo.Exists(ctx, *req.SalespersonID)
		if err != nil {
			return translate(err, "get salesperson")
		}
		if !ok {
			return NewValidationError("salespersonId", "unknown user")
		}
	}

	sale.Description = strings.TrimSpace(req.Description)
	sale.CategoryID = req.CategoryID
	sale.Category = nil
	sale.SalePrice = decimal.NewFromFloat(req.SalePrice)
	sale.PurchaseCost = decimal.NewFromFloat(req.PurchaseCost)
	sale.SaleDate = saleDate
	sale.Client = strings.TrimSpace(req.Client)
	sale.SalespersonID = req.SalespersonID
	sale.Salesperson = nil
	sale.Financed = req.Financed
	sale.Returned = req.Returned
	sale.DelayedDelivery = req.DelayedDelivery
	return nil
}
