package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DealService struct {
	dealRepo     *repository.DealRepository
	saleRepo     *repository.SaleRepository
	userRepo     *repository.UserRepository
	categoryRepo *repository.ProductCategoryRepository
	logger       *zap.Logger
	db           *gorm.DB
	now          func() time.Time
}

func NewDealService(
	dealRepo *repository.DealRepository,
	saleRepo *repository.SaleRepository,
	userRepo *repository.UserRepository,
	categoryRepo *repository.ProductCategoryRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *DealService {
	return &DealService{
		dealRepo:     dealRepo,
		saleRepo:     saleRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
		db:           db,
		now:          time.Now,
	}
}

// Create opens a deal in the first pipeline stage. The acting user becomes the
// salesperson unless the request names one.
func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	salespersonID := req.SalespersonID
	if salespersonID == nil {
		salespersonID = auth.ActingUserID(ctx)
	} else if err := s.checkSalesperson(ctx, *salespersonID); err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		Title:                 strings.TrimSpace(req.Title),
		ClientName:            strings.TrimSpace(req.ClientName),
		ClientContact:         strings.TrimSpace(req.ClientContact),
		EstimatedProductValue: decimal.NewFromFloat(req.EstimatedProductValue),
		EstimatedProductCost:  decimal.NewFromFloat(req.EstimatedProductCost),
		Stage:                 domain.DealStageLead,
		SalespersonID:         salespersonID,
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, translate(err, "create deal")
	}

	s.logger.Info("deal created",
		zap.String("deal_id", deal.ID.String()),
		zap.String("title", deal.Title))

	return s.GetByID(ctx, deal.ID)
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get deal")
	}
	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// GetDetail returns the deal with financials, activities, chat and the linked sale
func (s *DealService) GetDetail(ctx context.Context, id uuid.UUID) (*domain.DealDetailDTO, error) {
	deal, err := s.dealRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, translate(err, "get deal")
	}
	dto := mapper.ToDealDetailDTO(deal)
	return &dto, nil
}

// Update edits the descriptive fields and estimates. The stage only changes through Move and CloseWon.
func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get deal")
	}
	if req.SalespersonID != nil {
		if err := s.checkSalesperson(ctx, *req.SalespersonID); err != nil {
			return nil, err
		}
	}

	deal.Title = strings.TrimSpace(req.Title)
	deal.ClientName = strings.TrimSpace(req.ClientName)
	deal.ClientContact = strings.TrimSpace(req.ClientContact)
	deal.EstimatedProductValue = decimal.NewFromFloat(req.EstimatedProductValue)
	deal.EstimatedProductCost = decimal.NewFromFloat(req.EstimatedProductCost)
	deal.SalespersonID = req.SalespersonID
	deal.Salesperson = nil

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, translate(err, "update deal")
	}

	s.logger.Info("deal updated", zap.String("deal_id", id.String()))
	return s.GetByID(ctx, id)
}

// Delete removes the deal with its activities and messages. A linked sale is kept.
func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.dealRepo.Delete(ctx, id); err != nil {
		return translate(err, "delete deal")
	}
	s.logger.Info("deal deleted", zap.String("deal_id", id.String()))
	return nil
}

func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters, sortBy repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	deals, total, err := s.dealRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, translate(err, "list deals")
	}

	dtos := make([]domain.DealDTO, len(deals))
	for i := range deals {
		dtos[i] = mapper.ToDealDTO(&deals[i])
	}
	return newPaginatedResponse(dtos, total, page, pageSize), nil
}

// Board groups every deal into one column per stage, in pipeline order
func (s *DealService) Board(ctx context.Context, filters *repository.DealFilters) ([]domain.BoardColumnDTO, error) {
	deals, err := s.dealRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, translate(err, "list deals")
	}

	columns := make([]domain.BoardColumnDTO, len(domain.PipelineStages))
	index := make(map[domain.DealStage]int, len(domain.PipelineStages))
	totals := make([]decimal.Decimal, len(domain.PipelineStages))
	for i, stage := range domain.PipelineStages {
		columns[i] = domain.BoardColumnDTO{
			Stage: stage,
			Label: stage.Label(),
			Deals: []domain.DealDTO{},
		}
		index[stage] = i
		totals[i] = decimal.Zero
	}

	for i := range deals {
		col, ok := index[deals[i].Stage]
		if !ok {
			continue
		}
		dto := mapper.ToDealDTO(&deals[i])
		columns[col].Deals = append(columns[col].Deals, dto)
		columns[col].Count++
		totals[col] = totals[col].Add(finance.ForDeal(&deals[i]).TotalValue)
	}
	for i := range columns {
		columns[i].TotalValue = mapper.Money(totals[i])
	}
	return columns, nil
}

// Move changes the stage of an open deal. Closed deals are never moved and the
// won stage is only reachable through CloseWon.
func (s *DealService) Move(ctx context.Context, id uuid.UUID, stage domain.DealStage) error {
	if !stage.IsValid() {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidStage, stage)
	}
	if stage == domain.DealStageWon {
		return fmt.Errorf("%w: deals are won by closing them with a sale", ErrInvalidStage)
	}

	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "get deal")
	}
	if deal.IsClosed() {
		return ErrDealClosed
	}
	if deal.Stage == stage {
		return nil
	}

	if err := s.dealRepo.UpdateStage(ctx, id, stage); err != nil {
		return translate(err, "move deal")
	}

	s.logger.Info("deal moved",
		zap.String("deal_id", id.String()),
		zap.String("from", string(deal.Stage)),
		zap.String("to", string(stage)))
	return nil
}

// CloseForm returns the defaults for the close-as-won form
func (s *DealService) CloseForm(ctx context.Context, id uuid.UUID) (*domain.CloseDealFormDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get deal")
	}
	if deal.IsClosed() {
		return nil, ErrDealClosed
	}
	return &domain.CloseDealFormDTO{
		DealID:       deal.ID,
		Description:  deal.Title,
		Client:       deal.ClientName,
		SalePrice:    mapper.Money(deal.EstimatedProductValue),
		PurchaseCost: mapper.Money(deal.EstimatedProductCost),
		SaleDate:     mapper.FormatDate(s.now()),
	}, nil
}

// CloseWon records the sale, links it and marks the deal won in one transaction.
// The estimates are replaced by the actual price and cost of the sale.
func (s *DealService) CloseWon(ctx context.Context, id uuid.UUID, req *domain.CloseDealWonRequest) (*domain.SaleDTO, error) {
	saleDate, err := mapper.ParseDate(req.SaleDate)
	if err != nil {
		return nil, NewValidationError("saleDate", "must be a date in YYYY-MM-DD format")
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("categoryId", "unknown product category")
		}
		return nil, translate(err, "get product category")
	}

	var sale *domain.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deals := s.dealRepo.WithTx(tx)
		deal, err := deals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if deal.IsClosed() {
			return ErrDealClosed
		}

		salespersonID := deal.SalespersonID
		if salespersonID == nil {
			salespersonID = auth.ActingUserID(ctx)
		}
		client := strings.TrimSpace(req.Client)
		if client == "" {
			client = deal.ClientName
		}

		sale = &domain.Sale{
			Description:     strings.TrimSpace(req.Description),
			CategoryID:      req.CategoryID,
			SalePrice:       decimal.NewFromFloat(req.SalePrice),
			PurchaseCost:    decimal.NewFromFloat(req.PurchaseCost),
			SaleDate:        saleDate,
			Client:          client,
			SalespersonID:   salespersonID,
			Financed:        req.Financed,
			Returned:        req.Returned,
			DelayedDelivery: req.DelayedDelivery,
		}
		if err := s.saleRepo.WithTx(tx).Create(ctx, sale); err != nil {
			return err
		}

		return deals.MarkWon(ctx, deal.ID, sale)
	})
	if err != nil {
		if errors.Is(err, ErrDealClosed) {
			return nil, err
		}
		return nil, translate(err, "close deal")
	}

	s.logger.Info("deal closed as won",
		zap.String("deal_id", id.String()),
		zap.String("sale_id", sale.ID.String()))

	created, err := s.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		return nil, translate(err, "get sale")
	}
	dto := mapper.ToSaleDTO(created)
	return &dto, nil
}

func (s *DealService) checkSalesperson(ctx context.Context, id uuid.UUID) error {
	ok, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return translate(err, "get salesperson")
	}
	if !ok {
		return NewValidationError("salespersonId", "unknown user")
	}
	return nil
}
