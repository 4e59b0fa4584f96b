package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealFilters contains all filter options for listing deals
type DealFilters struct {
	Stage         *domain.DealStage
	Stages        []domain.DealStage
	SalespersonID *uuid.UUID
	Created       *DateRange
	SearchQuery   *string
}

// ErrDealLocked is returned when a stage write targets a deal that is already won or lost
var ErrDealLocked = errors.New("deal is in a closed stage")

var closedStages = []domain.DealStage{domain.DealStageWon, domain.DealStageLost}

// dealEditableColumns are the columns a descriptive edit may write. Stage and
// sale link only change through UpdateStage and MarkWon.
var dealEditableColumns = []string{
	"title",
	"client_name",
	"client_contact",
	"estimated_product_value",
	"estimated_product_cost",
	"salesperson_id",
	"updated_at",
}

var dealSortFields = map[string]string{
	"updatedAt":             "updated_at",
	"createdAt":             "created_at",
	"title":                 "title",
	"clientName":            "client_name",
	"estimatedProductValue": "estimated_product_value",
}

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *DealRepository) WithTx(tx *gorm.DB) *DealRepository {
	return &DealRepository{db: tx}
}

// WithTransaction executes operations within a transaction
func (r *DealRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	// Omit associations to avoid GORM trying to upsert related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

// GetByID loads the deal with what its financials need
func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.withFinancials(r.db.WithContext(ctx)).First(&deal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// GetDetail loads the deal with activities (newest first), messages (oldest first) and the linked sale
func (r *DealRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Salesperson").
		Preload("Sale.Category").
		Preload("Sale.Salesperson").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("activity_date DESC, created_at DESC")
		}).
		Preload("Activities.Role").
		Preload("Activities.ServiceCategory").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Author").
		First(&deal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// Update writes the descriptive fields and estimates of the deal
func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	result := r.db.WithContext(ctx).Model(deal).Select(dealEditableColumns).Updates(deal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStage changes only the stage of an open deal. It returns ErrDealLocked
// when the deal is won or lost at write time.
func (r *DealRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.DealStage) error {
	result := r.openDeal(ctx, id).Update("stage", stage)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lockedOrMissing(ctx, id)
	}
	return nil
}

// MarkWon links the sale to an open deal, moves it to won and replaces the
// estimates with the actual price and cost. It returns ErrDealLocked when
// the deal is won or lost at write time.
func (r *DealRepository) MarkWon(ctx context.Context, id uuid.UUID, sale *domain.Sale) error {
	result := r.openDeal(ctx, id).Updates(map[string]interface{}{
		"stage":                   domain.DealStageWon,
		"sale_id":                 sale.ID,
		"estimated_product_value": sale.SalePrice,
		"estimated_product_cost":  sale.PurchaseCost,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lockedOrMissing(ctx, id)
	}
	return nil
}

func (r *DealRepository) openDeal(ctx context.Context, id uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("id = ? AND stage NOT IN ?", id, closedStages)
}

func (r *DealRepository) lockedOrMissing(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Deal{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrDealLocked
}

// Delete removes the deal together with its activities and chat messages
func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&domain.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deal_id = ?", id).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &domain.Deal{}, id)
	})
}

// List returns one page of deals with financials preloaded, most recently updated first by default
func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters, sortBy SortConfig) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Deal{}), filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withFinancials(paginate(query, page, pageSize)).
		Order(BuildOrderClause(sortBy, dealSortFields, "updated_at")).
		Find(&deals).Error
	return deals, total, err
}

// FindAll returns every deal matching the filters with financials preloaded, most recently updated first
func (r *DealRepository) FindAll(ctx context.Context, filters *DealFilters) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.withFinancials(r.applyFilters(r.db.WithContext(ctx).Model(&domain.Deal{}), filters)).
		Order("updated_at DESC").
		Find(&deals).Error
	return deals, err
}

// FindActive returns the deals in non-terminal stages with financials preloaded
func (r *DealRepository) FindActive(ctx context.Context) ([]domain.Deal, error) {
	return r.FindAll(ctx, &DealFilters{Stages: domain.ActiveStages()})
}

// FindCreated returns the deals created inside the range, without associations
func (r *DealRepository) FindCreated(ctx context.Context, created *DateRange) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := applyDateRange(r.db.WithContext(ctx).Model(&domain.Deal{}), "created_at", created).
		Find(&deals).Error
	return deals, err
}

// FindWonBySaleDate returns the won deals whose linked sale is dated inside the range,
// every won deal when the range is nil, with the sale and activities (role and
// service category) preloaded
func (r *DealRepository) FindWonBySaleDate(ctx context.Context, saleDates *DateRange) ([]domain.Deal, error) {
	sales := applyDateRange(r.db.WithContext(ctx).Model(&domain.Sale{}).Select("id"), "sale_date", saleDates)

	deals := make([]domain.Deal, 0)
	err := r.db.WithContext(ctx).
		Preload("Sale").
		Preload("Activities.Role").
		Preload("Activities.ServiceCategory").
		Where("stage = ? AND sale_id IN (?)", domain.DealStageWon, sales).
		Find(&deals).Error
	return deals, err
}

func (r *DealRepository) withFinancials(query *gorm.DB) *gorm.DB {
	return query.Preload("Salesperson").Preload("Activities.Role")
}

// applyFilters applies all filter criteria to the query
func (r *DealRepository) applyFilters(query *gorm.DB, filters *DealFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Stage != nil {
		query = query.Where("stage = ?", *filters.Stage)
	}

	if len(filters.Stages) > 0 {
		query = query.Where("stage IN ?", filters.Stages)
	}

	if filters.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *filters.SalespersonID)
	}

	query = applyDateRange(query, "created_at", filters.Created)

	if filters.SearchQuery != nil && strings.TrimSpace(*filters.SearchQuery) != "" {
		pattern := likePattern(*filters.SearchQuery)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(client_name) LIKE ?)", pattern, pattern)
	}

	return query
}
