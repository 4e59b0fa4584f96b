package repository

import (
	"context"
	"sort"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilters contains the filter options for listing sales
type SaleFilters struct {
	Range         *DateRange
	CategoryID    *uuid.UUID
	SalespersonID *uuid.UUID
}

var saleSortFields = map[string]string{
	"saleDate":  "sale_date",
	"salePrice": "sale_price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *SaleRepository) WithTx(tx *gorm.DB) *SaleRepository {
	return &SaleRepository{db: tx}
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Salesperson").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *SaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

// Delete removes the sale and unlinks any deal that produced it
func (r *SaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Deal{}).Where("sale_id = ?", id).Update("sale_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &domain.Sale{}, id)
	})
}

// List returns one page of sales, newest sale date first by default
func (r *SaleRepository) List(ctx context.Context, page, pageSize int, filters *SaleFilters, sortBy SortConfig) ([]domain.Sale, int64, error) {
	var sales []domain.Sale
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Sale{}), filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, page, pageSize).
		Preload("Category").
		Preload("Salesperson").
		Order(BuildOrderClause(sortBy, saleSortFields, "sale_date")).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, total, err
}

// FindAll returns every sale matching the filters with Category and Salesperson preloaded
func (r *SaleRepository) FindAll(ctx context.Context, filters *SaleFilters) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Sale{}), filters).
		Preload("Category").
		Preload("Salesperson").
		Order("sale_date ASC").
		Find(&sales).Error
	return sales, err
}

// DistinctYears returns the years that have at least one sale, newest first
func (r *SaleRepository) DistinctYears(ctx context.Context) ([]int, error) {
	var dates []domain.Sale
	if err := r.db.WithContext(ctx).Select("sale_date").Find(&dates).Error; err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, s := range dates {
		y := s.SaleDate.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (r *SaleRepository) applyFilters(query *gorm.DB, filters *SaleFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	query = applyDateRange(query, "sale_date", filters.Range)
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *filters.SalespersonID)
	}
	return query
}
