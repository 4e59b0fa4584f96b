package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductCategoryRepository handles product categories. Categories referenced
// by sales or budgets cannot be deleted.
type ProductCategoryRepository struct {
	db *gorm.DB
}

func NewProductCategoryRepository(db *gorm.DB) *ProductCategoryRepository {
	return &ProductCategoryRepository{db: db}
}

func (r *ProductCategoryRepository) Create(ctx context.Context, c *domain.ProductCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ProductCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error) {
	var c domain.ProductCategory
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ProductCategoryRepository) Update(ctx context.Context, c *domain.ProductCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ProductCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &domain.ProductCategory{}, id)
}

func (r *ProductCategoryRepository) List(ctx context.Context) ([]domain.ProductCategory, error) {
	var categories []domain.ProductCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// IsReferenced reports whether any sale or budget uses the category
func (r *ProductCategoryRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var sales, budgets int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Sale{}).Where("category_id = ?", id).Count(&sales).Error; err != nil {
		return false, err
	}
	if err := db.Model(&domain.Budget{}).Where("category_id = ?", id).Count(&budgets).Error; err != nil {
		return false, err
	}
	return sales+budgets > 0, nil
}

type ServiceCategoryRepository struct {
	db *gorm.DB
}

func NewServiceCategoryRepository(db *gorm.DB) *ServiceCategoryRepository {
	return &ServiceCategoryRepository{db: db}
}

func (r *ServiceCategoryRepository) Create(ctx context.Context, c *domain.ServiceCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ServiceCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	var c domain.ServiceCategory
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ServiceCategoryRepository) Update(ctx context.Context, c *domain.ServiceCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes the category and clears it on activities that used it
func (r *ServiceCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Activity{}).Where("service_category_id = ?", id).Update("service_category_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &domain.ServiceCategory{}, id)
	})
}

func (r *ServiceCategoryRepository) List(ctx context.Context) ([]domain.ServiceCategory, error) {
	var categories []domain.ServiceCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// deleteByID deletes one row and reports gorm.ErrRecordNotFound when nothing matched
func deleteByID(db *gorm.DB, model interface{}, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
