package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MonthlyStatsRepository struct {
	db *gorm.DB
}

func NewMonthlyStatsRepository(db *gorm.DB) *MonthlyStatsRepository {
	return &MonthlyStatsRepository{db: db}
}

// GetOrCreate returns the stats row for (year, month), creating a zeroed one when missing
func (r *MonthlyStatsRepository) GetOrCreate(ctx context.Context, year, month int) (*domain.MonthlyManualStats, error) {
	var stats domain.MonthlyManualStats
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Attrs(domain.MonthlyManualStats{
			Year:          year,
			Month:         month,
			MarketingCost: decimal.Zero,
			FixedCosts:    decimal.Zero,
		}).
		FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *MonthlyStatsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonthlyManualStats, error) {
	var stats domain.MonthlyManualStats
	if err := r.db.WithContext(ctx).First(&stats, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *MonthlyStatsRepository) Update(ctx context.Context, stats *domain.MonthlyManualStats) error {
	return r.db.WithContext(ctx).Save(stats).Error
}

// Find returns the stats rows matching the optional year and month, newest first
func (r *MonthlyStatsRepository) Find(ctx context.Context, year, month int) ([]domain.MonthlyManualStats, error) {
	var stats []domain.MonthlyManualStats
	query := r.db.WithContext(ctx).Model(&domain.MonthlyManualStats{})
	if year != 0 {
		query = query.Where("year = ?", year)
	}
	if month != 0 {
		query = query.Where("month = ?", month)
	}
	err := query.Order("year DESC, month DESC").Find(&stats).Error
	return stats, err
}

// FindSince returns the rows for (year, month) on or after the given month
func (r *MonthlyStatsRepository) FindSince(ctx context.Context, year, month int) ([]domain.MonthlyManualStats, error) {
	var stats []domain.MonthlyManualStats
	err := r.db.WithContext(ctx).
		Where("year > ? OR (year = ? AND month >= ?)", year, year, month).
		Order("year ASC, month ASC").
		Find(&stats).Error
	return stats, err
}
