package repository

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository reads and writes the single GlobalSettings row
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns gorm.ErrRecordNotFound until the row has been saved once
func (r *SettingsRepository) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	var settings domain.GlobalSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", domain.GlobalSettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save inserts or updates the singleton row
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.GlobalSettings) error {
	settings.ID = domain.GlobalSettingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"min_margin_percent", "updated_at"}),
	}).Create(settings).Error
}
