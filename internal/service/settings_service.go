package service

import (
	"context"
	"errors"

	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsService reads the global settings row on every call. Until the row is
// saved the configured defaults apply.
type SettingsService struct {
	repo     *repository.SettingsRepository
	defaults domain.GlobalSettings
	logger   *zap.Logger
}

func NewSettingsService(repo *repository.SettingsRepository, businessCfg *config.BusinessConfig, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo: repo,
		defaults: domain.GlobalSettings{
			ID:               domain.GlobalSettingsID,
			MinMarginPercent: decimal.NewFromFloat(businessCfg.DefaultMinMarginPercent),
		},
		logger: logger,
	}
}

// Current returns the stored settings or the defaults
func (s *SettingsService) Current(ctx context.Context) (*domain.GlobalSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := s.defaults
			return &defaults, nil
		}
		return nil, translate(err, "get settings")
	}
	return settings, nil
}

func (s *SettingsService) Get(ctx context.Context) (*domain.SettingsDTO, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSettingsDTO(settings)
	return &dto, nil
}

func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.SettingsDTO, error) {
	settings := &domain.GlobalSettings{MinMarginPercent: decimal.NewFromFloat(req.MinMarginPercent)}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, translate(err, "save settings")
	}
	s.logger.Info("settings updated", zap.String("min_margin_percent", settings.MinMarginPercent.String()))
	return s.Get(ctx)
}
