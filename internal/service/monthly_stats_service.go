package service

import (
	"context"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MonthlyStatsService manages the manually entered costs of each month
type MonthlyStatsService struct {
	repo   *repository.MonthlyStatsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewMonthlyStatsService(repo *repository.MonthlyStatsRepository, logger *zap.Logger) *MonthlyStatsService {
	return &MonthlyStatsService{repo: repo, logger: logger, now: time.Now}
}

// GetOrCreate returns the row for (year, month), creating a zeroed one on first access.
// Zero year or month means the current one.
func (s *MonthlyStatsService) GetOrCreate(ctx context.Context, year, month int) (*domain.MonthlyStatsDTO, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, NewValidationError("month", "must be between 1 and 12")
	}

	stats, err := s.repo.GetOrCreate(ctx, year, month)
	if err != nil {
		return nil, translate(err, "get monthly stats")
	}
	dto := mapper.ToMonthlyStatsDTO(stats)
	return &dto, nil
}

func (s *MonthlyStatsService) Update(ctx context.Context, id uuid.UUID, req *domain.MonthlyStatsRequest) (*domain.MonthlyStatsDTO, error) {
	stats, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get monthly stats")
	}

	stats.MarketingCost = decimal.NewFromFloat(req.MarketingCost)
	stats.FixedCosts = decimal.NewFromFloat(req.FixedCosts)
	stats.RejectedFinancings = req.RejectedFinancings

	if err := s.repo.Update(ctx, stats); err != nil {
		return nil, translate(err, "update monthly stats")
	}

	s.logger.Info("monthly stats updated",
		zap.Int("year", stats.Year),
		zap.Int("month", stats.Month))

	dto := mapper.ToMonthlyStatsDTO(stats)
	return &dto, nil
}

// List returns the rows matching the optional year and month, newest first
func (s *MonthlyStatsService) List(ctx context.Context, year, month int) ([]domain.MonthlyStatsDTO, error) {
	stats, err := s.repo.Find(ctx, year, month)
	if err != nil {
		return nil, translate(err, "list monthly stats")
	}
	dtos := make([]domain.MonthlyStatsDTO, len(stats))
	for i := range stats {
		dtos[i] = mapper.ToMonthlyStatsDTO(&stats[i])
	}
	return dtos, nil
}
