package service

import (
	"context"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"go.uber.org/zap"
)

// trendWindow is how far back the unfiltered dashboard trend reaches
const trendWindow = 365 * 24 * time.Hour

type DashboardService struct {
	saleRepo   *repository.SaleRepository
	dealRepo   *repository.DealRepository
	statsRepo  *repository.MonthlyStatsRepository
	budgetRepo *repository.BudgetRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewDashboardService(
	saleRepo *repository.SaleRepository,
	dealRepo *repository.DealRepository,
	statsRepo *repository.MonthlyStatsRepository,
	budgetRepo *repository.BudgetRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		saleRepo:   saleRepo,
		dealRepo:   dealRepo,
		statsRepo:  statsRepo,
		budgetRepo: budgetRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GetDashboard computes every KPI for the period from fresh data
func (s *DashboardService) GetDashboard(ctx context.Context, period finance.Period) (*domain.DashboardDTO, error) {
	in, err := s.loadInput(ctx, period)
	if err != nil {
		return nil, err
	}

	years, err := s.saleRepo.DistinctYears(ctx)
	if err != nil {
		return nil, translate(err, "list sale years")
	}

	dashboard := finance.ComputeDashboard(*in)

	s.logger.Debug("dashboard computed",
		zap.String("period", period.Title()),
		zap.Int("sales", dashboard.SaleCount),
		zap.Int("alerts", len(dashboard.Alerts)))

	dto := mapper.ToDashboardDTO(&dashboard, years)
	return &dto, nil
}

func (s *DashboardService) loadInput(ctx context.Context, period finance.Period) (*finance.DashboardInput, error) {
	rng := dateRange(period)

	sales, err := s.saleRepo.FindAll(ctx, &repository.SaleFilters{Range: rng})
	if err != nil {
		return nil, translate(err, "load sales")
	}
	sales = salesInPeriod(sales, period)

	wonDeals, err := s.dealRepo.FindWonBySaleDate(ctx, rng)
	if err != nil {
		return nil, translate(err, "load won deals")
	}
	wonDeals = dealsLinkedTo(wonDeals, sales)

	created, err := s.dealRepo.FindCreated(ctx, rng)
	if err != nil {
		return nil, translate(err, "load created deals")
	}
	created = dealsCreatedInPeriod(created, period)

	stats, err := s.statsRepo.Find(ctx, period.Year, period.Month)
	if err != nil {
		return nil, translate(err, "load monthly stats")
	}

	var budgets []domain.Budget
	if period.HasYearAndMonth() {
		budgets, err = s.budgetRepo.Find(ctx, period.Year, period.Month)
		if err != nil {
			return nil, translate(err, "load budgets")
		}
	}

	active, err := s.dealRepo.FindActive(ctx)
	if err != nil {
		return nil, translate(err, "load active deals")
	}

	in := &finance.DashboardInput{
		Period:       period,
		Sales:        sales,
		WonDeals:     wonDeals,
		CreatedDeals: created,
		Stats:        stats,
		Budgets:      budgets,
		ActiveDeals:  active,
	}

	if !period.IsFiltered() {
		// The unfiltered input already holds every sale and won deal
		since := s.now().UTC().Add(-trendWindow)
		trendStats, err := s.statsRepo.FindSince(ctx, since.Year(), int(since.Month()))
		if err != nil {
			return nil, translate(err, "load trend stats")
		}
		in.Trend = &finance.TrendInput{
			Since:    since,
			Sales:    sales,
			WonDeals: wonDeals,
			Stats:    trendStats,
		}
	}

	return in, nil
}
