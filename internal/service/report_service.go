package service

import (
	"context"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService builds the read-only labor and salesperson reports
type ReportService struct {
	activityRepo *repository.ActivityRepository
	dealRepo     *repository.DealRepository
	saleRepo     *repository.SaleRepository
	logger       *zap.Logger
}

func NewReportService(
	activityRepo *repository.ActivityRepository,
	dealRepo *repository.DealRepository,
	saleRepo *repository.SaleRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		activityRepo: activityRepo,
		dealRepo:     dealRepo,
		saleRepo:     saleRepo,
		logger:       logger,
	}
}

// Labor reports logged labor per role, per active deal, and the totals sunk into lost and won deals
func (s *ReportService) Labor(ctx context.Context) (*domain.LaborReportDTO, error) {
	activities, err := s.activityRepo.FindAll(ctx)
	if err != nil {
		return nil, translate(err, "load activities")
	}
	active, err := s.dealRepo.FindActive(ctx)
	if err != nil {
		return nil, translate(err, "load active deals")
	}
	lost, err := s.activityRepo.FindByDealStage(ctx, domain.DealStageLost)
	if err != nil {
		return nil, translate(err, "load lost deal activities")
	}
	won, err := s.activityRepo.FindByDealStage(ctx, domain.DealStageWon)
	if err != nil {
		return nil, translate(err, "load won deal activities")
	}

	byRole := finance.LaborByRole(activities)
	byDeal := finance.LaborByDeal(active)

	report := &domain.LaborReportDTO{
		ByRole:        make([]domain.RoleLaborDTO, len(byRole)),
		ActiveDeals:   make([]domain.DealLaborDTO, len(byDeal)),
		LostDealsCost: mapper.Money(finance.TotalLaborCost(lost)),
		WonDealsCost:  mapper.Money(finance.TotalLaborCost(won)),
	}
	for i, r := range byRole {
		report.ByRole[i] = mapper.ToRoleLaborDTO(r)
	}
	for i, d := range byDeal {
		report.ActiveDeals[i] = mapper.ToDealLaborDTO(d)
	}
	return report, nil
}

// Salespeople reports sales figures per salesperson for the period
func (s *ReportService) Salespeople(ctx context.Context, period finance.Period) (*domain.SalespersonReportDTO, error) {
	sales, err := s.saleRepo.FindAll(ctx, &repository.SaleFilters{Range: dateRange(period)})
	if err != nil {
		return nil, translate(err, "load sales")
	}
	sales = salesInPeriod(sales, period)

	stats := finance.BySalesperson(sales)
	report := &domain.SalespersonReportDTO{
		Period: mapper.ToPeriodDTO(period),
		Rows:   make([]domain.SalespersonStatsDTO, len(stats)),
	}
	for i, st := range stats {
		report.Rows[i] = mapper.ToSalespersonStatsDTO(st)
	}
	return report, nil
}
