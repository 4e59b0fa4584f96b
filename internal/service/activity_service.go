package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/finance"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService manages the service work logged on deals and the live price advisory
type ActivityService struct {
	activityRepo        *repository.ActivityRepository
	dealRepo            *repository.DealRepository
	roleRepo            *repository.RoleCostRepository
	serviceCategoryRepo *repository.ServiceCategoryRepository
	settings            *SettingsService
	logger              *zap.Logger
	now                 func() time.Time
}

func NewActivityService(
	activityRepo *repository.ActivityRepository,
	dealRepo *repository.DealRepository,
	roleRepo *repository.RoleCostRepository,
	serviceCategoryRepo *repository.ServiceCategoryRepository,
	settings *SettingsService,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo:        activityRepo,
		dealRepo:            dealRepo,
		roleRepo:            roleRepo,
		serviceCategoryRepo: serviceCategoryRepo,
		settings:            settings,
		logger:              logger,
		now:                 time.Now,
	}
}

// Create logs an activity on the deal. Closed deals still accept activities.
func (s *ActivityService) Create(ctx context.Context, dealID uuid.UUID, req *domain.ActivityRequest) (*domain.ActivityDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		return nil, translate(err, "get deal")
	}

	activity := &domain.Activity{DealID: dealID}
	if err := s.apply(ctx, activity, req); err != nil {
		return nil, err
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, translate(err, "create activity")
	}

	s.logger.Info("activity logged",
		zap.String("activity_id", activity.ID.String()),
		zap.String("deal_id", dealID.String()),
		zap.String("hours", activity.Hours.String()))

	return s.GetByID(ctx, activity.ID)
}

func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ActivityDTO, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get activity")
	}
	dto := mapper.ToActivityDTO(activity)
	return &dto, nil
}

func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, req *domain.ActivityRequest) (*domain.ActivityDTO, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get activity")
	}
	if err := s.apply(ctx, activity, req); err != nil {
		return nil, err
	}
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, translate(err, "update activity")
	}
	return s.GetByID(ctx, id)
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.activityRepo.Delete(ctx, id), "delete activity")
}

// ListByDeal returns the deal's activities, newest first
func (s *ActivityService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.ActivityDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		return nil, translate(err, "get deal")
	}
	activities, err := s.activityRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, translate(err, "list activities")
	}
	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i])
	}
	return dtos, nil
}

// Advise prices the raw form input against the minimum margin threshold.
// It never fails on bad input: unknown roles cost nothing and bad numbers read as zero.
func (s *ActivityService) Advise(ctx context.Context, roleIDRaw, hoursRaw, priceRaw string) (*domain.CostAdvisoryDTO, error) {
	rate := decimal.Zero
	if roleID, err := uuid.Parse(strings.TrimSpace(roleIDRaw)); err == nil {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		switch {
		case err == nil:
			rate = role.HourlyRate
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, translate(err, "get role")
		}
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToCostAdvisoryDTO(finance.AdviseActivityPrice(rate, hoursRaw, priceRaw, settings.MinMarginPercent))
	return &dto, nil
}

func (s *ActivityService) apply(ctx context.Context, activity *domain.Activity, req *domain.ActivityRequest) error {
	activityDate := s.now().UTC()
	activityDate = time.Date(activityDate.Year(), activityDate.Month(), activityDate.Day(), 0, 0, 0, 0, time.UTC)
	if req.ActivityDate != "" {
		parsed, err := mapper.ParseDate(req.ActivityDate)
		if err != nil {
			return NewValidationError("activityDate", "must be a date in YYYY-MM-DD format")
		}
		activityDate = parsed
	}

	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("roleId", "unknown role")
			}
			return translate(err, "get role")
		}
	}
	if req.ServiceCategoryID != nil {
		if _, err := s.serviceCategoryRepo.GetByID(ctx, *req.ServiceCategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("serviceCategoryId", "unknown service category")
			}
			return translate(err, "get service category")
		}
	}

	activity.RoleID = req.RoleID
	activity.Role = nil
	activity.ServiceCategoryID = req.ServiceCategoryID
	activity.ServiceCategory = nil
	activity.Description = strings.TrimSpace(req.Description)
	activity.SalePrice = decimal.NewFromFloat(req.SalePrice)
	activity.Hours = decimal.NewFromFloat(req.Hours)
	activity.ActivityDate = activityDate
	activity.Notes = strings.TrimSpace(req.Notes)
	return nil
}
