package service_test

import (
	"context"
	"testing"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db *gorm.DB

	users      *service.UserService
	authn      *service.AuthService
	catalog    *service.CatalogService
	sales      *service.SaleService
	deals      *service.DealService
	activities *service.ActivityService
	chat       *service.ChatService
	stats      *service.MonthlyStatsService
	budgets    *service.BudgetService
	settings   *service.SettingsService
	dashboard  *service.DashboardService
	reports    *service.ReportService
	export     *service.ExportService
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:  "test-secret-test-secret-test-secret",
		JWTIssuer:  "backoffice-api",
		TokenTTL:   60,
		BcryptCost: 4,
	}
}

func testBusinessConfig() *config.BusinessConfig {
	return &config.BusinessConfig{
		DefaultMinMarginPercent:    20,
		DefaultHourlyRate:          25,
		DefaultBudgetMarginPercent: 30,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleCostRepository(db)
	productCategoryRepo := repository.NewProductCategoryRepository(db)
	serviceCategoryRepo := repository.NewServiceCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	chatRepo := repository.NewChatRepository(db)
	statsRepo := repository.NewMonthlyStatsRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	settings := service.NewSettingsService(settingsRepo, testBusinessConfig(), logger)

	return &fixture{
		db:         db,
		users:      service.NewUserService(userRepo, testAuthConfig(), testBusinessConfig(), logger, db),
		authn:      service.NewAuthService(userRepo, auth.NewTokenIssuer(testAuthConfig()), logger),
		catalog:    service.NewCatalogService(roleRepo, productCategoryRepo, serviceCategoryRepo, logger),
		sales:      service.NewSaleService(saleRepo, productCategoryRepo, userRepo, logger),
		deals:      service.NewDealService(dealRepo, saleRepo, userRepo, productCategoryRepo, logger, db),
		activities: service.NewActivityService(activityRepo, dealRepo, roleRepo, serviceCategoryRepo, settings, logger),
		chat:       service.NewChatService(chatRepo, dealRepo, logger),
		stats:      service.NewMonthlyStatsService(statsRepo, logger),
		budgets:    service.NewBudgetService(budgetRepo, productCategoryRepo, testBusinessConfig(), logger),
		settings:   settings,
		dashboard:  service.NewDashboardService(saleRepo, dealRepo, statsRepo, budgetRepo, logger),
		reports:    service.NewReportService(activityRepo, dealRepo, saleRepo, logger),
		export:     service.NewExportService(dealRepo, logger),
	}
}

// userContext returns a context acting as the given user
func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
	})
}

func systemContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      auth.SystemUserID,
		DisplayName: "System",
		IsStaff:     true,
		IsSystem:    true,
	})
}

func floatPtr(f float64) *float64 {
	return &f
}
