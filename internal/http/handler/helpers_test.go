package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/http/handler"
	"github.com/arredo/backoffice-api/internal/jobs"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/storage"
	"github.com/arredo/backoffice-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type handlerFixture struct {
	db    *gorm.DB
	store storage.Storage
	users *service.UserService

	auth      *handler.AuthHandler
	deal      *handler.DealHandler
	activity  *handler.ActivityHandler
	sale      *handler.SaleHandler
	dashboard *handler.DashboardHandler
	report    *handler.ReportHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	authCfg := &config.AuthConfig{
		JWTSecret:  "test-secret-test-secret-test-secret",
		JWTIssuer:  "backoffice-api",
		TokenTTL:   60,
		BcryptCost: 4,
	}
	businessCfg := &config.BusinessConfig{
		DefaultMinMarginPercent:    20,
		DefaultHourlyRate:          25,
		DefaultBudgetMarginPercent: 30,
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleCostRepository(db)
	productCategoryRepo := repository.NewProductCategoryRepository(db)
	serviceCategoryRepo := repository.NewServiceCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	statsRepo := repository.NewMonthlyStatsRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	tokens := auth.NewTokenIssuer(authCfg)
	users := service.NewUserService(userRepo, authCfg, businessCfg, logger, db)
	settings := service.NewSettingsService(settingsRepo, businessCfg, logger)
	exportService := service.NewExportService(dealRepo, logger)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	archiver := jobs.NewReportArchiveJob(exportService, store, logger, time.Minute)

	return &handlerFixture{
		db:    db,
		store: store,
		users: users,
		auth:  handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, logger), logger),
		deal: handler.NewDealHandler(
			service.NewDealService(dealRepo, saleRepo, userRepo, productCategoryRepo, logger, db), logger),
		activity: handler.NewActivityHandler(
			service.NewActivityService(activityRepo, dealRepo, roleRepo, serviceCategoryRepo, settings, logger), logger),
		sale: handler.NewSaleHandler(
			service.NewSaleService(saleRepo, productCategoryRepo, userRepo, logger), logger),
		dashboard: handler.NewDashboardHandler(
			service.NewDashboardService(saleRepo, dealRepo, statsRepo, budgetRepo, logger), logger),
		report: handler.NewReportHandler(
			service.NewReportService(activityRepo, dealRepo, saleRepo, logger),
			exportService, store, archiver, logger),
	}
}

func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
	})
}

// newRequest builds a request carrying the user context and chi URL params
func newRequest(ctx context.Context, method, target string, body interface{}, params map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var problem domain.APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	return problem
}
