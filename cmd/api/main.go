package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arredo/backoffice-api/docs"
	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/database"
	"github.com/arredo/backoffice-api/internal/http/handler"
	"github.com/arredo/backoffice-api/internal/http/middleware"
	"github.com/arredo/backoffice-api/internal/http/router"
	"github.com/arredo/backoffice-api/internal/jobs"
	"github.com/arredo/backoffice-api/internal/logger"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/arredo/backoffice-api/internal/service"
	"github.com/arredo/backoffice-api/internal/storage"
	"go.uber.org/zap"
)

// @title Arredo Back Office API
// @version 1.0
// @description Back office API for the furniture store: deals pipeline, activities, sales, budgets and reports.

// @contact.name Arredo Back Office

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration is enough to set up logging
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Secrets come from the environment in development and from Key Vault elsewhere
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	reportStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
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

	// Services
	tokens := auth.NewTokenIssuer(&cfg.Auth)
	userService := service.NewUserService(userRepo, &cfg.Auth, &cfg.Business, log, db)
	authService := service.NewAuthService(userRepo, tokens, log)
	catalogService := service.NewCatalogService(roleRepo, productCategoryRepo, serviceCategoryRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, &cfg.Business, log)
	saleService := service.NewSaleService(saleRepo, productCategoryRepo, userRepo, log)
	dealService := service.NewDealService(dealRepo, saleRepo, userRepo, productCategoryRepo, log, db)
	activityService := service.NewActivityService(activityRepo, dealRepo, roleRepo, serviceCategoryRepo, settingsService, log)
	chatService := service.NewChatService(chatRepo, dealRepo, log)
	statsService := service.NewMonthlyStatsService(statsRepo, log)
	budgetService := service.NewBudgetService(budgetRepo, productCategoryRepo, &cfg.Business, log)
	dashboardService := service.NewDashboardService(saleRepo, dealRepo, statsRepo, budgetRepo, log)
	reportService := service.NewReportService(activityRepo, dealRepo, saleRepo, log)
	exportService := service.NewExportService(dealRepo, log)

	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to provision admin user: %w", err)
	}

	archiveJob := jobs.NewReportArchiveJob(
		exportService,
		reportStorage,
		log,
		time.Duration(cfg.Jobs.ReportArchiveTimeout)*time.Second,
	)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		User:      handler.NewUserHandler(userService, log),
		Catalog:   handler.NewCatalogHandler(catalogService, log),
		Sale:      handler.NewSaleHandler(saleService, log),
		Deal:      handler.NewDealHandler(dealService, log),
		Activity:  handler.NewActivityHandler(activityService, log),
		Chat:      handler.NewChatHandler(chatService, log),
		Stats:     handler.NewStatsHandler(statsService, log),
		Budget:    handler.NewBudgetHandler(budgetService, log),
		Settings:  handler.NewSettingsHandler(settingsService, log),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
		Report:    handler.NewReportHandler(reportService, exportService, reportStorage, archiveJob, log),
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.ReportArchiveEnabled {
		scheduler = jobs.NewScheduler(log)
		if err := scheduler.AddJob(jobs.ReportArchiveJobName, cfg.Jobs.ReportArchiveSchedule, archiveJob.Run); err != nil {
			log.Error("Failed to register report archive job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
			log.Info("Scheduler started with report archive job",
				zap.String("cron_expr", cfg.Jobs.ReportArchiveSchedule),
				zap.Int("timeout_seconds", cfg.Jobs.ReportArchiveTimeout),
			)
		}
	} else {
		log.Info("Report archive job disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
