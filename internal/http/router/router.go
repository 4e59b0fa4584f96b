package router

import (
	"encoding/json"
	"net/http"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/database"
	"github.com/arredo/backoffice-api/internal/http/handler"
	"github.com/arredo/backoffice-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/arredo/backoffice-api/docs" // registers the swagger doc
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Catalog   *handler.CatalogHandler
	Sale      *handler.SaleHandler
	Deal      *handler.DealHandler
	Activity  *handler.ActivityHandler
	Chat      *handler.ChatHandler
	Stats     *handler.StatsHandler
	Budget    *handler.BudgetHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	h              Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		h:              handlers,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(rt.rateLimiter.LimitLogin).Post("/auth/login", rt.h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/auth/me", rt.h.Auth.Me)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.h.User.List)
				r.Get("/salespeople", rt.h.User.ListSalespeople)
				r.Get("/{id}", rt.h.User.GetByID)
				r.With(rt.authMiddleware.RequireStaff).Post("/", rt.h.User.Create)
				r.With(rt.authMiddleware.RequireStaff).Put("/{id}/profile", rt.h.User.UpdateProfile)
			})

			// Role costs and categories: everyone reads, staff manages
			r.Route("/roles", func(r chi.Router) {
				r.Get("/", rt.h.Catalog.ListRoles)
				r.Get("/{id}", rt.h.Catalog.GetRole)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)
					r.Post("/", rt.h.Catalog.CreateRole)
					r.Put("/{id}", rt.h.Catalog.UpdateRole)
					r.Delete("/{id}", rt.h.Catalog.DeleteRole)
				})
			})
			r.Route("/product-categories", func(r chi.Router) {
				r.Get("/", rt.h.Catalog.ListProductCategories)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)
					r.Post("/", rt.h.Catalog.CreateProductCategory)
					r.Put("/{id}", rt.h.Catalog.UpdateProductCategory)
					r.Delete("/{id}", rt.h.Catalog.DeleteProductCategory)
				})
			})
			r.Route("/service-categories", func(r chi.Router) {
				r.Get("/", rt.h.Catalog.ListServiceCategories)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)
					r.Post("/", rt.h.Catalog.CreateServiceCategory)
					r.Put("/{id}", rt.h.Catalog.UpdateServiceCategory)
					r.Delete("/{id}", rt.h.Catalog.DeleteServiceCategory)
				})
			})

			// Sales
			r.Route("/sales", func(r chi.Router) {
				r.Get("/", rt.h.Sale.List)
				r.Post("/", rt.h.Sale.Create)
				r.Get("/{id}", rt.h.Sale.GetByID)
				r.Put("/{id}", rt.h.Sale.Update)
				r.Delete("/{id}", rt.h.Sale.Delete)
			})

			// Deals
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", rt.h.Deal.List)
				r.Post("/", rt.h.Deal.Create)
				r.Get("/board", rt.h.Deal.Board)
				r.Get("/{id}", rt.h.Deal.GetByID)
				r.Put("/{id}", rt.h.Deal.Update)
				r.Delete("/{id}", rt.h.Deal.Delete)
				r.Post("/{id}/move", rt.h.Deal.Move)
				r.Get("/{id}/close-won", rt.h.Deal.CloseForm)
				r.Post("/{id}/close-won", rt.h.Deal.CloseWon)

				r.Get("/{id}/activities", rt.h.Activity.ListByDeal)
				r.Post("/{id}/activities", rt.h.Activity.Create)
				r.Get("/{id}/messages", rt.h.Chat.List)
				r.Post("/{id}/messages", rt.h.Chat.Post)
			})

			// Activities
			r.Route("/activities", func(r chi.Router) {
				r.Get("/advisory", rt.h.Activity.Advise)
				r.Get("/{id}", rt.h.Activity.GetByID)
				r.Put("/{id}", rt.h.Activity.Update)
				r.Delete("/{id}", rt.h.Activity.Delete)
			})

			// Monthly stats
			r.Route("/stats/monthly", func(r chi.Router) {
				r.Get("/", rt.h.Stats.List)
				r.Get("/current", rt.h.Stats.GetOrCreate)
				r.Put("/{id}", rt.h.Stats.Update)
			})

			// Budgets
			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", rt.h.Budget.List)
				r.Get("/{id}", rt.h.Budget.GetByID)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)
					r.Post("/", rt.h.Budget.Create)
					r.Put("/{id}", rt.h.Budget.Update)
					r.Delete("/{id}", rt.h.Budget.Delete)
				})
			})

			// Settings
			r.Get("/settings", rt.h.Settings.Get)
			r.With(rt.authMiddleware.RequireStaff).Put("/settings", rt.h.Settings.Update)

			// Dashboard and reports
			r.Get("/dashboard", rt.h.Dashboard.Get)
			r.Route("/reports", func(r chi.Router) {
				r.Get("/labor", rt.h.Report.Labor)
				r.Get("/salespeople", rt.h.Report.Salespeople)
				r.Get("/deals.xlsx", rt.h.Report.DealsExcel)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireStaff)
					r.Post("/archive", rt.h.Report.ArchiveNow)
					r.Get("/archive/{name}", rt.h.Report.DownloadArchived)
				})
			})
		})
	})

	return r
}

// databaseHealth reports pool statistics
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			"max_idle_closed":      stats.MaxIdleClosed,
			"max_lifetime_closed":  stats.MaxLifetimeClosed,
		},
	})
}

// readiness checks every dependency the API needs to serve requests
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
