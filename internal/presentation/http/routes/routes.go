package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/config"
	"github.com/sangkips/register-api/internal/domain/enum"
	domainRepo "github.com/sangkips/register-api/internal/domain/repository"
	"github.com/sangkips/register-api/internal/presentation/http/handler"
	"github.com/sangkips/register-api/internal/presentation/http/middleware"
	"github.com/sangkips/register-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Register    *handler.RegisterHandler
	Transaction *handler.TransactionHandler
	Sales       *handler.SalesHandler
	Report      *handler.ReportHandler
	Settings    *handler.SettingsHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
	}

	v1 := router.Group("/api/v1")
	{
		// Login is limited per client IP so it cannot be brute forced.
		v1.POST("/auth/login", rateLimiter.Middleware(), h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	adminOnly := middleware.RequireRole(enum.RoleAdmin)

	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/users", adminOnly, h.Auth.CreateUser)

	register := protected.Group("/register")
	{
		register.GET("/status", h.Register.Status)
		register.GET("/current", h.Register.Current)
		register.GET("/prefill", h.Register.Prefill)
		register.POST("/open", h.Register.Open)
		register.POST("/close", h.Register.Close)
		register.GET("/sessions", adminOnly, h.Register.ListSessions)
		register.GET("/sessions/:id/sales", adminOnly, h.Register.SessionSales)
	}

	protected.POST("/sales/quote", h.Sales.Quote)

	transactions := protected.Group("/transactions")
	{
		transactions.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Transaction.Record)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
	}

	reports := protected.Group("/reports", adminOnly)
	{
		reports.GET("/daily", h.Report.Daily)
		reports.GET("/transactions/export", h.Report.ExportTransactions)
	}

	settings := protected.Group("/settings")
	{
		settings.GET("/tax-rate", h.Settings.GetTaxRate)
		settings.PUT("/tax-rate", adminOnly, h.Settings.UpdateTaxRate)
		settings.GET("/register-amount", h.Settings.GetRegisterAmount)
		settings.PUT("/register-amount", adminOnly, h.Settings.UpdateRegisterAmount)
	}

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/receipt", h.Printer.PrintReceipt)
	}
}
