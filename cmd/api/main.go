package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/config"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/infrastructure/database"
	"github.com/sangkips/register-api/internal/infrastructure/logger"
	"github.com/sangkips/register-api/internal/infrastructure/repository"
	"github.com/sangkips/register-api/internal/presentation/http/handler"
	"github.com/sangkips/register-api/internal/presentation/http/middleware"
	"github.com/sangkips/register-api/internal/presentation/http/routes"
	"github.com/sangkips/register-api/pkg/printer"
	"github.com/sangkips/register-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(&cfg.App, &cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := database.AutoMigrate(db, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := database.SeedDefaultData(db, &cfg.Admin, log); err != nil {
		log.Warn("failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpiryHours)

	// Repositories
	sessionRepo := repository.NewRegisterSessionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	if n, err := idempotencyRepo.DeleteExpired(context.Background(), time.Now()); err != nil {
		log.Warn("failed to purge expired idempotency keys", zap.Error(err))
	} else if n > 0 {
		log.Info("purged expired idempotency keys", zap.Int64("count", n))
	}

	// Services
	settingsService := service.NewSettingsService(settingsRepo, log)
	salesService := service.NewSalesService(transactionRepo, cfg.App.Location(), log)
	transactionService := service.NewTransactionService(transactionRepo, salesService, log)
	registerService := service.NewRegisterService(sessionRepo, salesService, settingsService, log)
	quoteService := service.NewQuoteService(settingsService)
	reportService := service.NewReportService(salesService, log)
	authService := service.NewAuthService(userRepo, jwtManager, log)

	printerType := cfg.Printer.Type
	thermalPrinter, err := printer.New(printer.Config{
		Type:    printerType,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		printerType = "none"
		thermalPrinter, _ = printer.New(printer.Config{Type: printerType})
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		printerType,
		cfg.Printer.PaperWidth,
		entity.ReceiptHeader{
			StoreName: cfg.Store.Name,
			Address:   cfg.Store.Address,
			Phone:     cfg.Store.Phone,
			TaxID:     cfg.Store.TaxID,
		},
		transactionService,
		log,
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Register:    handler.NewRegisterHandler(registerService, salesService, printerService),
		Transaction: handler.NewTransactionHandler(transactionService, salesService),
		Sales:       handler.NewSalesHandler(quoteService),
		Report:      handler.NewReportHandler(salesService, reportService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
