package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/adapters/currency"
	"github.com/SscSPs/orders_sync_app/internal/adapters/lock"
	"github.com/SscSPs/orders_sync_app/internal/adapters/messaging"
	"github.com/SscSPs/orders_sync_app/internal/adapters/sheets"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/SscSPs/orders_sync_app/internal/core/services"
	"github.com/SscSPs/orders_sync_app/internal/handlers"
	"github.com/SscSPs/orders_sync_app/internal/jobs"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/platform/config"
	"github.com/SscSPs/orders_sync_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/SscSPs/orders_sync_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Orders Sync API
// @version 1.0
// @description Read API for synced spreadsheet orders and admin endpoints for reminders and jobs.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	runJob := flag.String("run", "", "run one job (reconcile_orders or send_notifications) and exit")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			logger.Error("Failed to hash password", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer analytics.Close()

	gw, err := buildGateways(cfg, logger)
	if err != nil {
		logger.Error("Failed to configure external sources", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewContainer(&repos, gw, cfg.MessageLocale)

	schedulerOpts := []jobs.SchedulerOption{jobs.WithLogger(logger), jobs.WithAnalytics(analytics)}
	if cfg.RedisAddress != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.RedisAddress)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
		schedulerOpts = append(schedulerOpts, jobs.WithLocker(lock.NewRedisLocker(rdb), cfg.JobLockTTL))
		logger.Info("Job lock shared through redis", slog.String("address", cfg.RedisAddress))
	}

	scheduler, err := jobs.NewScheduler(jobs.NewTable(container, jobs.TableConfig{
		ReconcileInterval:       cfg.ReconcileInterval,
		NotifyInterval:          cfg.NotifyInterval,
		ReconcileTriggersNotify: cfg.ReconcileTriggersNotify,
	}), schedulerOpts...)
	if err != nil {
		logger.Error("Failed to build job table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *runJob != "" {
		if _, err := scheduler.RunOnce(ctx, *runJob); err != nil {
			os.Exit(1)
		}
		return
	}

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Start(ctx)
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, scheduler, analytics); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	<-schedulerDone
	logger.Info("Shutdown complete")
}

// buildGateways constructs the rate provider, the configured row source and the message transport.
func buildGateways(cfg *config.Config, logger *slog.Logger) (services.Gateways, error) {
	rates, err := currency.NewCBRRateProvider(currency.CBRConfig{
		URL:            cfg.RateProviderURL,
		SourceCurrency: cfg.RateSourceCurrency,
		TargetCurrency: cfg.RateTargetCurrency,
		Timeout:        cfg.RateRequestTimeout,
	})
	if err != nil {
		return services.Gateways{}, err
	}
	logger.Info("Rate provider configured", slog.String("pair", rates.Pair().String()), slog.String("url", cfg.RateProviderURL))

	var rows gateways.RowSource
	switch cfg.SheetSource {
	case config.SheetSourceXLSX:
		rows, err = sheets.NewXLSXSource(sheets.XLSXConfig{
			Path:     cfg.XLSXPath,
			Sheet:    cfg.XLSXSheet,
			SkipRows: cfg.XLSXSkipRows,
		})
	default:
		rows, err = sheets.NewGoogleSheetsSource(sheets.GoogleSheetsConfig{
			SpreadsheetID:   cfg.GoogleSheetsSpreadsheet,
			Range:           cfg.GoogleSheetsRange,
			CredentialsPath: cfg.GoogleCredentialsPath,
			TokenPath:       cfg.GoogleTokenPath,
		})
	}
	if err != nil {
		return services.Gateways{}, err
	}
	logger.Info("Row source configured", slog.String("source", cfg.SheetSource))

	return services.Gateways{
		Rates:     rates,
		Rows:      rows,
		Transport: messaging.NewTelegramTransport(messaging.TelegramConfig{Token: cfg.TelegramToken}),
	}, nil
}
