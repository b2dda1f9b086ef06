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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-allocation-engine/docs"
	"github.com/anyulbade/commission-allocation-engine/internal/config"
	"github.com/anyulbade/commission-allocation-engine/internal/database"
	"github.com/anyulbade/commission-allocation-engine/internal/handler"
	"github.com/anyulbade/commission-allocation-engine/internal/metrics"
	"github.com/anyulbade/commission-allocation-engine/internal/middleware"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
	"github.com/anyulbade/commission-allocation-engine/internal/report"
	"github.com/anyulbade/commission-allocation-engine/internal/repository"
	"github.com/anyulbade/commission-allocation-engine/internal/service"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("commission allocation engine stopped")
	}
	log.Info().Msg("server exited")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := database.NewPool(startCtx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			return err
		}
		if err := database.SeedData(startCtx, pool); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	schedule, err := loadSchedule(startCtx, cfg, pool)
	if err != nil {
		return fmt.Errorf("load rate schedule: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	renderer, err := report.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse report templates: %w", err)
	}

	reportService := service.NewReportService(repository.NewTransactionRepository(pool), schedule, renderer,
		metrics.New(reg), cfg.StrictReconciliation)
	log.Info().Bool("strict_reconciliation", cfg.StrictReconciliation).Msg("report service ready")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, pool, reg, reportService),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("draining connections")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *config.Config, pool *pgxpool.Pool, reg *prometheus.Registry, reportService *service.ReportService) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(), middleware.ErrorHandler(), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Accept", middleware.RequestIDHeader}
		corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/health", handler.NewHealthHandler(pool).Health)
	router.GET("/metrics", handler.NewMetricsHandler(reg))
	handler.SetupSwagger(router, docs.SwaggerJSON)
	setupAPIRoutes(router, reportService)
	return router
}

// loadSchedule prefers RATES_FILE, then the rate_versions table, then the
// built-in default version when the table is empty.
func loadSchedule(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*rates.Schedule, error) {
	if cfg.RatesFile != "" {
		schedule, err := rates.LoadFromFile(cfg.RatesFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.RatesFile).Int("versions", len(schedule.Versions())).Msg("rate schedule loaded from file")
		return schedule, nil
	}

	schedule, err := repository.NewRateRepository(pool).Schedule(ctx)
	if errors.Is(err, rates.ErrEmptySchedule) {
		log.Warn().Str("version", rates.DefaultVersion).Msg("no rate versions stored, using built-in default")
		return rates.NewSchedule(rates.Default())
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("versions", len(schedule.Versions())).Msg("rate schedule loaded from database")
	return schedule, nil
}

func setupAPIRoutes(router *gin.Engine, reportService *service.ReportService) {
	reportHandler := handler.NewReportHandler(reportService)
	ratesHandler := handler.NewRatesHandler(reportService)

	api := router.Group("/api/v1")
	{
		api.GET("/reports/accounting", reportHandler.GetAccountingPeriod)
		api.GET("/reports/accounting/:session_id", reportHandler.GetAccountingReport)
		api.GET("/receipts/:session_id", reportHandler.GetReceipt)
		api.GET("/rates", ratesHandler.List)
	}
}
