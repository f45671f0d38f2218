package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ecuralabs/clinic-booking-service/internal/api"
	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/chat"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/config"
	"github.com/ecuralabs/clinic-booking-service/internal/db"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/internal/observability/metrics"
	redisclient "github.com/ecuralabs/clinic-booking-service/internal/redis"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort, "version", version)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rc := api.RouterConfig{
		Logger:      logger,
		HorizonDays: cfg.ScanHorizonDays,
		Env:         cfg.Env,
		Version:     version,
	}

	// Appointment store: Postgres when configured, in-memory otherwise.
	var repo appointment.Repository = appointment.NewMemoryRepository()
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			logger.Error("postgres connection error", "error", err)
			os.Exit(1)
		}
		defer pgPool.Close()
		logger.Info("connected to Postgres")
		repo = appointment.NewPgRepository(pgPool)
		rc.PgPool = pgPool
	} else {
		logger.Warn("POSTGRES_DSN not set, using in-memory appointment store")
	}

	// Booking lock: Redis when configured, in-process mutexes otherwise.
	locker := redisclient.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connection error", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("error closing redis", "error", err)
			}
		}()
		logger.Info("connected to Redis")
		locker = redisclient.NewRedisLocker(rdb, cfg.LockTTL)
		rc.Redis = rdb
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process booking locks")
	}

	// Clinic directory.
	roster := clinic.DefaultClinics()
	if cfg.ClinicsFile != "" {
		roster, err = clinic.LoadClinics(cfg.ClinicsFile)
		if err != nil {
			logger.Error("clinics file load error", "path", cfg.ClinicsFile, "error", err)
			os.Exit(1)
		}
	}
	dir := clinic.NewDirectory(roster)
	rc.Directory = dir
	logger.Info("clinic directory loaded", "clinics", len(roster))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)
	rc.Registry = registry

	notifier := notify.NewNotifier(cfg.WebhookURL, logger.Named("notify"), bookingMetrics)
	rc.Notifier = notifier
	if !notifier.Enabled() {
		logger.Warn("WEBHOOK_URL not set, CMS notifications disabled")
	}

	svc := appointment.NewService(repo, dir, logger.Named("booking"),
		appointment.WithLocker(locker),
		appointment.WithMetrics(bookingMetrics),
	)
	rc.Bookings = svc

	// Chat collaborator.
	if cfg.GeminiAPIKey != "" {
		gemini, err := chat.NewGeminiClient(rootCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client error", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := gemini.Close(); err != nil {
				logger.Warn("error closing gemini client", "error", err)
			}
		}()
		rc.Assistant = chat.NewAssistant(gemini, dir, svc, notifier, logger.Named("assistant"),
			chat.WithHorizon(cfg.ScanHorizonDays),
			chat.WithAssistantMetrics(bookingMetrics),
		)
		logger.Info("chat assistant enabled", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat assistant disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(rc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("api-server stopped")
}
