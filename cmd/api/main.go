package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/hospital-platform/internal/api/router"
	"github.com/wolfman30/hospital-platform/internal/app/bootstrap"
	"github.com/wolfman30/hospital-platform/internal/appointments"
	"github.com/wolfman30/hospital-platform/internal/auth"
	appconfig "github.com/wolfman30/hospital-platform/internal/config"
	"github.com/wolfman30/hospital-platform/internal/doctors"
	"github.com/wolfman30/hospital-platform/internal/gate"
	"github.com/wolfman30/hospital-platform/internal/observability/metrics"
	"github.com/wolfman30/hospital-platform/internal/prescriptions"
	"github.com/wolfman30/hospital-platform/internal/schedule"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.ForEnv(cfg.Env, cfg.LogLevel)
	logger.Info("starting hospital-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := bootstrap.BuildPGPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is optional: without it, list reads go straight to the store.
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	appointmentCache := bootstrap.BuildAppointmentCache(redisClient, cfg)
	if appointmentCache == nil {
		logger.Warn("appointment cache disabled, serving lists from the store")
	}

	registry := prometheus.DefaultRegisterer
	bookingMetrics := metrics.NewBookingMetrics(registry)

	sessions := auth.NewSessionRegistry()
	defer sessions.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, sessions, logger)
	authHandler := auth.NewHandler(authService, logger)

	doctorsRepo := doctors.NewRepository(pool)
	doctorsHandler := doctors.NewHandler(doctorsRepo, logger)

	apptRepo := appointments.NewRepository(pool)
	apptService := appointments.NewService(apptRepo, appointmentCache, bookingMetrics, logger, cfg.RequireBookingReason)
	resolver := schedule.NewResolver(apptRepo, logger)
	apptHandler := appointments.NewHandler(apptService, resolver, logger)
	statsHandler := appointments.NewStatsHandler(appointments.NewStatsRepository(pool), logger)

	rxRepo := prescriptions.NewRepository(pool)
	rxHandler := prescriptions.NewHandler(rxRepo, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		AuthHandler:          authHandler,
		TokenVerifier:        tokens,
		Gate:                 gate.New(cfg.EnforceAdminRole),
		DoctorsHandler:       doctorsHandler,
		AppointmentsHandler:  apptHandler,
		StatsHandler:         statsHandler,
		PrescriptionsHandler: rxHandler,
		MetricsHandler:       promhttp.Handler(),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		AuthRateLimit:        cfg.AuthRateLimit,
		AuthRateBurst:        cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
