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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/calendar-assistant/cmd/mainconfig"
	"github.com/wolfman30/calendar-assistant/internal/api/router"
	appconfig "github.com/wolfman30/calendar-assistant/internal/config"
	"github.com/wolfman30/calendar-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/calendar-assistant/internal/http/middleware"
	"github.com/wolfman30/calendar-assistant/internal/observability/metrics"
	"github.com/wolfman30/calendar-assistant/internal/webchat"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting calendar-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"booking_source", cfg.BookingSource,
	)

	ctx := context.Background()
	metricsHandler, conversationMetrics := setupMetrics()

	redisClient := mainconfig.NewRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	deps := mainconfig.Deps{Redis: redisClient, Metrics: conversationMetrics, Logger: logger}

	source, closeSource, err := mainconfig.BuildBookingSource(ctx, cfg, deps)
	if err != nil {
		logger.Error("failed to build booking source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	svc, err := mainconfig.BuildConversationService(ctx, cfg, source, deps)
	if err != nil {
		logger.Error("failed to build conversation service", "error", err)
		os.Exit(1)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		WebChatHandler:      webchat.NewHandler(svc, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimiter:         limiter,
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.ConversationMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewConversationMetrics(reg)
}
