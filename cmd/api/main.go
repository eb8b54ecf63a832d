package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/droitbot/droitbot-server/internal/adapters/http"
	"github.com/droitbot/droitbot-server/internal/bootstrap"
	"github.com/droitbot/droitbot-server/internal/config"
	"github.com/droitbot/droitbot-server/internal/observability/logging"
	"github.com/droitbot/droitbot-server/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup("droitbot-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics("droitbot-api")
	router := httpadapter.NewRouter(
		app.Assistant,
		app.Messages,
		app.Fraud,
		app.Audio,
		app.Debunker,
		app.Emergency,
		app.Customs,
		app.Rights,
		app.Speech,
		app.Ingestor,
		app.Repo,
		serverMetrics,
		httpadapter.RouterConfig{
			RateLimitRPS:   cfg.APIRateLimitRPS,
			RateLimitBurst: cfg.APIRateLimitBurst,
			MaxInFlight:    cfg.APIRateLimitBurst * 2,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}
