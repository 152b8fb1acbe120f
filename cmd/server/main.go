package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sanctionscan/internal/app"
	"sanctionscan/internal/platform/config"
	"sanctionscan/internal/platform/httpserver"
	"sanctionscan/internal/platform/logger"
	"sanctionscan/internal/platform/metrics"
	screeninghandler "sanctionscan/internal/screening/handler"
	httptransport "sanctionscan/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Screening logic lives in internal/screening.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	m := metrics.New()
	fetcher := app.NewFetcher(cfg.Sources)

	rosterSource, err := app.NewConfluenceRoster(cfg.Confluence, fetcher, log)
	if err != nil {
		log.Error("roster source not configured", "error", err)
		os.Exit(1)
	}

	service, err := app.NewService(cfg, rosterSource, fetcher, log, m.Registry)
	if err != nil {
		log.Error("failed to build screening service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(log, m, cfg.Server.RequestTimeout,
		screeninghandler.New(service, log),
	)
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	log.Info("starting sanctionscan", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
