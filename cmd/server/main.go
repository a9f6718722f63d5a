package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"capfinder/internal/capitals/directory"
	"capfinder/internal/capitals/service"
	"capfinder/internal/capitals/store"
	"capfinder/internal/platform/config"
	"capfinder/internal/platform/health"
	"capfinder/internal/platform/httpserver"
	"capfinder/internal/platform/logger"
	"capfinder/internal/platform/metrics"
	httptransport "capfinder/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the capitals packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing capfinder",
		"addr", cfg.Addr,
		"store", cfg.StorePath,
		"directory", cfg.DirectoryBaseURL,
	)

	// A missing or malformed store file is the one fatal startup condition.
	capitals, err := store.Load(cfg.StorePath)
	if err != nil {
		log.Error("failed to load capital store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	log.Info("capital store loaded", "entries", capitals.Len())

	m := metrics.New(prometheus.DefaultRegisterer)

	dir := directory.New(cfg.DirectoryBaseURL, cfg.DirectoryTimeout,
		directory.WithLogger(log),
		directory.WithMetrics(m),
	)

	engine := service.New(capitals, dir,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	hc := health.New()
	hc.RegisterCheck("store", func() error {
		_, err := os.Stat(cfg.StorePath)
		return err
	})

	handler := httptransport.NewHandler(engine, log)
	router := httptransport.NewRouter(handler, hc, m, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
