package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greven/forex"
	"github.com/greven/forex/internal/config"
	"github.com/greven/forex/pkg/logger"
)

// main runs the fetcher as a long-lived daemon, exposing only /metrics
// and /health — this module's real surface is the forex.Client Go API
// (spec.md section 1: "exposes... to in-process callers"), so unlike
// the teacher's router this binary carries no REST endpoints for rates
// or conversion.
func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("starting forex daemon")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	client, err := forex.New(
		forex.WithAutoStart(cfg.Fetcher.AutoStart),
		forex.WithUseCache(cfg.Fetcher.UseCache),
		forex.WithSchedulerInterval(cfg.Fetcher.SchedulerInterval),
		forex.WithCachePath(cfg.Cache.Path),
		forex.WithLogLevel(cfg.LogLevel),
	)
	if err != nil {
		log.Error("failed to start forex client", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(client.MetricsRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := client.LatestRates(r.Context(), forex.WithCallUseCache(true)); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("starting metrics server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down forex daemon...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server forced to shutdown", "error", err)
	}

	if err := client.Close(); err != nil {
		log.Error("failed to stop forex client cleanly", "error", err)
		os.Exit(1)
	}

	log.Info("forex daemon exited")
}
