package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgpcy/timesource"
	"github.com/zgpcy/timesource/internal/collector"
	"github.com/zgpcy/timesource/internal/config"
	"github.com/zgpcy/timesource/internal/logger"
	"github.com/zgpcy/timesource/internal/server"
	"github.com/zgpcy/timesource/internal/version"
)

var configPath = flag.String("config", "", "Path to configuration file (optional)")

func main() {
	flag.Parse()

	// Load configuration first (need log level from config)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)
	logger.Info("timesourced starting",
		"version", version.String(),
		"config_path", *configPath,
		"mode", cfg.Mode,
		"http_port", cfg.HTTPPort,
		"set_rate_limit", cfg.SetRateLimitRPS())

	src, setter := buildSource(cfg, logger)

	if err := prometheus.Register(collector.NewTimeSourceCollector(src, cfg.Mode, logger)); err != nil {
		logger.Error("Failed to register collector", "error", err)
		os.Exit(1)
	}

	// Register Go runtime metrics (memory, goroutines, GC stats)
	if err := prometheus.Register(prometheus.NewGoCollector()); err != nil {
		logger.Warn("Failed to register Go collector", "error", err)
	}

	// Register process metrics (CPU, memory, file descriptors)
	if err := prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{})); err != nil {
		logger.Warn("Failed to register process collector", "error", err)
	}

	srv := server.NewServer(cfg, src, setter, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("Server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		logger.Info("Received shutdown signal, starting graceful shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", "error", err)
			os.Exit(1)
		}

		logger.Info("Server stopped gracefully")
	}
}

// buildSource returns the configured time source and, in manual mode, the
// handle used to set it.
func buildSource(cfg *config.Config, log *logger.Logger) (timesource.TimeSource, server.Setter) {
	if cfg.Mode != config.ModeManual {
		return timesource.RealTimeSource{}, nil
	}

	shared := timesource.NewLocked(timesource.NewManualTimeSource())
	if initial, ok := cfg.InitialTime(); ok {
		shared.SetNow(initial)
		log.Info("Manual time source seeded", "time", initial.Format(time.RFC3339Nano))
	} else {
		log.Warn("Manual time source starts unset; GET /now returns 503 until PUT /now")
	}
	return shared, shared
}
