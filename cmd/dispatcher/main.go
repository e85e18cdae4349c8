package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/dispatcher/internal/control"
	"github.com/vietddude/dispatcher/internal/core/config"
	"github.com/vietddude/dispatcher/internal/core/domain"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.json", "Path to configuration file")
	itemsPath := flag.String("items", "", "Path to JSON items file (default: generated batch)")
	count := flag.Int("count", 20, "Number of generated items when no items file is given")
	output := flag.String("output", "", "Results file path (overrides config)")
	drainDLQ := flag.Bool("drain-dlq", false, "Prepend items from the Redis dead-letter queue")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration first (before setting up logger)
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
		stylelog.InitDefault()
		slog.Warn("Config file not usable, using defaults", "path", *configPath, "error", err)
	}
	if *output != "" {
		cfg.Output.Path = *output
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	slog.Info("Logger initialized", "level", slogLevel.String())

	// Initialize Runner
	runner, err := control.NewRunner(cfg)
	if err != nil {
		slog.Error("Failed to initialize runner", "error", err)
		os.Exit(1)
	}

	// Setup context cancelled by OS signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, cancelling batch...", "signal", sig)
		cancel()
	}()

	// Assemble the batch
	var items []domain.WorkItem
	if *itemsPath != "" {
		items, err = control.LoadItems(*itemsPath)
		if err != nil {
			slog.Error("Failed to load items", "error", err)
			os.Exit(1)
		}
	} else {
		items = control.GenerateItems(*count)
	}

	if *drainDLQ {
		drained, err := runner.DrainDeadLetters(ctx)
		if err != nil {
			slog.Error("Failed to drain dead-letter queue", "error", err)
			os.Exit(1)
		}
		items = append(drained, items...)
	}

	// Run the batch
	summary, err := runner.Run(ctx, items)
	switch {
	case errors.Is(err, control.ErrNoSuccess):
		slog.Warn("No items processed successfully", "batch", summary.BatchID)
	case err != nil:
		slog.Error("Batch processing failed", "error", err)
		shutdown(runner)
		os.Exit(1)
	default:
		slog.Info("Processed items",
			"batch", summary.BatchID,
			"success", summary.Success,
			"failure", summary.Failure,
			"rejected", summary.Rejected,
		)
	}

	shutdown(runner)
}

func shutdown(runner *control.Runner) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := runner.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
