package main

import (
	"context"
	"errors"
	"os"

	"tracker/internal/amqp"
	"tracker/internal/cli"
	"tracker/internal/log"
	"tracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker, nil)
	cfg := cli.MustConfig(logger)

	logger.Info("Starting tracker-worker", "output_dir", cfg.ReportOutputDir)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.ReportOutputDir, 0o755); err != nil {
		logger.Error("Failed to create report directory", "error", err, "path", cfg.ReportOutputDir)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := worker.NewReportWorker(cfg.ReportOutputDir, logger.Logger)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	err = amqpClient.ConsumeTransactionEvents(ctx, reports.HandleTransactionEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", "sessions", reports.Sessions())
}
