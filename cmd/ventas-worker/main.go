package main

import (
	"context"
	"os"
	"time"

	"ventas/internal/amqp"
	"ventas/internal/cli"
	applog "ventas/internal/log"
	"ventas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting ventas-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitBackend(context.Background(), logger, cfg)
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	svc := cli.NewReportService(result.Backend, cfg, logger)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close failed", applog.FieldError, err.Error())
		}
	})

	refreshWorker := worker.NewRefreshWorker(svc, logger)

	go func() {
		if err := amqpClient.ConsumeReportRefresh(ctx, refreshWorker.HandleRefreshMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", applog.FieldError, err.Error())
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
