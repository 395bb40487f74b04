// Command ventas-import loads an Excel workbook into the SQLite store and
// publishes refresh messages so running servers drop their cached reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ventas/internal/amqp"
	"ventas/internal/cli"
	"ventas/internal/importer"
	applog "ventas/internal/log"
	"ventas/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	noPublish := flag.Bool("no-publish", false, "skip publishing refresh messages")
	timeout := flag.Duration("timeout", 5*time.Minute, "import timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <workbook.xlsx>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := cli.LoadAndValidateConfig(logger)

	// The importer writes tables, so it always talks to SQLite directly
	// regardless of the configured read backend.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var publisher importer.Publisher
	if !*noPublish && cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, importing without refresh messages",
				applog.FieldError, err.Error())
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	imp := importer.New(repo, publisher, logger)
	summary, err := imp.ImportWorkbook(ctx, path)
	if err != nil {
		logger.Error("Import failed", applog.FieldError, err.Error(), "workbook", path)
		os.Exit(1)
	}

	logger.Info("Import complete", applog.FieldBatchID, summary.BatchID, "workbook", path)
	for table, rows := range summary.Tables {
		logger.Info("Imported table", applog.FieldTable, table, applog.FieldRowCount, rows)
	}
}
