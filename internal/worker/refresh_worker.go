// Package worker consumes report refresh messages and keeps the report
// cache in step with imported data.
package worker

import (
	"context"
	"fmt"

	"ventas/internal/amqp"
	applog "ventas/internal/log"
)

// ReportRefresher is the slice of the report service the worker needs.
type ReportRefresher interface {
	Invalidate(ctx context.Context)
	Warm(ctx context.Context) error
}

// RefreshWorker invalidates and rewarms cached reports whenever an import
// batch lands.
type RefreshWorker struct {
	reports ReportRefresher
	logger  *applog.Logger
}

func NewRefreshWorker(reports ReportRefresher, logger *applog.Logger) *RefreshWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RefreshWorker{
		reports: reports,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleRefreshMessage processes one refresh message: drop every cached
// report, then rebuild the default one so the next request is warm.
func (w *RefreshWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.ReportRefreshMessage) error {
	w.logger.InfoContext(ctx, "Processing refresh message",
		applog.FieldOperation, applog.OpConsume,
		applog.FieldBatchID, msg.BatchID,
		applog.FieldTable, msg.Table,
		applog.FieldRowCount, msg.Rows)

	w.reports.Invalidate(ctx)

	if err := w.reports.Warm(ctx); err != nil {
		return fmt.Errorf("rewarm after batch %s: %w", msg.BatchID, err)
	}

	return nil
}
