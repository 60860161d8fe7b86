// Package worker runs background jobs on fixed intervals.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// ReportExporter defines the interface for generating performance reports.
type ReportExporter interface {
	Export(ctx context.Context, asOf time.Time) error
}

// ReportWorker periodically exports the portfolio performance report.
type ReportWorker struct {
	exporter ReportExporter
	interval time.Duration
}

// NewReportWorker creates a new ReportWorker.
func NewReportWorker(exporter ReportExporter, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		exporter: exporter,
		interval: interval,
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the report worker loop. It blocks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	slog.Info("ReportWorker: starting")

	// Export immediately on startup
	if err := w.exporter.Export(ctx, utcDate()); err != nil {
		slog.Error("ReportWorker: initial export failed", "error", err)
	} else {
		slog.Info("ReportWorker: initial export completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.exporter.Export(ctx, utcDate()); err != nil {
				slog.Error("ReportWorker: export failed", "error", err)
			} else {
				slog.Info("ReportWorker: export completed")
			}
		}
	}
}
