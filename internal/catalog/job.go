package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EventPublisher receives a notification after a successful import run.
type EventPublisher interface {
	CatalogImported(ctx context.Context, summary ImportSummary) error
}

// Job runs the catalog import: fetch the external feed, reconcile it against
// the local store, report. A failure to reach the source aborts the run
// before any write.
type Job struct {
	source     Source
	reconciler *Reconciler
	events     EventPublisher
}

// NewJob creates a new import job. A nil publisher disables events.
func NewJob(source Source, reconciler *Reconciler, events EventPublisher) *Job {
	return &Job{source: source, reconciler: reconciler, events: events}
}

// Run executes one import pass.
func (j *Job) Run(ctx context.Context) (ImportSummary, error) {
	start := time.Now()
	slog.Info("starting catalog import")

	externals, err := j.source.Fetch(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("fetch external catalog: %w", err)
	}

	summary, err := j.reconciler.Reconcile(ctx, externals)
	if err != nil {
		return summary, err
	}

	slog.Info("catalog import finished",
		"imported", summary.Imported,
		"total_seen", summary.TotalSeen,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if j.events != nil {
		if err := j.events.CatalogImported(ctx, summary); err != nil {
			slog.Warn("failed to publish catalog imported event", "error", err)
		}
	}

	return summary, nil
}
