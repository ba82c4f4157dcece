package worker

import (
	"context"
	"log/slog"
	"time"
)

// Pruner removes tasks that finished before a cutoff.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
}

// Janitor periodically drops finished tasks older than the retention period.
type Janitor struct {
	pruner    Pruner
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

func NewJanitor(pruner Pruner, retention, interval time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

// Enabled reports whether a retention period is configured.
func (j *Janitor) Enabled() bool {
	return j.retention > 0 && j.interval > 0
}

// Run prunes on every tick until ctx is canceled. It returns immediately when
// retention is disabled.
func (j *Janitor) Run(ctx context.Context) error {
	if !j.Enabled() {
		j.logger.Debug("task retention disabled")
		return nil
	}

	j.logger.Info("janitor started", "retention", j.retention, "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return nil
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.pruner.Prune(ctx, j.retention)
	if err != nil {
		j.logger.Error("prune tasks", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("pruned finished tasks", "count", removed)
	}
}
