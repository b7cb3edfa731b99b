package daemon

import (
	"context"
	"log/slog"
	"time"
)

// PruneFunc drops state kept for windows that have closed and reports how
// many entries it removed.
type PruneFunc func() (int, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically forgets per-window state for closed windows.
type Reconciler struct {
	interval time.Duration
	prune    PruneFunc
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, prune PruneFunc) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		prune:    prune,
		logger:   logger,
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() int {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	removed, err := r.prune()
	if err != nil {
		r.logger.Warn("reconciler: failed to list windows", "error", err)
		return 0
	}
	if removed > 0 {
		r.logger.Debug("reconciler: forgot closed windows", "count", removed)
	}
	return removed
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
