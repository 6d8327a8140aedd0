package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner deletes archived results finished before cutoff.
type Pruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Worker struct {
	Pruner    Pruner
	Retention time.Duration
	Interval  time.Duration

	now func() time.Time
	log *zap.Logger
}

func NewWorker(p Pruner, retention, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Pruner:    p,
		Retention: retention,
		Interval:  interval,
		now:       time.Now,
		log:       logger.Named("cleanup"),
	}
}

// Run prunes once immediately and then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("background worker started", zap.Duration("interval", w.Interval), zap.Duration("retention", w.Retention))
	w.runCleanup(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("background worker stopped")
			return nil
		case <-ticker.C:
			w.runCleanup(ctx)
		}
	}
}

func (w *Worker) runCleanup(ctx context.Context) {
	if w.Retention <= 0 {
		return
	}

	cutoff := w.now().Add(-w.Retention)
	deleted, err := w.Pruner.PruneOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune results", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.log.Info("pruned archived results", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}
