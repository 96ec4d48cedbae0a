package workers

import (
	"campus-live/observability"
	"context"
	"log/slog"
	"time"
)

// StatsWorker periodically refreshes the process-level sample (RSS, CPU)
// behind the debug dashboard.
type StatsWorker struct {
	log      *slog.Logger
	stats    *observability.Stats
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, stats *observability.Stats, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, stats: stats, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info("Starting stats sampler", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping stats sampler")
			return nil
		case <-ticker.C:
			w.stats.Sample()
		}
	}
}
