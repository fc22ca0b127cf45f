package jobs

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/dukerupert/law7a/internal/telemetry"
)

// JobNameSweepVisitors evicts idle per-visitor state.
const JobNameSweepVisitors = "sweep:visitors"

// Sweeper drops entries idle for longer than idle and returns how many.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// SweepConfig configures NewSweepJob.
type SweepConfig struct {
	// Idle is how long a visitor may be inactive before its state is dropped.
	Idle time.Duration

	// Interval is how often the registries are swept.
	Interval time.Duration

	// Registries maps a kind ("carts", "checkouts", "browsers") to its registry.
	Registries map[string]Sweeper

	Metrics *telemetry.BusinessMetrics
	Logger  *slog.Logger
}

// NewSweepJob builds the job that evicts idle carts, checkout sessions and
// search browsers. Persisted carts stay in the KV store and reload on the
// visitor's next request.
func NewSweepJob(cfg SweepConfig) Job {
	kinds := make([]string, 0, len(cfg.Registries))
	for kind := range cfg.Registries {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Job{
		Name:     JobNameSweepVisitors,
		Interval: cfg.Interval,
		Run: func(ctx context.Context) error {
			for _, kind := range kinds {
				if err := ctx.Err(); err != nil {
					return err
				}
				n := cfg.Registries[kind].Sweep(cfg.Idle)
				cfg.Metrics.RecordSwept(kind, n)
				if n > 0 {
					logger.Debug("swept idle visitor state", "kind", kind, "count", n)
				}
			}
			return nil
		},
	}
}
