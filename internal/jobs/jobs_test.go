package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/telemetry"
)

type fakeSweeper struct {
	n    int
	idle time.Duration
}

func (f *fakeSweeper) Sweep(idle time.Duration) int {
	f.idle = idle
	return f.n
}

func TestSweepJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewBusinessMetrics(reg, "law7a")

	carts := &fakeSweeper{n: 3}
	checkouts := &fakeSweeper{n: 0}
	job := NewSweepJob(SweepConfig{
		Idle:       30 * time.Minute,
		Interval:   time.Minute,
		Registries: map[string]Sweeper{"carts": carts, "checkouts": checkouts},
		Metrics:    metrics,
	})

	assert.Equal(t, JobNameSweepVisitors, job.Name)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 30*time.Minute, carts.idle)
	assert.Equal(t, 30*time.Minute, checkouts.idle)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SessionsSwept.WithLabelValues("carts")))
}

func TestSweepJob_Cancelled(t *testing.T) {
	carts := &fakeSweeper{n: 1}
	job := NewSweepJob(SweepConfig{Registries: map[string]Sweeper{"carts": carts}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Zero(t, carts.idle)
}

type purgerFunc func(ctx context.Context) (int, error)

func (f purgerFunc) PurgeExpired(ctx context.Context) (int, error) { return f(ctx) }

func TestSessionCleanupJob(t *testing.T) {
	job := NewSessionCleanupJob(purgerFunc(func(ctx context.Context) (int, error) {
		return 4, nil
	}), time.Hour, nil)
	assert.Equal(t, time.Hour, job.Interval)
	assert.NoError(t, job.Run(context.Background()))

	failing := NewSessionCleanupJob(purgerFunc(func(ctx context.Context) (int, error) {
		return 0, errors.New("store offline")
	}), time.Hour, nil)
	err := failing.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store offline")
}
