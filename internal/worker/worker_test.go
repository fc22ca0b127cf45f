package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/jobs"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_RunsJobsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	job := jobs.Job{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(Config{}, quietLogger(), job)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_RunOnceSurvivesFailures(t *testing.T) {
	var ran []string
	w := NewWorker(Config{WorkerID: "test"}, quietLogger(),
		jobs.Job{Name: "fails", Run: func(ctx context.Context) error {
			ran = append(ran, "fails")
			return errors.New("nope")
		}},
		jobs.Job{Name: "panics", Run: func(ctx context.Context) error {
			ran = append(ran, "panics")
			panic("boom")
		}},
		jobs.Job{Name: "ok", Run: func(ctx context.Context) error {
			ran = append(ran, "ok")
			return nil
		}},
	)

	assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
	assert.Equal(t, []string{"fails", "panics", "ok"}, ran)
}

func TestWorker_JobTimeout(t *testing.T) {
	var deadline atomic.Bool
	w := NewWorker(Config{}, quietLogger(), jobs.Job{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		},
	})

	w.RunOnce(context.Background())
	assert.True(t, deadline.Load())
}
