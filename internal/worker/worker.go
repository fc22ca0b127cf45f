// Package worker runs the periodic background jobs in-process.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/jobs"
	"github.com/dukerupert/law7a/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// MaxConcurrency is the maximum number of jobs to run concurrently
	MaxConcurrency int

	// ShutdownTimeout bounds the wait for in-flight jobs on shutdown
	ShutdownTimeout time.Duration
}

// Worker runs each job on its own interval.
type Worker struct {
	config Config
	jobs   []jobs.Job
	logger *slog.Logger
}

// NewWorker creates a new background job worker
func NewWorker(config Config, logger *slog.Logger, js ...jobs.Job) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 2
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config: config,
		jobs:   js,
		logger: logger.With("worker_id", config.WorkerID),
	}
}

// Start runs jobs until the context is cancelled, then waits for in-flight
// runs up to ShutdownTimeout.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"jobs", len(w.jobs),
		"max_concurrency", w.config.MaxConcurrency,
	)

	sem := make(chan struct{}, w.config.MaxConcurrency)
	var inflight sync.WaitGroup
	var loops sync.WaitGroup

	for _, job := range w.jobs {
		if job.Interval <= 0 || job.Run == nil {
			w.logger.Warn("job skipped: no interval or run function", "job", job.Name)
			continue
		}
		loops.Add(1)
		go func(job jobs.Job) {
			defer loops.Done()
			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					select {
					case sem <- struct{}{}:
						inflight.Add(1)
						go func() {
							defer inflight.Done()
							defer func() { <-sem }()
							w.run(ctx, job)
						}()
					default:
						w.logger.Debug("job skipped: at max concurrency", "job", job.Name)
					}
				}
			}
		}(job)
	}

	<-ctx.Done()
	loops.Wait()
	w.logger.Info("worker shutting down")

	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(w.config.ShutdownTimeout):
		w.logger.Warn("worker shutdown timed out with jobs still running")
	}
	return ctx.Err()
}

// RunOnce runs every job a single time, in order. It is used at startup and
// in tests.
func (w *Worker) RunOnce(ctx context.Context) {
	for _, job := range w.jobs {
		if job.Run != nil {
			w.run(ctx, job)
		}
	}
}

// run executes one job with its timeout. A panicking job is logged and
// reported; it does not stop the worker.
func (w *Worker) run(ctx context.Context, job jobs.Job) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("job %s panicked: %v", job.Name, p)
			w.logger.Error("job panicked", "job", job.Name, "panic", p)
			telemetry.CaptureError(err, map[string]interface{}{"job": job.Name})
		}
	}()

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		w.logger.Error("job failed", "job", job.Name, "error", err)
		telemetry.CaptureError(err, map[string]interface{}{"job": job.Name})
		return
	}
	w.logger.Debug("job completed", "job", job.Name, "duration", time.Since(start))
}
