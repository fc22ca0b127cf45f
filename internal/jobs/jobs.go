// Package jobs defines the periodic maintenance jobs the worker runs.
package jobs

import (
	"context"
	"time"
)

// Job is a unit of periodic background work.
type Job struct {
	// Name identifies the job in logs.
	Name string

	// Interval is the pause between runs.
	Interval time.Duration

	// Timeout bounds a single run. Zero means Interval.
	Timeout time.Duration

	// Run does the work once.
	Run func(ctx context.Context) error
}
