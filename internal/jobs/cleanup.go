package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// JobNameCleanupSessions deletes expired identity sessions.
const JobNameCleanupSessions = "cleanup:expired_sessions"

// SessionPurger removes expired identity sessions.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// NewSessionCleanupJob builds the job that deletes expired sessions. It should
// run on a slow schedule (e.g., hourly).
func NewSessionCleanupJob(purger SessionPurger, interval time.Duration, logger *slog.Logger) Job {
	if logger == nil {
		logger = slog.Default()
	}
	return Job{
		Name:     JobNameCleanupSessions,
		Interval: interval,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			removed, err := purger.PurgeExpired(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge expired sessions: %w", err)
			}
			if removed > 0 {
				logger.Info("expired sessions deleted", "count", removed)
			}
			return nil
		},
	}
}
