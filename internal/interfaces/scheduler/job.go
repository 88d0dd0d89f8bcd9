package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
// The status sweep is the only implementation today, but the interface
// keeps the pool reusable for other periodic work (cleanup, reminders).
type Job interface {
	// Execute runs the job with the given context.
	// Context should be respected for cancellation and timeouts.
	Execute(ctx context.Context) error

	// UserID returns the user ID associated with this job.
	// Used for logging and tracking whose data is being processed.
	UserID() string

	// Description returns a human-readable description of the job.
	Description() string
}
