package scheduler

import "context"

// Job is a unit of background work executed by the worker pool. Sync jobs
// are the only implementation today, but cleanup or notification jobs can
// plug in behind the same interface.
type Job interface {
	// Execute runs the job. Implementations must respect the context for
	// cancellation and timeouts.
	Execute(ctx context.Context) error

	// ItemID returns the item this job operates on, for logging.
	ItemID() string

	// Description returns a human-readable description of the job.
	Description() string
}
