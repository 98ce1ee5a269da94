// Package jobctx provides public access to job context for job functions.
package jobctx

import (
	"context"

	intctx "github.com/jdziat/simple-sequential-jobs/pkg/internal/context"
)

// QueueIDFromContext returns the ID of the queue executing the current job,
// or empty string if not called from a job.
func QueueIDFromContext(ctx context.Context) string {
	jc := intctx.GetJobContext(ctx)
	if jc == nil {
		return ""
	}
	return jc.QueueID
}

// JobNameFromContext returns the display name of the current job,
// or empty string if not called from a job.
func JobNameFromContext(ctx context.Context) string {
	jc := intctx.GetJobContext(ctx)
	if jc == nil {
		return ""
	}
	return jc.JobName
}

// AttemptFromContext returns the current attempt, starting at 1.
// Returns 0 if not called from a job.
func AttemptFromContext(ctx context.Context) int {
	jc := intctx.GetJobContext(ctx)
	if jc == nil {
		return 0
	}
	return jc.Attempt
}

// InJob reports whether ctx belongs to a job executed by a queue.
func InJob(ctx context.Context) bool {
	return intctx.GetJobContext(ctx) != nil
}
