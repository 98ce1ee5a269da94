// Package context provides context helpers for the jobs package.
package context

import (
	"context"
)

// JobContextKey is the key for storing job context in context.Context.
type JobContextKey struct{}

// JobContext describes the job a queue is executing.
type JobContext struct {
	QueueID string
	JobName string
	// Attempt is 1 for the first run; retry wrappers increment it.
	Attempt int
}

// GetJobContext retrieves the job context from a context.Context.
func GetJobContext(ctx context.Context) *JobContext {
	if jc, ok := ctx.Value(JobContextKey{}).(*JobContext); ok {
		return jc
	}
	return nil
}

// WithJobContext adds job context to a context.Context.
func WithJobContext(ctx context.Context, jc *JobContext) context.Context {
	return context.WithValue(ctx, JobContextKey{}, jc)
}

// WithAttempt returns a context whose job context reports the given attempt.
// The parent's job context is copied, never mutated.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	jc := JobContext{Attempt: attempt}
	if parent := GetJobContext(ctx); parent != nil {
		jc.QueueID = parent.QueueID
		jc.JobName = parent.JobName
	}
	return WithJobContext(ctx, &jc)
}
