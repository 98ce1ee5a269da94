// Package retry wraps jobs so that a failing job is re-run with exponential
// backoff before its failure is reported to the queue.
//
// A wrapped job still counts as a single job: the queue emits one execute
// event and one done or fail event for it, however many attempts it takes.
// Errors wrapped with core.NoRetry stop retrying immediately; errors wrapped
// with core.RetryAfter override the next backoff.
package retry
