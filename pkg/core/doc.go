// Package core provides the fundamental types for the jobs package.
//
// This package contains:
//   - Job and Func, the deferred unit of work a queue executes
//   - Deferred, a one-shot result cell for asynchronous jobs
//   - State, the queue state machine values
//   - Event types and the Listener signature used by the event bus
//   - Outcome, the tagged settlement of one executed job
//   - Error types for job execution
//
// Most users should import the root package github.com/jdziat/simple-sequential-jobs
// instead of this package directly.
package core
