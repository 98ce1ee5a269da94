// Package core provides the domain models and interfaces for the jobs package.
package core

import (
	"context"
)

// UnnamedJob is reported as the job name when a job carries no name.
const UnnamedJob = "UNNAMED"

// Func is the body of a job. The context carries job metadata and the
// caller's cancellation; the queue never cancels a job once it has started.
type Func func(ctx context.Context) (any, error)

// Job represents a unit of work to be processed.
// A job has no identity beyond its position in a queue.
type Job struct {
	Name string
	Fn   Func
}

// NewJob creates a named job.
func NewJob(name string, fn Func) *Job {
	return &Job{Name: name, Fn: fn}
}

// DisplayName returns the job name, or UnnamedJob if it has none.
func (j *Job) DisplayName() string {
	if j == nil || j.Name == "" {
		return UnnamedJob
	}
	return j.Name
}

// Awaiter is implemented by deferred results. When a job returns a value
// implementing Awaiter, the job settles with whatever Await returns.
type Awaiter interface {
	Await(ctx context.Context) (any, error)
}

// Scheduler decides when a posted task runs. Whether it may start before
// the posting call returns depends on the implementation.
type Scheduler interface {
	Post(task func())
}

// GoScheduler runs every posted task in its own goroutine.
//
// Ordering is best effort: the goroutine may start before the posting call
// returns, so a queue's boot task can interleave with an Add or Pause made
// right after New. Use InlineScheduler, or a Scheduler that queues tasks
// until the caller drains them, when the order must be deterministic.
type GoScheduler struct{}

// Post runs task in a new goroutine.
func (GoScheduler) Post(task func()) {
	go task()
}

// InlineScheduler runs every posted task immediately on the caller's
// goroutine. With an automatic queue, Start then returns only after the
// run loop exits.
type InlineScheduler struct{}

// Post runs task before returning.
func (InlineScheduler) Post(task func()) {
	task()
}
