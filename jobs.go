// Package jobs provides a sequential job queue: an ordered list of jobs
// executed strictly one at a time, with typed lifecycle events.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	q := jobs.New(jobs.Delay(time.Second))
//
//	q.On(jobs.EventDone, func(e jobs.Event) {
//	    log.Println(e.Detail.Name, "returned", e.Detail.Result)
//	})
//
//	q.Add(
//	    jobs.Do("fetch", func(ctx context.Context) (string, error) {
//	        return fetch(ctx)
//	    }),
//	    jobs.Do("notify", notify),
//	)
//
// Manual mode runs one job per call to Next:
//
//	q := jobs.New(jobs.Auto(false))
//	q.Add(job)
//	out, err := q.Next(ctx)
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	"github.com/jdziat/simple-sequential-jobs/pkg/jobctx"
	"github.com/jdziat/simple-sequential-jobs/pkg/queue"
	"github.com/jdziat/simple-sequential-jobs/pkg/retry"
	"github.com/jdziat/simple-sequential-jobs/pkg/schedule"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

type (
	// Queue executes jobs one at a time in FIFO order.
	Queue = queue.Queue

	// Option configures a Queue.
	Option = queue.Option

	// Options holds queue configuration.
	Options = queue.Options

	// ListenerID identifies a registered listener.
	ListenerID = queue.ListenerID

	// Job is a deferred unit of work.
	Job = core.Job

	// Func is the function a Job runs.
	Func = core.Func

	// Outcome is the tagged settlement of one job.
	Outcome = core.Outcome

	// State is the queue's lifecycle state.
	State = core.State

	// Event is a lifecycle notification.
	Event = core.Event

	// EventType names an event.
	EventType = core.EventType

	// Detail carries event-specific data.
	Detail = core.Detail

	// Listener receives events.
	Listener = core.Listener

	// Awaiter is a deferred job result.
	Awaiter = core.Awaiter

	// Deferred is a one-shot result cell a job can return.
	Deferred = core.Deferred

	// Scheduler posts the queue's boot task and run loop.
	Scheduler = core.Scheduler

	// GoScheduler runs posted tasks in new goroutines.
	GoScheduler = core.GoScheduler

	// InlineScheduler runs posted tasks on the caller's goroutine.
	InlineScheduler = core.InlineScheduler

	// JobError is returned by Next when a manual queue propagates a failure.
	JobError = core.JobError

	// PanicError wraps a value recovered from a panicking job.
	PanicError = core.PanicError

	// NoRetryError indicates an error that should not be retried.
	NoRetryError = core.NoRetryError

	// RetryAfterError indicates an error that should be retried after a delay.
	RetryAfterError = core.RetryAfterError

	// RetryConfig configures job-level retries.
	RetryConfig = retry.Config

	// Schedule defines when a scheduled job is added next.
	Schedule = schedule.Schedule

	// Feeder adds jobs to a queue on a schedule.
	Feeder = schedule.Feeder
)

// States
const (
	StateWaiting = core.StateWaiting
	StateRunning = core.StateRunning
	StatePaused  = core.StatePaused
)

// Event types
const (
	EventAdd     = core.EventAdd
	EventClear   = core.EventClear
	EventDone    = core.EventDone
	EventEnd     = core.EventEnd
	EventExecute = core.EventExecute
	EventFail    = core.EventFail
	EventInfo    = core.EventInfo
	EventNext    = core.EventNext
	EventPause   = core.EventPause
	EventStart   = core.EventStart
	EventWait    = core.EventWait
)

// Info event messages
const (
	MessageEmpty    = core.MessageEmpty
	MessageNotStart = core.MessageNotStart
)

// UnnamedJob is the display name of a job without a name.
const UnnamedJob = core.UnnamedJob

// DefaultID is the identifier of a queue created without ID.
const DefaultID = queue.DefaultID

// Security limits
const (
	MaxQueueIDLength      = security.MaxQueueIDLength
	MaxJobNameLength      = security.MaxJobNameLength
	MaxRetries            = security.MaxRetries
	MaxErrorMessageLength = security.MaxErrorMessageLength
	MaxDelay              = security.MaxDelay
)

// EventTypes lists every event type in the vocabulary.
var EventTypes = core.EventTypes

// Error variables
var (
	ErrNilJob          = core.ErrNilJob
	ErrInvalidQueueID  = core.ErrInvalidQueueID
	ErrQueueIDTooLong  = core.ErrQueueIDTooLong
	ErrJobNameTooLong  = core.ErrJobNameTooLong
	ErrInvalidJobFunc  = core.ErrInvalidJobFunc
	ErrRetriesExceeded = core.ErrRetriesExceeded
)

// New creates a Queue.
func New(opts ...Option) *Queue {
	return queue.New(opts...)
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return queue.NewOptions()
}

// NewJob creates a job from a core Func.
func NewJob(name string, fn Func) *Job {
	return core.NewJob(name, fn)
}

// Do creates a job from any supported function shape: func(), func() error,
// func() T, func() (T, error), or any of those taking a leading
// context.Context. It panics if fn has an unsupported signature.
func Do(name string, fn any) *Job {
	return queue.Do(name, fn)
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred {
	return core.NewDeferred()
}

// Queue option functions

// Auto sets whether the queue runs by itself.
func Auto(enabled bool) Option {
	return queue.Auto(enabled)
}

// Delay sets the minimum gap between one job finishing and the next starting.
func Delay(d time.Duration) Option {
	return queue.Delay(d)
}

// ID sets the queue identifier carried by every event.
func ID(id string) Option {
	return queue.ID(id)
}

// Jobs sets the initial jobs.
func Jobs(jobs ...*Job) Option {
	return queue.Jobs(jobs...)
}

// Listen registers a listener before the queue emits its first event.
func Listen(t EventType, l Listener) Option {
	return queue.Listen(t, l)
}

// Throw sets whether a manual queue's Next returns job failures as errors.
func Throw(enabled bool) Option {
	return queue.Throw(enabled)
}

// WithLogger sets the queue's logger.
func WithLogger(l *slog.Logger) Option {
	return queue.WithLogger(l)
}

// WithScheduler sets how the boot task and run loop are posted.
func WithScheduler(s Scheduler) Option {
	return queue.WithScheduler(s)
}

// WithContext sets the context the run loop runs under.
func WithContext(ctx context.Context) Option {
	return queue.WithContext(ctx)
}

// Retry helpers

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// WithRetry wraps a job so a failure is retried with backoff before it settles.
func WithRetry(job *Job, config RetryConfig) *Job {
	return retry.Wrap(job, config)
}

// NoRetry wraps an error to indicate it should not be retried.
func NoRetry(err error) error {
	return core.NoRetry(err)
}

// RetryAfter wraps an error to indicate it should be retried after a delay.
func RetryAfter(d time.Duration, err error) error {
	return core.RetryAfter(d, err)
}

// Schedule functions

// Every creates a schedule that fires at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that fires at a specific time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Weekly creates a schedule that fires at a specific day and time each week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule.Weekly(day, hour, minute)
}

// Cron creates a schedule from a cron expression.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}

// NewFeeder creates a Feeder that adds scheduled jobs to q.
func NewFeeder(q *Queue, opts ...schedule.FeederOption) *Feeder {
	return schedule.NewFeeder(q, opts...)
}

// Context accessors

// QueueIDFromContext returns the ID of the queue running the current job.
func QueueIDFromContext(ctx context.Context) string {
	return jobctx.QueueIDFromContext(ctx)
}

// JobNameFromContext returns the display name of the current job.
func JobNameFromContext(ctx context.Context) string {
	return jobctx.JobNameFromContext(ctx)
}

// AttemptFromContext returns the current attempt, starting at 1.
func AttemptFromContext(ctx context.Context) int {
	return jobctx.AttemptFromContext(ctx)
}

// Validation

// ValidateQueueID validates a queue identifier.
func ValidateQueueID(id string) error {
	return security.ValidateQueueID(id)
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage.
func SanitizeErrorMessage(msg string) string {
	return security.SanitizeErrorMessage(msg)
}
