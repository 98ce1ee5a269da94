package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	intctx "github.com/jdziat/simple-sequential-jobs/pkg/internal/context"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

// Queue holds an ordered list of jobs and executes them one at a time,
// emitting an event on every lifecycle transition.
type Queue struct {
	id     string
	auto   bool
	delay  time.Duration
	logger *slog.Logger
	sched  core.Scheduler
	ctx    context.Context
	bus    *bus

	// step serialises Next so that at most one job is in flight.
	step sync.Mutex

	mu      sync.Mutex
	jobs    []*core.Job
	current *core.Job
	state   core.State
	last    time.Time
	throw   bool
	looping bool
}

// New creates a Queue. Invalid options (a bad ID or a nil initial job) panic.
//
// After New returns, a posted task emits EventWait if the queue is empty and
// calls Start if the queue is automatic.
func New(opts ...Option) *Queue {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}

	if err := security.ValidateQueueID(o.ID); err != nil {
		panic(fmt.Sprintf("jobs: invalid queue id %q: %v", o.ID, err))
	}
	if err := validateJobs(o.Jobs); err != nil {
		panic(fmt.Sprintf("jobs: queue %q: %v", o.ID, err))
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	q := &Queue{
		id:     o.ID,
		auto:   o.Auto,
		delay:  o.Delay,
		logger: logger.With("queue", o.ID),
		sched:  o.Scheduler,
		ctx:    o.Context,
		bus:    newBus(),
		jobs:   append([]*core.Job(nil), o.Jobs...),
		state:  core.StateWaiting,
		throw:  o.Throw,
	}

	for _, l := range o.Listeners {
		q.bus.on(l.Type, l.Listener)
	}

	q.sched.Post(q.boot)
	return q
}

func validateJobs(jobs []*core.Job) error {
	for _, j := range jobs {
		if j == nil || j.Fn == nil {
			return core.ErrNilJob
		}
		if err := security.ValidateJobName(j.Name); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queue) boot() {
	if q.IsEmpty() {
		q.emit(core.EventWait, core.Detail{})
	}
	if q.auto {
		q.Start()
	}
}

// ID returns the queue identifier.
func (q *Queue) ID() string {
	return q.id
}

// State returns the current state.
func (q *Queue) State() core.State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// IsEmpty reports whether no jobs are pending.
func (q *Queue) IsEmpty() bool {
	return q.Size() == 0
}

// IsRunning reports whether the run loop holds control.
func (q *Queue) IsRunning() bool {
	return q.State() == core.StateRunning
}

// IsWaiting reports whether the queue is idle.
func (q *Queue) IsWaiting() bool {
	return q.State() == core.StateWaiting
}

// IsPaused reports whether the queue is paused.
func (q *Queue) IsPaused() bool {
	return q.State() == core.StatePaused
}

// Size returns the number of pending jobs.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Timeout returns how long the next job would wait before executing.
func (q *Queue) Timeout() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.timeoutLocked()
}

func (q *Queue) timeoutLocked() time.Duration {
	return max(0, q.delay-time.Since(q.last))
}

// Current returns the name of the executing job and whether one is executing.
func (q *Queue) Current() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return "", false
	}
	return q.current.DisplayName(), true
}

// SetThrow toggles whether failures propagate from Next in manual mode.
func (q *Queue) SetThrow(enabled bool) {
	q.mu.Lock()
	q.throw = enabled
	q.mu.Unlock()
}

// On registers a listener for an event type.
func (q *Queue) On(t core.EventType, l core.Listener) ListenerID {
	return q.bus.on(t, l)
}

// Off removes a listener. It reports whether the listener was registered.
func (q *Queue) Off(t core.EventType, id ListenerID) bool {
	return q.bus.off(t, id)
}

// Events returns a channel receiving every event the queue emits.
// Events are dropped when the channel is full.
// The caller must call Unsubscribe when done to prevent resource leaks.
func (q *Queue) Events() <-chan core.Event {
	return q.bus.subscribe(100)
}

// Unsubscribe removes a subscriber channel created by Events().
// The channel is not closed.
func (q *Queue) Unsubscribe(ch <-chan core.Event) {
	q.bus.unsubscribe(ch)
}

func (q *Queue) emit(t core.EventType, d core.Detail) {
	q.logger.Debug("queue event", "event", string(t))
	q.bus.publish(core.Event{
		Type:      t,
		ID:        q.id,
		Detail:    d,
		Timestamp: time.Now(),
	})
}

func (q *Queue) info(message string) {
	q.emit(core.EventInfo, core.Detail{Message: message})
}

// Add appends jobs to the tail of the queue. An automatic queue that is
// waiting starts. A nil job or nil job function panics.
func (q *Queue) Add(jobs ...*core.Job) {
	if err := validateJobs(jobs); err != nil {
		panic(fmt.Sprintf("jobs: queue %q: %v", q.id, err))
	}

	q.mu.Lock()
	q.jobs = append(q.jobs, jobs...)
	q.mu.Unlock()

	q.emit(core.EventAdd, core.Detail{Count: len(jobs)})

	if q.auto && q.IsWaiting() {
		q.Start()
	}
}

// Start launches the run loop. It is a no-op, reported as an EventInfo with
// core.MessageNotStart, when the queue is already running or empty.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.state == core.StateRunning || len(q.jobs) == 0 {
		q.mu.Unlock()
		q.info(core.MessageNotStart)
		return
	}
	count := len(q.jobs)
	q.state = core.StateRunning
	// A loop that is still settling its last job picks the new state up itself.
	launch := !q.looping
	q.looping = true
	q.mu.Unlock()

	q.emit(core.EventStart, core.Detail{Count: count})
	q.logger.Debug("run loop starting", "count", count)

	if launch {
		q.sched.Post(q.run)
	}
}

// Resume restarts a paused queue. It behaves exactly like Start.
func (q *Queue) Resume() {
	q.Start()
}

// Pause stops the run loop from pulling further jobs.
// A job that is already executing is not interrupted.
func (q *Queue) Pause() {
	q.mu.Lock()
	q.state = core.StatePaused
	q.mu.Unlock()
	q.emit(core.EventPause, core.Detail{})
}

// Clear discards every pending job and forces the queue to waiting.
// A job that is already executing is not interrupted.
func (q *Queue) Clear() {
	q.mu.Lock()
	count := len(q.jobs)
	q.jobs = nil
	q.current = nil
	q.state = core.StateWaiting
	q.mu.Unlock()
	q.emit(core.EventClear, core.Detail{Count: count})
}

// Back puts the executing job back at the head of the queue so it runs
// again after it settles. It has no effect when no job is executing.
func (q *Queue) Back() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current != nil {
		q.jobs = append([]*core.Job{q.current}, q.jobs...)
	}
}

func (q *Queue) propagates() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.auto && q.throw
}

// Next executes the job at the head of the queue and returns its outcome.
//
// An empty queue emits EventInfo with core.MessageEmpty and returns (nil, nil).
// A failing job yields an Outcome carrying the error, except when the queue is
// manual and Throw is enabled, in which case a *core.JobError is returned.
// If ctx is done while waiting out the spacing delay the job is put back at
// the head and ctx.Err() is returned.
//
// Calls are serialised; Next must not be called from a listener or from a
// job of the same queue.
func (q *Queue) Next(ctx context.Context) (*core.Outcome, error) {
	out, err := q.next(ctx)
	if err != nil || out == nil {
		return out, err
	}
	if out.Failed() && q.propagates() {
		return nil, &core.JobError{Name: out.Name, Err: out.Error}
	}
	return out, nil
}

func (q *Queue) next(ctx context.Context) (*core.Outcome, error) {
	q.step.Lock()
	defer q.step.Unlock()

	if q.IsEmpty() {
		q.info(core.MessageEmpty)
		return nil, nil
	}

	q.emit(core.EventNext, core.Detail{})

	q.mu.Lock()
	if len(q.jobs) == 0 {
		// Cleared by a next listener.
		q.mu.Unlock()
		return nil, nil
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	q.current = job
	wait := q.timeoutLocked()
	q.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			q.mu.Lock()
			if q.current == job {
				q.current = nil
				q.jobs = append([]*core.Job{job}, q.jobs...)
			}
			q.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	out := q.execute(ctx, job)
	q.finalize()
	return out, nil
}

// execute runs one job and reports its settlement as a tagged Outcome.
func (q *Queue) execute(ctx context.Context, job *core.Job) *core.Outcome {
	name := job.DisplayName()
	q.emit(core.EventExecute, core.Detail{Name: name})

	jobCtx := intctx.WithJobContext(ctx, &intctx.JobContext{
		QueueID: q.id,
		JobName: name,
		Attempt: 1,
	})

	start := time.Now()
	result, err := invoke(jobCtx, job.Fn)
	if err != nil {
		q.logger.Warn("job failed", "job", name, "error", err, "duration", time.Since(start))
		q.emit(core.EventFail, core.Detail{Name: name, Error: err})
		return core.Failure(name, err)
	}

	q.logger.Debug("job done", "job", name, "duration", time.Since(start))
	q.emit(core.EventDone, core.Detail{Name: name, Result: result})
	return core.Success(name, result)
}

// invoke calls fn, awaiting deferred results and recovering panics.
func invoke(ctx context.Context, fn core.Func) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &core.PanicError{Value: r}
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		return nil, err
	}
	if a, ok := result.(core.Awaiter); ok {
		return a.Await(ctx)
	}
	return result, nil
}

func (q *Queue) finalize() {
	q.mu.Lock()
	q.last = time.Now()
	q.current = nil
	drained := len(q.jobs) == 0
	if drained {
		q.state = core.StateWaiting
	}
	q.mu.Unlock()

	if drained {
		q.emit(core.EventEnd, core.Detail{})
		q.emit(core.EventWait, core.Detail{})
	}
}

// run is the run loop: one step at a time until paused or drained.
func (q *Queue) run() {
	for {
		if err := q.ctx.Err(); err != nil {
			q.stopLoop(err)
			return
		}

		q.mu.Lock()
		if q.state == core.StatePaused || len(q.jobs) == 0 {
			q.looping = false
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		if _, err := q.next(q.ctx); err != nil {
			q.stopLoop(err)
			return
		}
	}
}

func (q *Queue) stopLoop(err error) {
	q.logger.Info("run loop stopped", "error", err)
	q.mu.Lock()
	q.looping = false
	q.mu.Unlock()
	q.Pause()
}
