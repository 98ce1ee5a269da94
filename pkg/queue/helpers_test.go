package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

// manualScheduler queues posted tasks until drain is called.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (s *manualScheduler) Post(task func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
}

// drain runs posted tasks in order, including tasks posted while draining.
func (s *manualScheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()
		task()
	}
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// recorder collects events from a queue.
type recorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recorder) record(e core.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) listen(q *Queue, types ...core.EventType) {
	for _, t := range types {
		q.On(t, r.record)
	}
}

func (r *recorder) options(types ...core.EventType) []Option {
	opts := make([]Option, 0, len(types))
	for _, t := range types {
		opts = append(opts, Listen(t, r.record))
	}
	return opts
}

func (r *recorder) types() []core.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) ofType(t core.EventType) []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func value(v any) *core.Job {
	return core.NewJob("", func(context.Context) (any, error) { return v, nil })
}

func failing(name string, err error) *core.Job {
	return core.NewJob(name, func(context.Context) (any, error) { return nil, err })
}

// signal returns a listener that closes ch on its first call.
func signal(ch chan struct{}) core.Listener {
	var once sync.Once
	return func(core.Event) { once.Do(func() { close(ch) }) }
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for "+what)
	}
}

// newBootedQueue creates an automatic queue on the goroutine scheduler and
// waits for the post-construction boot task to finish.
func newBootedQueue(t *testing.T, opts ...Option) *Queue {
	t.Helper()
	booted := make(chan struct{})
	opts = append(opts, Listen(core.EventInfo, signal(booted)))
	q := New(opts...)
	waitFor(t, booted, "boot")
	return q
}
