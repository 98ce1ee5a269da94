// Package queue provides the Queue engine for the jobs package.
package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

// DefaultID is the queue identifier used when none is configured.
const DefaultID = "Queue"

// ListenerSpec pairs an event type with a listener registered at construction.
type ListenerSpec struct {
	Type     core.EventType
	Listener core.Listener
}

// Options holds configuration for queue construction.
type Options struct {
	// Auto starts the queue on construction and after each Add while waiting.
	Auto bool
	// Delay is the minimum spacing between the end of one job and the start of the next.
	Delay time.Duration
	// ID is attached to every emitted event.
	ID string
	// Jobs is the initial pending sequence.
	Jobs []*core.Job
	// Listeners are registered before the first emission.
	Listeners []ListenerSpec
	// Throw makes Next return job failures as errors when Auto is false.
	Throw bool

	Logger    *slog.Logger
	Scheduler core.Scheduler
	Context   context.Context
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Auto:      true,
		ID:        DefaultID,
		Throw:     true,
		Scheduler: core.GoScheduler{},
		Context:   context.Background(),
	}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// Auto sets whether the queue runs automatically.
func Auto(enabled bool) Option {
	return optionFunc(func(o *Options) {
		o.Auto = enabled
	})
}

// Delay sets the minimum spacing between consecutive jobs.
// Values are clamped to [0, security.MaxDelay].
func Delay(d time.Duration) Option {
	return optionFunc(func(o *Options) {
		o.Delay = security.ClampDelay(d)
	})
}

// ID sets the queue identifier.
func ID(id string) Option {
	return optionFunc(func(o *Options) {
		o.ID = id
	})
}

// Jobs sets the initial pending jobs.
func Jobs(jobs ...*core.Job) Option {
	return optionFunc(func(o *Options) {
		o.Jobs = append(o.Jobs, jobs...)
	})
}

// Listen registers a listener before the queue emits anything.
func Listen(t core.EventType, l core.Listener) Option {
	return optionFunc(func(o *Options) {
		o.Listeners = append(o.Listeners, ListenerSpec{Type: t, Listener: l})
	})
}

// Throw sets whether failures propagate from Next in manual mode.
func Throw(enabled bool) Option {
	return optionFunc(func(o *Options) {
		o.Throw = enabled
	})
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	})
}

// WithScheduler sets the scheduler deferred work is posted to. Nil is ignored.
func WithScheduler(s core.Scheduler) Option {
	return optionFunc(func(o *Options) {
		if s != nil {
			o.Scheduler = s
		}
	})
}

// WithContext sets the context the run loop passes to jobs.
// Once it is done the run loop stops pulling jobs and the queue pauses.
func WithContext(ctx context.Context) Option {
	return optionFunc(func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	})
}
