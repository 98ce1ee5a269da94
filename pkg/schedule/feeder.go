package schedule

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

// Adder accepts jobs. *queue.Queue satisfies it.
type Adder interface {
	Add(jobs ...*core.Job)
}

// Builder creates the job to append for one firing of a schedule.
// Returning nil skips the firing.
type Builder func(firedAt time.Time) *core.Job

type feed struct {
	name     string
	schedule Schedule
	build    Builder
	nextRun  time.Time
}

// Feeder appends jobs to a queue whenever their schedule comes due.
type Feeder struct {
	adder        Adder
	pollInterval time.Duration
	logger       *slog.Logger
	now          func() time.Time

	mu    sync.Mutex
	feeds map[string]*feed
}

// FeederOption configures a Feeder.
type FeederOption func(*Feeder)

// PollInterval sets how often the feeder checks for due schedules.
func PollInterval(d time.Duration) FeederOption {
	return func(f *Feeder) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// WithLogger sets the feeder's logger. Nil is ignored.
func WithLogger(l *slog.Logger) FeederOption {
	return func(f *Feeder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClock overrides the feeder's time source.
func WithClock(now func() time.Time) FeederOption {
	return func(f *Feeder) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFeeder creates a Feeder appending to adder.
func NewFeeder(adder Adder, opts ...FeederOption) *Feeder {
	f := &Feeder{
		adder:        adder,
		pollInterval: 100 * time.Millisecond,
		logger:       slog.Default(),
		now:          time.Now,
		feeds:        make(map[string]*feed),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register adds or replaces a named feed. The first firing is the
// schedule's next time after registration.
func (f *Feeder) Register(name string, s Schedule, build Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds[name] = &feed{
		name:     name,
		schedule: s,
		build:    build,
		nextRun:  s.Next(f.now()),
	}
}

// Remove deletes a named feed. It reports whether the feed existed.
func (f *Feeder) Remove(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.feeds[name]
	delete(f.feeds, name)
	return ok
}

// NextRun returns when a named feed fires next.
func (f *Feeder) NextRun(name string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, ok := f.feeds[name]
	if !ok {
		return time.Time{}, false
	}
	return fd.nextRun, true
}

// Start polls for due feeds. Blocks until ctx is cancelled.
func (f *Feeder) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Tick()
		}
	}
}

// Tick appends a job for every feed that is due and returns how many were added.
// Feeds fire in name order; a feed that missed several firings fires once.
func (f *Feeder) Tick() int {
	now := f.now()

	f.mu.Lock()
	due := make([]*feed, 0, len(f.feeds))
	for _, fd := range f.feeds {
		if !now.Before(fd.nextRun) {
			due = append(due, fd)
			fd.nextRun = fd.schedule.Next(now)
		}
	}
	f.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].name < due[j].name })

	added := 0
	for _, fd := range due {
		job := fd.build(now)
		if job == nil || job.Fn == nil {
			f.logger.Warn("scheduled feed built no job", "name", fd.name)
			continue
		}
		f.adder.Add(job)
		added++
		f.logger.Debug("scheduled job added", "name", fd.name, "job", job.DisplayName())
	}
	return added
}
