package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"time"
	"unicode/utf8"

	jobs "github.com/jdziat/simple-sequential-jobs"
	"github.com/jdziat/simple-sequential-jobs/pkg/history"
	"github.com/jdziat/simple-sequential-jobs/pkg/retry"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

const maxDerivedNameLength = 64

// runner executes shell commands through a manual queue.
type runner struct {
	shell    string
	failFast bool
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
	recorder *history.Recorder
}

// summary is the result of one run.
type summary struct {
	Done     int
	Failed   []string
	Stopped  bool
	Duration time.Duration
}

var errJobsFailed = errors.New("one or more jobs failed")

func (s summary) err() error {
	if len(s.Failed) > 0 {
		return fmt.Errorf("%w: %v", errJobsFailed, s.Failed)
	}
	return nil
}

// run executes specs in order and returns once the queue drains, a job fails
// in fail-fast mode, or ctx is cancelled.
func (r *runner) run(ctx context.Context, id string, delay time.Duration, specs []CommandSpec) (summary, error) {
	if len(specs) == 0 {
		return summary{}, errNoCommands
	}

	initial := make([]*jobs.Job, len(specs))
	for i, spec := range specs {
		initial[i] = r.command(spec)
	}

	q := jobs.New(
		jobs.ID(id),
		jobs.Auto(false),
		jobs.Throw(false),
		jobs.Delay(delay),
		jobs.Jobs(initial...),
		jobs.WithLogger(r.logger),
		jobs.WithScheduler(jobs.InlineScheduler{}),
	)
	for _, t := range jobs.EventTypes {
		q.On(t, r.logEvent)
	}
	if r.recorder != nil {
		detach := r.recorder.Attach(q)
		defer detach()
	}

	var s summary
	start := time.Now()
	stop := func(err error) (summary, error) {
		s.Stopped = true
		q.Clear()
		s.Duration = time.Since(start)
		return s, err
	}

	for !q.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return stop(err)
		}
		out, err := q.Next(ctx)
		if err != nil {
			return stop(err)
		}
		if out == nil {
			break
		}
		if err := ctx.Err(); err != nil {
			// The command was killed by the cancellation, not by its own failure.
			return stop(err)
		}
		if out.Failed() {
			s.Failed = append(s.Failed, out.Name)
			if r.failFast {
				s.Stopped = !q.IsEmpty()
				q.Clear()
				break
			}
			continue
		}
		s.Done++
	}

	s.Duration = time.Since(start)
	return s, nil
}

// command builds the job that runs one shell command.
func (r *runner) command(spec CommandSpec) *jobs.Job {
	name := spec.Name
	if name == "" {
		name = deriveName(spec.Run)
	}

	fn := func(ctx context.Context) (any, error) {
		if spec.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
			defer cancel()
		}

		cmd := exec.CommandContext(ctx, r.shell, "-c", spec.Run)
		cmd.Dir = spec.Dir
		// Children of a killed shell may hold the output pipes open.
		cmd.WaitDelay = time.Second
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
		if len(spec.Env) > 0 {
			cmd.Env = append(os.Environ(), envList(spec.Env)...)
		}

		start := time.Now()
		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == 127 {
				// Command not found never succeeds on retry.
				return nil, jobs.NoRetry(err)
			}
			return nil, err
		}
		return time.Since(start).Round(time.Millisecond).String(), nil
	}

	if spec.Retries > 0 {
		cfg := retry.DefaultConfig()
		cfg.MaxAttempts = spec.Retries + 1
		return jobs.NewJob(name, retry.Func(fn, cfg))
	}
	return jobs.NewJob(name, fn)
}

func (r *runner) logEvent(e jobs.Event) {
	switch e.Type {
	case jobs.EventExecute:
		r.logger.Info("running", "job", e.Detail.Name)
	case jobs.EventDone:
		r.logger.Info("finished", "job", e.Detail.Name, "took", e.Detail.Result)
	case jobs.EventFail:
		r.logger.Error("failed", "job", e.Detail.Name, "error", e.Detail.Error)
	case jobs.EventClear:
		if e.Detail.Count > 0 {
			r.logger.Warn("skipping remaining jobs", "count", e.Detail.Count)
		}
	case jobs.EventEnd:
		r.logger.Info("all jobs settled", "queue", e.ID)
	}
}

// deriveName makes a job name from a command line.
func deriveName(run string) string {
	name := security.SanitizeJobName(run)
	if utf8.RuneCountInString(name) > maxDerivedNameLength {
		runes := []rune(name)
		name = string(runes[:maxDerivedNameLength-3]) + "..."
	}
	return name
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "=" + env[k]
	}
	return out
}
