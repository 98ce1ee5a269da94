package queue

import (
	"fmt"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	"github.com/jdziat/simple-sequential-jobs/pkg/internal/handler"
)

// MakeJob creates a job from any supported function shape: func(),
// func() error, func() T, func() (T, error), or any of those taking a
// leading context.Context.
func MakeJob(name string, fn any) (*core.Job, error) {
	f, err := handler.Adapt(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: job %q: %v", core.ErrInvalidJobFunc, name, err)
	}
	return core.NewJob(name, f), nil
}

// Do is like MakeJob but panics on an unsupported function.
func Do(name string, fn any) *core.Job {
	job, err := MakeJob(name, fn)
	if err != nil {
		panic(err.Error())
	}
	return job
}
