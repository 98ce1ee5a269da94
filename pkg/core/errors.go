package core

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors
var (
	ErrNilJob          = errors.New("jobs: job or job function is nil")
	ErrInvalidQueueID  = errors.New("jobs: invalid queue id (must be alphanumeric, start with letter)")
	ErrQueueIDTooLong  = errors.New("jobs: queue id too long")
	ErrJobNameTooLong  = errors.New("jobs: job name too long")
	ErrInvalidJobFunc  = errors.New("jobs: invalid job function")
	ErrRetriesExceeded = errors.New("jobs: retries exhausted")
)

// JobError is returned by a manually stepped queue when a job fails and
// failures are configured to propagate.
type JobError struct {
	Name string
	Err  error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("jobs: job %q failed: %v", e.Name, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// PanicError is the failure recorded when a job panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NoRetryError indicates an error that should not be retried.
type NoRetryError struct {
	Err error
}

func (e *NoRetryError) Error() string {
	return fmt.Sprintf("no retry: %v", e.Err)
}

func (e *NoRetryError) Unwrap() error {
	return e.Err
}

// NoRetry wraps an error to indicate it should not be retried.
func NoRetry(err error) error {
	return &NoRetryError{Err: err}
}

// RetryAfterError indicates an error that should be retried after a delay.
type RetryAfterError struct {
	Err   error
	Delay time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("retry after %v: %v", e.Delay, e.Err)
}

func (e *RetryAfterError) Unwrap() error {
	return e.Err
}

// RetryAfter wraps an error to indicate it should be retried after a delay.
func RetryAfter(d time.Duration, err error) error {
	return &RetryAfterError{Err: err, Delay: d}
}
