// Package context provides internal context helpers for job execution.
//
// This package is internal and should not be imported directly.
// It provides the context value type describing the job currently being
// executed: the owning queue, the job name, and the retry attempt.
package context
