// Package handler provides reflection-based job function adaptation for the jobs package.
//
// This package is internal and should not be imported directly.
// It turns plain Go functions of several shapes into core.Func values:
//   - func(), func() error, func() T, func() (T, error)
//   - the same shapes with a leading context.Context argument
package handler
