// Package handler provides reflection-based job function adaptation for the jobs package.
package handler

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler holds metadata about an adapted job function.
type Handler struct {
	Fn         reflect.Value
	HasContext bool
	HasResult  bool
	HasError   bool
}

// NewHandler creates a Handler from a function.
// The function may take no arguments or a single context.Context, and may
// return nothing, error, T, or (T, error).
func NewHandler(fn any) (*Handler, error) {
	if fn == nil {
		return nil, fmt.Errorf("job function cannot be nil")
	}

	fnVal := reflect.ValueOf(fn)

	// Check for typed nil (e.g., var fn func() = nil)
	if !fnVal.IsValid() || (fnVal.Kind() == reflect.Func && fnVal.IsNil()) {
		return nil, fmt.Errorf("job function cannot be nil")
	}

	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("job must be a function")
	}

	h := &Handler{Fn: fnVal}

	switch fnType.NumIn() {
	case 0:
	case 1:
		if !fnType.In(0).Implements(contextType) {
			return nil, fmt.Errorf("job function argument must be context.Context")
		}
		h.HasContext = true
	default:
		return nil, fmt.Errorf("job function must have 0-1 arguments")
	}

	switch fnType.NumOut() {
	case 0:
	case 1:
		if fnType.Out(0) == errorType {
			h.HasError = true
		} else {
			h.HasResult = true
		}
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("job function must return (T, error)")
		}
		h.HasResult = true
		h.HasError = true
	default:
		return nil, fmt.Errorf("job function must return at most (T, error)")
	}

	return h, nil
}

// Execute runs the function with the given context.
func (h *Handler) Execute(ctx context.Context) (any, error) {
	// A zero Handler has no function to call.
	if !h.Fn.IsValid() || h.Fn.IsNil() {
		return nil, fmt.Errorf("job function is nil or invalid")
	}

	var args []reflect.Value
	if h.HasContext {
		args = append(args, reflect.ValueOf(ctx))
	}

	results := h.Fn.Call(args)

	var result any
	if h.HasResult && results[0].CanInterface() {
		result = results[0].Interface()
	}
	if h.HasError {
		if errVal := results[len(results)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	return result, nil
}

// Func returns the handler as a core.Func.
func (h *Handler) Func() core.Func {
	return h.Execute
}

// Adapt converts fn into a core.Func. A core.Func (or a function with the
// identical signature) is returned as is.
func Adapt(fn any) (core.Func, error) {
	switch f := fn.(type) {
	case core.Func:
		if f == nil {
			return nil, fmt.Errorf("job function cannot be nil")
		}
		return f, nil
	case func(context.Context) (any, error):
		if f == nil {
			return nil, fmt.Errorf("job function cannot be nil")
		}
		return f, nil
	}

	h, err := NewHandler(fn)
	if err != nil {
		return nil, err
	}
	return h.Func(), nil
}
