package core

import (
	"context"
	"sync"
)

// Deferred is a one-shot result cell. The first call to Resolve or Reject
// settles it; later calls are ignored.
type Deferred struct {
	once   sync.Once
	done   chan struct{}
	result any
	err    error
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolve settles the Deferred with a result.
func (d *Deferred) Resolve(result any) {
	d.once.Do(func() {
		d.result = result
		close(d.done)
	})
}

// Reject settles the Deferred with an error.
func (d *Deferred) Reject(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Done returns a channel that is closed once the Deferred is settled.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Await blocks until the Deferred settles or ctx is done.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.result, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
