package sqleton

import (
	"context"
	"io"
)

// Future is the pending result of a render started with Start.
type Future struct {
	done chan struct{}
	err  error
}

// Start runs Render in its own goroutine and returns immediately.
// If cb is non-nil it is called exactly once, after the render finishes,
// with the same error Wait returns.
//
// There is no cancellation beyond ctx: abandoning the Future leaves the
// render running until its queries and writes return.
func Start(ctx context.Context, db *Database, w io.Writer, opts Options, cb func(error)) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		f.err = Render(ctx, db, w, opts)
		close(f.done)
		if cb != nil {
			cb(f.err)
		}
	}()

	return f
}

// Done is closed once the render has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the render has finished and returns its error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Err returns the render error, or nil while the render is still running.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
