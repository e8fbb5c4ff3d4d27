package control

import (
	"context"
	"sync"
	"time"
)

// Call is a single remote call.
type Call func(ctx context.Context) error

// Dispatcher issues remote calls on behalf of the Synchronizer.
// done is always invoked on the UI thread with the outcome of call.
type Dispatcher interface {
	Dispatch(name string, call Call, done func(error))
}

// Inline runs each call synchronously on the caller's goroutine.
type Inline struct {
	Timeout time.Duration
}

// Dispatch implements Dispatcher.
func (i Inline) Dispatch(_ string, call Call, done func(error)) {
	ctx, cancel := withTimeout(context.Background(), i.Timeout)
	defer cancel()
	done(call(ctx))
}

// Async runs calls one at a time on the goroutine started by Run,
// in the order they were dispatched, and posts each completion back
// to the loop. Dispatch never blocks the UI thread.
type Async struct {
	loop    *Loop
	timeout time.Duration

	mu      sync.Mutex
	pending []job
	wake    chan struct{}
}

type job struct {
	call Call
	done func(error)
}

// NewAsync creates a dispatcher posting completions to l. Each call
// is bounded by timeout, unless it is zero.
func NewAsync(l *Loop, timeout time.Duration) *Async {
	return &Async{
		loop:    l,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
	}
}

// Dispatch implements Dispatcher. Calls dispatched before Run starts
// are held until it does.
func (a *Async) Dispatch(_ string, call Call, done func(error)) {
	a.mu.Lock()
	a.pending = append(a.pending, job{call: call, done: done})
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Run issues queued calls until ctx is cancelled. Every call's
// context is derived from ctx.
func (a *Async) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		j, ok := a.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-a.wake:
			}
			continue
		}

		callCtx, cancel := withTimeout(ctx, a.timeout)
		err := j.call(callCtx)
		cancel()
		a.loop.Post(func() { j.done(err) })
	}
}

func (a *Async) next() (job, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return job{}, false
	}
	j := a.pending[0]
	a.pending[0] = job{}
	a.pending = a.pending[1:]
	return j, true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
