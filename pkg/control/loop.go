package control

import "context"

// Loop is the single UI thread. Widget events, render calls and the
// completions of remote calls are all posted to it, so that widget
// state is only ever touched by one goroutine.
type Loop struct {
	queue chan func()
}

// NewLoop creates a loop able to buffer size pending functions.
func NewLoop(size int) *Loop {
	return &Loop{queue: make(chan func(), size)}
}

// Post queues fn to run on the loop. It blocks when the queue is full.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Run runs queued functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Drain runs every function currently queued and returns how many
// were run. It is used where no Run goroutine exists, such as tests.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}
