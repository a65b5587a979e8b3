// Package eventloop gives each play session a single goroutine on which
// input handlers and timer callbacks run one at a time, in order.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Run once the loop has been closed.
var ErrClosed = errors.New("eventloop: closed")

// Timer is a cancellable handle for a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer (false if it already ran or was stopped).
	Stop() bool
}

// Scheduler schedules callbacks that later run on the owning loop.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Loop serialises tasks onto a single goroutine started by Run.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	onPanic   func(v any)
}

// New creates a loop whose queue holds up to buffer pending tasks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// OnPanic sets the hook called when a task panics. The loop keeps running
// after the hook returns. It must be set before Run.
func (l *Loop) OnPanic(fn func(v any)) { l.onPanic = fn }

// Post queues fn. It blocks while the queue is full and returns false if
// the loop has been closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if v := recover(); v != nil && l.onPanic != nil {
			l.onPanic(v)
		}
	}()
	fn()
}

// Close stops the loop. Pending tasks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Now returns the wall clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// After runs fn on the loop once d has elapsed. A Stop issued from the loop
// goroutine before the callback runs always wins, even if the underlying
// timer already fired and queued the callback.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return lt
}

type loopTimer struct {
	t     *time.Timer
	fired atomic.Bool
}

func (lt *loopTimer) Stop() bool {
	lt.t.Stop()
	return lt.fired.CompareAndSwap(false, true)
}
