package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		l.Post(func() { got <- i })
	}
	for want := 1; want <= 3; want++ {
		select {
		case v := <-got:
			if v != want {
				t.Fatalf("task order: got %d, want %d", v, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for task")
		}
	}

	l.Close()
	if err := <-errc; !errors.Is(err, ErrClosed) {
		t.Errorf("Run returned %v, want ErrClosed", err)
	}
	if l.Post(func() {}) {
		t.Error("Post after Close should return false")
	}
}

func TestLoopTimerStopPreventsCallback(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	fired := make(chan struct{}, 1)
	stopped := make(chan bool, 1)
	l.Post(func() {
		tm := l.After(10*time.Millisecond, func() { fired <- struct{}{} })
		stopped <- tm.Stop()
	})
	if !<-stopped {
		t.Fatal("Stop on a pending timer should report true")
	}

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopTimerFires(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	fired := make(chan struct{}, 1)
	l.After(5*time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestManualAdvance(t *testing.T) {
	m := NewManual()
	var order []string

	m.After(2*time.Second, func() { order = append(order, "b") })
	m.After(time.Second, func() {
		order = append(order, "a")
		m.After(500*time.Millisecond, func() { order = append(order, "a2") })
	})
	stop := m.After(1500*time.Millisecond, func() { order = append(order, "never") })
	stop.Stop()

	m.Advance(999 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("nothing should run yet, got %v", order)
	}
	m.Advance(2 * time.Second)

	want := []string{"a", "a2", "b"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
	if m.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", m.Pending())
	}
}

func TestLoopSurvivesPanickingTask(t *testing.T) {
	l := New(8)
	recovered := make(chan any, 1)
	l.OnPanic(func(v any) { recovered <- v })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Post(func() {
		var opts []string
		_ = opts[5]
	})
	ran := make(chan struct{})
	l.Post(func() { close(ran) })

	select {
	case v := <-recovered:
		if v == nil {
			t.Error("panic hook got nil value")
		}
	case <-time.After(time.Second):
		t.Fatal("panic hook not called")
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task after panic did not run")
	}
}
