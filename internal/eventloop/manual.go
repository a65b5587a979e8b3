package eventloop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by hand. Callbacks only run inside Advance,
// which makes timer-dependent behaviour deterministic in tests.
type Manual struct {
	now     time.Time
	seq     int
	pending []*manualTimer
}

// NewManual returns a Manual scheduler starting at a fixed instant.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) After(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls
// due in order. Callbacks scheduled while advancing run too if they are due.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.due
		next.stopped = true
		next.fn()
	}
	m.now = end
}

// Pending returns the number of scheduled callbacks that have not run or
// been stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(end time.Time) *manualTimer {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.pending = live
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due.Equal(m.pending[j].due) {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].due.Before(m.pending[j].due)
	})
	if len(m.pending) == 0 || m.pending[0].due.After(end) {
		return nil
	}
	return m.pending[0]
}

type manualTimer struct {
	due     time.Time
	seq     int
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
