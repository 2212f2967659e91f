package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called. Due
// callbacks run synchronously on the goroutine calling Advance, in due-time
// order. It is exported for tests in other packages.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	id       int
	due      time.Time
	interval time.Duration // zero for one-shot timers
	fn       func()
	active   bool
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers a one-shot callback.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Every registers a repeating callback. Non-positive intervals are treated
// as one nanosecond.
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

func (m *Manual) add(d, interval time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{clock: m, id: m.seq, due: m.now.Add(d), interval: interval, fn: fn, active: true}
	m.timers = append(m.timers, t)
	return t
}

// Stop deactivates the timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.active
	t.active = false
	return was
}

// Active returns the number of timers that have not fired (one-shot) or
// been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if t.active {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing every callback that comes due.
// Callbacks may register or stop timers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.active = false
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.active {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].id < m.timers[j].id
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})
	if len(m.timers) == 0 || m.timers[0].due.After(limit) {
		return nil
	}
	return m.timers[0]
}
