// Package schedule provides cancellable delayed tasks. The config store's
// save debounce and the renderer's load watchdog are built on it so tests
// can drive time by hand.
package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a scheduled function that has not necessarily run yet.
type Task interface {
	// Stop prevents the task from running. It reports whether the call
	// stopped the task, false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

var realClock = clockwork.NewRealClock()

// Real schedules on the runtime timer. Functions run on their own goroutine.
type Real struct{}

// AfterFunc schedules f on the wall clock.
func (Real) AfterFunc(d time.Duration, f func()) Task {
	return realClock.AfterFunc(d, f)
}

// Manual is a Scheduler on a fake clock that only moves when Advance is
// called. Advance returns once every task it made due has finished.
type Manual struct {
	clock *clockwork.FakeClock
	start time.Time

	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	m        *Manual
	due      time.Time
	timer    clockwork.Timer
	done     chan struct{}
	fired    bool
	stopped  bool
	finished bool
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	clock := clockwork.NewFakeClock()
	return &Manual{clock: clock, start: clock.Now()}
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Task {
	t := &manualTask{m: m, done: make(chan struct{})}

	m.mu.Lock()
	defer m.mu.Unlock()
	t.due = m.clock.Now().Add(d)
	m.tasks = append(m.tasks, t)
	t.timer = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		t.fired = true
		m.mu.Unlock()

		defer func() {
			m.mu.Lock()
			t.finished = true
			m.mu.Unlock()
			close(t.done)
		}()
		f()
	})
	return t
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired || !t.timer.Stop() {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d. Tasks that fall due run in due
// order, each deadline's tasks finishing before the clock moves on, so
// tasks scheduled by running tasks are honoured inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		due := m.nextDue(target)
		if len(due) == 0 {
			break
		}
		if step := due[0].due.Sub(m.clock.Now()); step > 0 {
			m.clock.Advance(step)
		}
		for _, t := range due {
			<-t.done
		}
	}
	if rest := target.Sub(m.clock.Now()); rest > 0 {
		m.clock.Advance(rest)
	}
}

// nextDue drops settled tasks and returns the unfinished ones sharing the
// earliest deadline at or before target.
func (m *Manual) nextDue(target time.Time) []*manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.tasks[:0]
	var earliest time.Time
	for _, t := range m.tasks {
		if t.stopped || t.finished {
			continue
		}
		live = append(live, t)
		if !t.due.After(target) && (earliest.IsZero() || t.due.Before(earliest)) {
			earliest = t.due
		}
	}
	m.tasks = live
	if earliest.IsZero() {
		return nil
	}

	var due []*manualTask
	for _, t := range m.tasks {
		if t.due.Equal(earliest) {
			due = append(due, t)
		}
	}
	return due
}

// Pending returns the number of tasks that have neither run nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	return m.clock.Now().Sub(m.start)
}
