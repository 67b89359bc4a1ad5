package schedule

import (
	"testing"
	"time"
)

func TestManual_RunsDueTasksInOrder(t *testing.T) {
	m := NewManual()
	var order []string

	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(15 * time.Millisecond)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("after 15ms order = %v, want [a]", order)
	}

	m.Advance(15 * time.Millisecond)
	if len(order) != 3 || order[1] != "b" || order[2] != "c" {
		t.Fatalf("after 30ms order = %v, want [a b c]", order)
	}
	if m.Now() != 30*time.Millisecond {
		t.Errorf("Now() = %v, want 30ms", m.Now())
	}
}

func TestManual_Stop(t *testing.T) {
	m := NewManual()
	ran := false
	task := m.AfterFunc(10*time.Millisecond, func() { ran = true })

	if !task.Stop() {
		t.Error("first Stop() should report true")
	}
	if task.Stop() {
		t.Error("second Stop() should report false")
	}

	m.Advance(time.Second)
	if ran {
		t.Error("stopped task should not run")
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual()
	task := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)

	if task.Stop() {
		t.Error("Stop() after the task ran should report false")
	}
}

func TestManual_TaskSchedulesTask(t *testing.T) {
	m := NewManual()
	count := 0
	m.AfterFunc(10*time.Millisecond, func() {
		count++
		m.AfterFunc(10*time.Millisecond, func() { count++ })
	})

	m.Advance(25 * time.Millisecond)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestManual_AdvanceWaitsForTasks(t *testing.T) {
	m := NewManual()
	finished := false
	m.AfterFunc(time.Millisecond, func() {
		time.Sleep(10 * time.Millisecond)
		finished = true
	})

	m.Advance(time.Millisecond)
	if !finished {
		t.Error("Advance should return after the due task finished")
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}

func TestReal_Stop(t *testing.T) {
	ran := make(chan struct{}, 1)
	task := Real{}.AfterFunc(time.Hour, func() { ran <- struct{}{} })
	if !task.Stop() {
		t.Error("Stop() on a pending real task should report true")
	}
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real task did not fire")
	}
}
