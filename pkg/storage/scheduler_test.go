package storage

import (
	"sync"
	"time"
)

// manualScheduler records timers and only fires them when told to.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	sched   *manualScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{sched: m, delay: d, fn: f}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// RunPending fires every timer that is neither stopped nor already fired and
// returns how many ran.
func (m *manualScheduler) RunPending() int {
	m.mu.Lock()
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Active counts timers still waiting to fire.
func (m *manualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Created counts every timer ever scheduled.
func (m *manualScheduler) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
