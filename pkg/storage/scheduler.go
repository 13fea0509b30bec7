package storage

import "time"

// Timer is a pending delayed call that can be cancelled.
type Timer interface {
	// Stop prevents the call from running. It reports false when the call
	// already ran or was already stopped.
	Stop() bool
}

// Scheduler creates the store's debounce timer.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
