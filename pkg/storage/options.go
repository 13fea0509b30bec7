package storage

import (
	"log/slog"
	"time"

	"github.com/fystack/appstate/pkg/infra"
)

type Option func(*Store)

// WithDebounce sets the quiet period after the last SetItem before pending
// writes are flushed.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func WithCodec(c infra.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithScheduler replaces the timer source, mainly so tests can fire the
// debounce timer by hand.
func WithScheduler(sched Scheduler) Option {
	return func(s *Store) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithFlushHook registers fn to receive the per-key results of every flush
// that wrote at least one key. fn runs on the flushing goroutine after the
// flush lock is released, so it may call back into the store (Close
// included). Hooks from back-to-back flushes are not ordered.
func WithFlushHook(fn func([]FlushResult)) Option {
	return func(s *Store) {
		s.onFlush = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
