// Package storage implements a debounced key-value store for application
// state. Writes are buffered in memory and flushed to a kvstore.Backend
// after a quiet period; reads only ever see flushed data.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fystack/appstate/pkg/common/constant"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/common/types"
	"github.com/fystack/appstate/pkg/infra"
	"github.com/fystack/appstate/pkg/kvstore"
)

var ErrClosed = errors.New("store is closed")

// FlushResult is the outcome of writing one key during a flush.
type FlushResult struct {
	Key string
	Err error
}

func (r FlushResult) OK() bool {
	return r.Err == nil
}

type Store struct {
	backend kvstore.Backend
	codec   infra.Codec
	delay   time.Duration
	sched   Scheduler
	onFlush func([]FlushResult)
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]any
	timer   Timer
	gen     uint64 // bumped on every reschedule; stale timers compare unequal
	closed  bool

	// serializes flushes
	flushMu sync.Mutex
}

// New opens a file-backed store rooted at basePath, creating the directory
// and its parents if needed. An error here means the store is unusable.
func New(basePath string, opts ...Option) (*Store, error) {
	backend, err := kvstore.NewFileStore(basePath)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, opts...), nil
}

// NewWithBackend builds a store that flushes into backend.
func NewWithBackend(backend kvstore.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		codec:   infra.JSON,
		delay:   constant.DefaultDebounce,
		sched:   realScheduler{},
		log:     logger.L(),
		pending: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "storage", "backend", backend.GetName())
	return s
}

// Backend returns the committed-state layer the store flushes into.
func (s *Store) Backend() kvstore.Backend {
	return s.backend
}

// SetItem buffers value under key and restarts the debounce timer. Nothing
// is written until no SetItem has happened for the debounce period; then all
// pending keys are flushed together.
func (s *Store) SetItem(key string, value any) {
	if key == "" {
		s.log.Error("Dropping item", "err", kvstore.ErrKeyEmpty)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Error("Dropping item", "key", key, "err", ErrClosed)
		return
	}
	s.pending[key] = value
	s.scheduleLocked()
}

func (s *Store) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.sched.AfterFunc(s.delay, func() {
		s.fire(gen)
	})
}

// GetItem returns the flushed value for key. Values still waiting for the
// debounce timer are not visible. Any failure (missing, unreadable or
// malformed entry) is logged and defaultValue is returned.
func (s *Store) GetItem(key string, defaultValue any) any {
	data, err := s.backend.Read(key)
	if err != nil {
		s.log.Error("Failed to read item", "key", key, "err", err)
		return defaultValue
	}

	var value any
	if err := s.codec.Unmarshal(data, &value); err != nil {
		s.log.Error("Failed to parse item", "key", key, "err", err)
		return defaultValue
	}
	return value
}

// GetAs is GetItem decoding into T.
func GetAs[T any](s *Store, key string, defaultValue T) T {
	data, err := s.backend.Read(key)
	if err != nil {
		s.log.Error("Failed to read item", "key", key, "err", err)
		return defaultValue
	}

	var value T
	if err := s.codec.Unmarshal(data, &value); err != nil {
		s.log.Error("Failed to parse item", "key", key, "err", err)
		return defaultValue
	}
	return value
}

// Keys lists the keys that have been flushed.
func (s *Store) Keys() ([]string, error) {
	return s.backend.Keys()
}

// Pending returns how many keys are waiting to be flushed.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Store) fire(gen uint64) {
	s.flushMu.Lock()

	s.mu.Lock()
	if gen != s.gen || s.closed {
		// superseded by a later SetItem, or drained by Close
		s.mu.Unlock()
		s.flushMu.Unlock()
		return
	}
	batch := s.takePendingLocked()
	s.mu.Unlock()

	results := s.flush(batch)
	s.flushMu.Unlock()

	s.notify(results)
}

func (s *Store) takePendingLocked() map[string]any {
	batch := s.pending
	s.pending = make(map[string]any)
	s.timer = nil
	return batch
}

// flush writes every key in batch independently. Failed keys are logged and
// reported, never retried.
func (s *Store) flush(batch map[string]any) []FlushResult {
	if len(batch) == 0 {
		return nil
	}

	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	results := make([]FlushResult, 0, len(keys))
	for _, key := range keys {
		err := s.write(key, batch[key])
		if err != nil {
			s.log.Error("Failed to write item", "key", key, "err", err)
		}
		results = append(results, FlushResult{Key: key, Err: err})
	}

	s.log.Debug("Flushed pending items", "count", len(results))
	return results
}

// notify runs the flush hook. Callers must not hold flushMu, so a hook may
// call back into the store, Close included.
func (s *Store) notify(results []FlushResult) {
	if s.onFlush != nil && len(results) > 0 {
		s.onFlush(results)
	}
}

func (s *Store) write(key string, value any) error {
	data, err := s.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.backend.Write(key, data)
}

// Close cancels the debounce timer, flushes whatever is pending and closes
// the backend. Later SetItem calls are dropped. The returned error collects
// every key that failed to flush and any backend close error.
func (s *Store) Close() error {
	s.flushMu.Lock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.flushMu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	batch := s.takePendingLocked()
	s.mu.Unlock()

	merr := &types.MultiError{}
	results := s.flush(batch)
	for _, r := range results {
		if r.Err != nil {
			merr.Add(fmt.Errorf("flush %s: %w", r.Key, r.Err))
		}
	}
	if err := s.backend.Close(); err != nil {
		merr.Add(fmt.Errorf("close backend: %w", err))
	}
	s.flushMu.Unlock()

	s.notify(results)
	return merr.ErrOrNil()
}
