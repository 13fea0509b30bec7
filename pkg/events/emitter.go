package events

import (
	"encoding/json"
	"time"

	"github.com/fystack/appstate/pkg/common/constant"
	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/storage"
)

// Publisher is the subset of *nats.Conn the emitter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Emitter interface {
	EmitFlush(backend string, results []storage.FlushResult) error
	Emit(event StoreEvent) error
	Close()
}

type emitter struct {
	pub           Publisher
	subjectPrefix string
}

func NewEmitter(pub Publisher, subjectPrefix string) Emitter {
	return &emitter{
		pub:           pub,
		subjectPrefix: subjectPrefix,
	}
}

func (e *emitter) EmitFlush(backend string, results []storage.FlushResult) error {
	event := StoreEvent{
		Type:      enum.StoreEventFlush,
		Backend:   backend,
		Written:   make([]string, 0, len(results)),
		Timestamp: time.Now().UTC().Unix(),
	}
	for _, r := range results {
		if r.OK() {
			event.Written = append(event.Written, r.Key)
			continue
		}
		if event.Failed == nil {
			event.Failed = make(map[string]string)
		}
		event.Failed[r.Key] = r.Err.Error()
	}
	return e.Emit(event)
}

func (e *emitter) Emit(event StoreEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.pub.Publish(e.subject(event.Type), data)
}

func (e *emitter) subject(t enum.StoreEventType) string {
	if t == enum.StoreEventFlush {
		return e.subjectPrefix + "." + constant.FlushSubject
	}
	return e.subjectPrefix + "." + string(t)
}

// Close flushes and then drains the publisher when it supports it (*nats.Conn
// does). Drain on a NATS connection returns before it completes, so the
// flush is what guarantees the server has every event before exit.
func (e *emitter) Close() {
	if f, ok := e.pub.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			logger.Warn("Failed to flush event publisher", "err", err)
		}
	}
	if d, ok := e.pub.(interface{ Drain() error }); ok {
		if err := d.Drain(); err != nil {
			logger.Warn("Failed to drain event publisher", "err", err)
		}
	}
}

// FlushHook adapts an Emitter to storage.WithFlushHook. Publish failures are
// logged; they never affect the flush.
func FlushHook(e Emitter, backend string) func([]storage.FlushResult) {
	return func(results []storage.FlushResult) {
		if err := e.EmitFlush(backend, results); err != nil {
			logger.Warn("Failed to emit flush event", "backend", backend, "err", err)
		}
	}
}
