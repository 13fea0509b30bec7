package main

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fystack/appstate/pkg/events"
	"github.com/fystack/appstate/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	calls    []string
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	p.calls = append(p.calls, "publish")
	return nil
}

func (p *recordingPublisher) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "flush")
	return nil
}

func (p *recordingPublisher) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "drain")
	return nil
}

func TestSession_CloseDeliversFlushEventBeforeDrain(t *testing.T) {
	backend, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	pub := &recordingPublisher{}
	sess := newSession(backend, time.Hour, pub, "appstate")

	sess.SetItem("foo", "bar")
	require.NoError(t, sess.Close())

	assert.Equal(t, []string{"publish", "flush", "drain"}, pub.calls)
	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "appstate.flush", pub.subjects[0])

	var event events.StoreEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &event))
	assert.Equal(t, []string{"foo"}, event.Written)
	assert.Equal(t, "file", event.Backend)

	data, err := backend.Read("foo")
	require.NoError(t, err)
	assert.Equal(t, `"bar"`, string(data))
}

func TestSession_WithoutPublisher(t *testing.T) {
	backend, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	sess := newSession(backend, time.Hour, nil, "appstate")
	sess.SetItem("foo", 1)
	require.NoError(t, sess.Close())

	assert.Equal(t, float64(1), sess.GetItem("foo", nil))
}
