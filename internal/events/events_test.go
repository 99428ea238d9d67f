package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/infrastructure/mqtt"
	"github.com/nerrad567/graystore/internal/store"
	"github.com/nerrad567/graystore/internal/store/storetest"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) got() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var fixed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestBackend(pub Publisher) *Backend {
	b := NewBackend(store.NewMemory(), pub, nil)
	b.now = func() time.Time { return fixed }
	return b
}

func TestBackend_Conformance(t *testing.T) {
	storetest.RunBackend(t, func(*testing.T) store.Backend {
		return NewBackend(store.NewMemory(), &recorder{}, nil)
	})
}

func TestBackend_TagOperations(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s, err := store.New(newTestBackend(rec), store.Config{})
	require.NoError(t, err)

	require.NoError(t, s.Tags().Update(ctx, "heads/dev", "abc123"))
	require.NoError(t, s.Tags().Remove(ctx, "heads/dev"))
	// absent: no event
	require.NoError(t, s.Tags().Remove(ctx, "heads/dev"))

	assert.Equal(t, []Event{
		{Type: TypeTagUpdated, Tag: "heads/dev", Key: "abc123", Timestamp: fixed},
		{Type: TypeTagRemoved, Tag: "heads/dev", Timestamp: fixed},
	}, rec.got())
}

func TestBackend_PathUpdateMovesBranch(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s, err := store.New(newTestBackend(rec), store.Config{})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, store.Path{"docs", "readme"}, "hi"))
	// unchanged write records nothing
	require.NoError(t, s.Update(ctx, store.Path{"docs", "readme"}, "hi"))

	head, err := s.Head(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)

	events := rec.got()
	require.Len(t, events, 1)
	assert.Equal(t, TypeTagUpdated, events[0].Type)
	assert.Equal(t, "main", events[0].Tag)
	assert.Equal(t, string(*head), events[0].Key)
}

func TestBackend_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{err: errors.New("broker down")}
	s, err := store.New(newTestBackend(rec), store.Config{})
	require.NoError(t, err)

	require.NoError(t, s.Tags().Update(ctx, "t", "aa"))
	k, err := s.Tags().Read(ctx, "t")
	require.NoError(t, err)
	require.NotNil(t, k)
	assert.Len(t, rec.got(), 1)
}

func TestBackend_CancelledContextStillPublishes(t *testing.T) {
	var seen error
	pub := PublisherFunc(func(ctx context.Context, _ Event) error {
		seen = ctx.Err()
		return nil
	})
	b := newTestBackend(pub)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.SetRef(ctx, "t", "aa"))
	cancel()
	_, err := b.DeleteRef(ctx, "t")
	require.NoError(t, err)
	assert.NoError(t, seen)
}

func TestBackend_NilPublisher(t *testing.T) {
	b := NewBackend(store.NewMemory(), nil, nil)
	require.NoError(t, b.SetRef(context.Background(), "t", "aa"))
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{err: errors.New("b failed")}
	c := &recorder{}
	f := Fanout{a, b, nil, c}

	err := f.Publish(context.Background(), Event{Type: TypeTagUpdated, Tag: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b failed")
	assert.Len(t, a.got(), 1)
	assert.Len(t, c.got(), 1, "later publishers still run")

	assert.NoError(t, Fanout{}.Publish(context.Background(), Event{}))
}

type fakeRetained struct {
	topic   string
	payload []byte
	err     error
}

func (f *fakeRetained) PublishRetained(topic string, payload []byte) error {
	f.topic, f.payload = topic, payload
	return f.err
}

func (f *fakeRetained) Topics() mqtt.Topics { return mqtt.Topics{Prefix: "gs"} }

func TestMQTT(t *testing.T) {
	client := &fakeRetained{}
	pub := NewMQTT(client)

	e := Event{Type: TypeTagUpdated, Tag: "heads/main", Key: "aa", Timestamp: fixed}
	require.NoError(t, pub.Publish(context.Background(), e))
	assert.Equal(t, "gs/tags/heads/main", client.topic)

	var decoded Event
	require.NoError(t, json.Unmarshal(client.payload, &decoded))
	assert.Equal(t, e, decoded)

	require.NoError(t, pub.Publish(context.Background(), Event{Type: TypeTagRemoved, Tag: "heads/main"}))
	assert.Empty(t, client.payload, "removal clears the retained message")

	client.err = mqtt.ErrNotConnected
	err := pub.Publish(context.Background(), e)
	assert.ErrorIs(t, err, mqtt.ErrNotConnected)
}

type fakeTagRecorder struct {
	typ, tag string
	at       time.Time
}

func (f *fakeTagRecorder) RecordTagEvent(eventType, tag string, at time.Time) {
	f.typ, f.tag, f.at = eventType, tag, at
}

func TestMetrics(t *testing.T) {
	rec := &fakeTagRecorder{}
	require.NoError(t, NewMetrics(rec).Publish(context.Background(),
		Event{Type: TypeTagRemoved, Tag: "old", Timestamp: fixed}))
	assert.Equal(t, &fakeTagRecorder{typ: TypeTagRemoved, tag: "old", at: fixed}, rec)
}
