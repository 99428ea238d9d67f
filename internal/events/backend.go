package events

import (
	"context"
	"time"

	"github.com/nerrad567/graystore/internal/infrastructure/logging"
	"github.com/nerrad567/graystore/internal/store"
)

// Backend is a store.Backend that publishes an Event after each successful
// ref change. Object operations pass straight through.
type Backend struct {
	store.Backend

	publisher Publisher
	logger    *logging.Logger
	now       func() time.Time
}

// NewBackend wraps inner. A nil logger discards publish failures.
func NewBackend(inner store.Backend, publisher Publisher, logger *logging.Logger) *Backend {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Backend{
		Backend:   inner,
		publisher: publisher,
		logger:    logger.With("component", "events"),
		now:       time.Now,
	}
}

// SetRef stores the ref and publishes tag.updated.
func (b *Backend) SetRef(ctx context.Context, name string, key store.Key) error {
	if err := b.Backend.SetRef(ctx, name, key); err != nil {
		return err
	}
	b.publish(ctx, Event{Type: TypeTagUpdated, Tag: name, Key: string(key)})
	return nil
}

// DeleteRef removes the ref and publishes tag.removed if it existed.
func (b *Backend) DeleteRef(ctx context.Context, name string) (bool, error) {
	existed, err := b.Backend.DeleteRef(ctx, name)
	if err != nil || !existed {
		return existed, err
	}
	b.publish(ctx, Event{Type: TypeTagRemoved, Tag: name})
	return true, nil
}

func (b *Backend) publish(ctx context.Context, e Event) {
	if b.publisher == nil {
		return
	}
	e.Timestamp = b.now().UTC()
	// The ref is already written; a cancelled request must not drop the event.
	if err := b.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		b.logger.Warn("publishing event failed", "type", e.Type, "tag", e.Tag, "error", err)
	}
}
