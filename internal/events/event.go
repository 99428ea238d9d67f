package events

import (
	"context"
	"errors"
	"time"
)

// Event types.
const (
	TypeTagUpdated = "tag.updated"
	TypeTagRemoved = "tag.removed"
)

// Event describes one tag change. Key is empty for removals.
type Event struct {
	Type      string    `json:"type"`
	Tag       string    `json:"tag"`
	Key       string    `json:"key,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Fanout publishes to every publisher in order, continuing past failures.
type Fanout []Publisher

// Publish returns the joined errors of the publishers that failed.
func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
