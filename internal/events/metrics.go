package events

import (
	"context"
	"time"
)

// TagRecorder is implemented by *influxdb.Client.
type TagRecorder interface {
	RecordTagEvent(eventType, tag string, at time.Time)
}

// Metrics records each event as a time-series point.
type Metrics struct {
	recorder TagRecorder
}

// NewMetrics returns a publisher over recorder.
func NewMetrics(recorder TagRecorder) *Metrics {
	return &Metrics{recorder: recorder}
}

// Publish records e. Writes are batched, so it never fails.
func (m *Metrics) Publish(_ context.Context, e Event) error {
	m.recorder.RecordTagEvent(e.Type, e.Tag, e.Timestamp)
	return nil
}
