package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementDispatch = "dispatch"
	MeasurementTag      = "tag_events"
)

// RecordDispatch writes one dispatched request: the resolved action path,
// the HTTP status and the handling time.
//
//	dispatch,action=value/read,status=200 duration_ms=0.42
func (c *Client) RecordDispatch(action string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}
	if action == "" {
		action = "/"
	}
	c.writeAPI.WritePoint(write.NewPoint(
		MeasurementDispatch,
		map[string]string{
			"action": action,
			"status": strconv.Itoa(status),
		},
		map[string]any{
			"duration_ms": float64(duration.Microseconds()) / 1000,
		},
		time.Now(),
	))
}

// RecordTagEvent writes one tag change. Only the event type is a tag; the
// tag name is a field to keep series cardinality bounded.
func (c *Client) RecordTagEvent(eventType, tag string, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(
		MeasurementTag,
		map[string]string{"type": eventType},
		map[string]any{"tag": tag},
		at,
	))
}
