// Package events announces tag changes.
//
// Every write to a store goes through Backend refs, so wrapping the backend
// with NewBackend catches tag updates made directly through the tag routes
// and branch moves made by path updates alike. Events fan out to publishers
// (MQTT, the websocket hub, InfluxDB); a failing publisher is logged and
// never fails the store operation.
package events
