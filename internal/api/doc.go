// Package api serves a route tree over HTTP.
//
// Every request outside /_system is dispatched: the URL path selects the
// action, the optional JSON array body supplies positional parameters, and
// the answer is {"result": ...}. Failures use the structured error body
// {"status", "code", "message"}.
//
// System endpoints:
//
//	GET /_system/health    liveness plus dependency checks
//	GET /_system/metrics   runtime, request and connection statistics
//	GET /_system/watch     websocket stream of tag change events
//
// Servers follow the usual lifecycle:
//
//	srv, err := api.New(deps)
//	if err := srv.Start(ctx); err != nil { ... }
//	defer srv.Close()
//
// Listeners runs several servers keyed by bind address.
package api
