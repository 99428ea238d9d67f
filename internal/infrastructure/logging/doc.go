// Package logging provides structured logging for graystore.
//
// It wraps log/slog so every component logs the same way: key/value pairs,
// JSON in production and text for development, with service and version
// attached to every entry.
//
// Configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("listening", "addr", addr)
//	logger.Error("dispatch failed", "action", action, "error", err)
//
// Never log stored values or credentials; log keys and tag names instead.
package logging
