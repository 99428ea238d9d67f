// Package config loads and validates graystore configuration.
//
// Configuration is layered:
//   - Built-in defaults (in-memory store on 127.0.0.1:8080, MQTT and InfluxDB off)
//   - An optional YAML file (--config, GRAYSTORE_CONFIG, or ./configs/graystore.yaml)
//   - GRAYSTORE_* environment variable overrides
//
// Validate reports every problem in one error rather than stopping at the first.
// Secrets (MQTT password, InfluxDB token) are best supplied through the
// environment rather than the file.
//
// Usage:
//
//	cfg, err := config.Load(config.ResolvePath(flagPath))
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
