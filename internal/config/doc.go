// Package config provides configuration management for timesourced.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - TIMESOURCE_MODE: "real" or "manual"
//   - TIMESOURCE_INITIAL_TIME: RFC 3339 time to seed a manual source with
//   - TIMESOURCE_HTTP_PORT: HTTP server port (1-65535)
//   - TIMESOURCE_LOG_LEVEL: Log level (debug, info, warn, error)
//   - TIMESOURCE_SET_RATE_LIMIT: PUT /now requests per second (0 disables)
//   - TIMESOURCE_SHUTDOWN_TIMEOUT: Graceful shutdown timeout in seconds
//
// Example configuration file (config.yaml):
//
//	mode: manual
//	initial_time: "1970-01-01T00:01:01Z"
//	http_port: 8080
//	log_level: info
//	set_rate_limit: 10
//	shutdown_timeout: 30
//
// A manual source without initial_time starts unset, and GET /now answers
// 503 until a time is PUT.
package config
