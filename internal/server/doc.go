// Package server provides the timesourced HTTP API.
//
// Available endpoints:
//   - GET /now     : Current time of the configured source, or 503 if unset
//   - PUT /now     : Set a manual source, body {"time":"<RFC 3339>"}
//   - GET /health  : Liveness probe (always returns 200)
//   - GET /ready   : Readiness probe (200 only when the source reports a time)
//   - GET /metrics : Prometheus metrics endpoint
//
// PUT /now is rate limited by config.SetRateLimitRPS and answers 405 when
// the server was built without a Setter. Every response carries an
// X-Request-ID header.
//
// Example usage:
//
//	src := timesource.NewLocked(nil)
//	srv := server.NewServer(cfg, src, src, log)
//
//	go func() {
//		serverErrors <- srv.Start()
//	}()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	srv.Shutdown(ctx)
package server
