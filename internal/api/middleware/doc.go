// Package middleware provides the gin middleware of the studio API.
//
//   - CORS: cross-origin access with the trace headers exposed
//   - RateLimit: per-IP token bucket with idle client eviction
//   - RequestLogger: one structured log line per request
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.RequestLogger(logger))
package middleware
