// Package middleware provides HTTP middleware for the file workspace API.
//
// Middleware stack includes:
//   - RequestID: tags each request with a UUID in X-Request-ID
//   - AccessLog: one zap line per request, level chosen by status
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle cleanup
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
