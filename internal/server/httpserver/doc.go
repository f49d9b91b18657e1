// Package httpserver provides the HTTP/HTTPS server for statebag.
//
// This package implements the primary external API using stdlib net/http:
//
//   - Store endpoints: /v1/state/{kind}, /v1/state/{kind}/{key}
//   - Session endpoints: /v1/session
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - Middleware chain: Recover, RequestID, Metrics, Logging, RateLimit
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver
