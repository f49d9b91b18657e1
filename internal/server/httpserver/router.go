// Package httpserver provides the HTTP/HTTPS server for statebag.
package httpserver

import (
	"net/http"

	"github.com/statebag/statebag/internal/server/httpserver/handler"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler is the store API handler configuration.
	Handler handler.Config

	// Logger for request logging.
	Logger logger.Logger

	// Metrics is the telemetry registry; nil disables the /metrics
	// endpoint and request instrumentation.
	Metrics *metric.Registry

	// RateLimit is the per-client request rate (requests/second).
	// Zero disables rate limiting.
	RateLimit int
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Handler)

	// Order: Recover -> RequestID -> Metrics -> Logging -> RateLimit -> Handler
	middlewares := []Middleware{
		Recover(log),
		RequestID(),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}
	middlewares = append(middlewares, Logging(log))
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}

	apiHandler := Chain(h, middlewares...)

	mux := http.NewServeMux()

	// Health endpoints ride the same chain minus rate limiting.
	mux.Handle("GET /health", Chain(h, Recover(log), RequestID()))
	mux.Handle("GET /ready", Chain(h, Recover(log), RequestID()))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log), RequestID()))
	}

	// Store API endpoints
	mux.Handle("GET /v1/state/{kind}", apiHandler)
	mux.Handle("DELETE /v1/state/{kind}", apiHandler)
	mux.Handle("GET /v1/state/{kind}/{key}", apiHandler)
	mux.Handle("PUT /v1/state/{kind}/{key}", apiHandler)
	mux.Handle("DELETE /v1/state/{kind}/{key}", apiHandler)

	// Session lifecycle endpoints
	mux.Handle("GET /v1/session", apiHandler)
	mux.Handle("DELETE /v1/session", apiHandler)

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit: 1000, // requests/second per client
	}
}
