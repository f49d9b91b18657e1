// Package handler provides HTTP request handlers for statebag.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/statebag/statebag/internal/adapter/cookiebag"
	"github.com/statebag/statebag/internal/adapter/sessionbag"
	"github.com/statebag/statebag/internal/bag"
	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/registry"
	"github.com/statebag/statebag/internal/session"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
	"github.com/statebag/statebag/internal/transport/cookie"
)

// Config holds the handler's collaborators and per-kind policy.
type Config struct {
	// Sessions is the shared session manager backing session stores.
	Sessions *session.Manager

	// SessionTTL and CookieTTL override the per-kind default entry
	// lifetimes. Zero means no expiry.
	SessionTTL time.Duration
	CookieTTL  time.Duration

	// SessionCookie is the cookie name carrying the session id. It is
	// reserved: the cookie store cannot read or write it.
	SessionCookie string

	// CookieOpts are the attributes applied to emitted cookies.
	CookieOpts cookie.Options

	// StrictDecode surfaces undecodable stored values as errors.
	StrictDecode bool

	Logger  logger.Logger
	Metrics *metric.Registry
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	cfg Config
	log logger.Logger
	mux *http.ServeMux
}

// New creates a new Handler.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	h := &Handler{
		cfg: cfg,
		log: cfg.Logger,
		mux: http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler. It establishes the request scope
// before routing so every handler shares one registry, one cookie
// transport and one tracked response writer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sc := h.newScope(w, r)
	ctx := context.WithValue(r.Context(), scopeContextKey{}, sc)
	h.mux.ServeHTTP(sc.tracker, r.WithContext(ctx))
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Store endpoints, keyed by store kind ("session" or "cookie")
	h.mux.HandleFunc("GET /v1/state/{kind}", h.handleListEntries)
	h.mux.HandleFunc("DELETE /v1/state/{kind}", h.handleClearEntries)
	h.mux.HandleFunc("GET /v1/state/{kind}/{key}", h.handleGetEntry)
	h.mux.HandleFunc("PUT /v1/state/{kind}/{key}", h.handleSetEntry)
	h.mux.HandleFunc("DELETE /v1/state/{kind}/{key}", h.handleDeleteEntry)

	// Session lifecycle endpoints
	h.mux.HandleFunc("GET /v1/session", h.handleSessionShow)
	h.mux.HandleFunc("DELETE /v1/session", h.handleSessionDestroy)
}

// scopeContextKey keys the request scope in the request context.
type scopeContextKey struct{}

// scope is the per-request wiring: one registry, one cookie transport,
// the adapters feeding it, and the tracked writer everything goes
// through.
type scope struct {
	reg       *registry.Registry
	tracker   *cookie.Tracker
	transport *cookie.Transport
	sessions  *sessionbag.Adapter
	cookies   *cookiebag.Adapter
}

func (h *Handler) newScope(w http.ResponseWriter, r *http.Request) *scope {
	tracker := cookie.NewTracker(w)
	transport := cookie.New(tracker, r, h.cfg.CookieOpts, h.log)

	requestedID := transport.Incoming()[h.cfg.SessionCookie]

	reg := registry.New(
		registry.WithStrictDecode(h.cfg.StrictDecode),
		registry.WithLogger(h.log),
		registry.WithMetrics(h.cfg.Metrics),
	)
	reg.SetExpiry(domain.KindSession, h.cfg.SessionTTL)
	reg.SetExpiry(domain.KindCookie, h.cfg.CookieTTL)

	return &scope{
		reg:       reg,
		tracker:   tracker,
		transport: transport,
		sessions:  sessionbag.New(r.Context(), h.cfg.Sessions, requestedID),
		cookies:   cookiebag.New(transport, cookiebag.WithReserved(h.cfg.SessionCookie)),
	}
}

func requestScope(r *http.Request) *scope {
	sc, _ := r.Context().Value(scopeContextKey{}).(*scope)
	return sc
}

// store returns the live store for kind, instantiating it on first use.
func (sc *scope) store(kind domain.StoreKind) (*bag.Store, error) {
	switch kind {
	case domain.KindSession:
		return sc.reg.Instance(sc.sessions)
	case domain.KindCookie:
		return sc.reg.Instance(sc.cookies)
	default:
		return nil, domain.ErrBadRequest.WithDetails("unknown store kind: " + string(kind))
	}
}

// emitSessionCookie refreshes the session id cookie when a session is
// live. Must run before the response body is written.
func (h *Handler) emitSessionCookie(sc *scope) {
	sess := sc.sessions.Session()
	if sess == nil {
		return
	}
	if err := sc.transport.Emit(h.cfg.SessionCookie, sess.ID(), h.cfg.SessionTTL); err != nil {
		h.log.Warn("session cookie not emitted", "error", err)
	}
}

// writeJSON writes a JSON response with the standard envelope, emitting
// any pending session cookie first.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if sc := requestScope(r); sc != nil {
		h.emitSessionCookie(sc)
	}

	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// handleDomainError converts store and session errors to HTTP responses.
func (h *Handler) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		code := domain.GetErrorCode(err)
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error())
		return
	}

	h.log.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "SB-SYS-5000", "internal server error")
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4220"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4000"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5030"):
		return http.StatusConflict
	case strings.HasPrefix(code, "SB-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
