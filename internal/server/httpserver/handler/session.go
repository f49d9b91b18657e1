// Package handler provides HTTP request handlers for statebag.
package handler

import (
	"net/http"

	"github.com/statebag/statebag/internal/core/domain"
)

// handleSessionShow handles GET /v1/session. It starts (or resumes)
// the session by touching the session store.
func (h *Handler) handleSessionShow(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)

	store, err := sc.store(domain.KindSession)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	sess := sc.sessions.Session()
	h.writeJSON(w, r, http.StatusOK, SessionResponse{
		SessionID: sess.ID(),
		Keys:      store.Keys(),
		Count:     store.Len(),
	})
}

// handleSessionDestroy handles DELETE /v1/session. The session record
// is removed server-side and the id cookie expired.
func (h *Handler) handleSessionDestroy(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)

	requestedID := sc.transport.Incoming()[h.cfg.SessionCookie]
	if requestedID == "" {
		h.writeJSON(w, r, http.StatusOK, SessionResponse{})
		return
	}

	if err := h.cfg.Sessions.Destroy(r.Context(), requestedID); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if err := sc.transport.Expire(h.cfg.SessionCookie); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, SessionResponse{SessionID: requestedID})
}
