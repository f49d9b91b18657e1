// Package handler provides HTTP request handlers for statebag.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/request"
)

// handleSetEntry handles PUT /v1/state/{kind}/{key}.
func (h *Handler) handleSetEntry(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)
	kind := domain.StoreKind(r.PathValue("kind"))
	key := r.PathValue("key")

	if ct := request.NewHeaders(r.Header).ContentType(); ct != "" && ct != "application/json" {
		h.writeError(w, r, http.StatusUnsupportedMediaType, "SB-SYS-4000", "content type must be application/json")
		return
	}

	var req SetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SB-SYS-4000", "invalid request body")
		return
	}

	value, err := domain.FromJSONValue(req.Value)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SB-SYS-4000", "unsupported value: "+err.Error())
		return
	}

	store, err := sc.store(kind)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if _, err := store.Set(key, value); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, EntryResponse{
		Kind:  string(kind),
		Key:   key,
		Value: req.Value,
	})
}

// handleGetEntry handles GET /v1/state/{kind}/{key}.
//
// Absence is not an error: a missing key answers with found=false and
// a null value.
func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)
	kind := domain.StoreKind(r.PathValue("kind"))
	key := r.PathValue("key")

	store, err := sc.store(kind)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	found := store.Has(key)
	value, err := store.Get(key, domain.Null())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, EntryResponse{
		Kind:  string(kind),
		Key:   key,
		Value: value,
		Found: &found,
	})
}

// handleDeleteEntry handles DELETE /v1/state/{kind}/{key}.
func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)
	kind := domain.StoreKind(r.PathValue("kind"))
	key := r.PathValue("key")

	store, err := sc.store(kind)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if _, err := store.Remove(key); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, EntryResponse{
		Kind: string(kind),
		Key:  key,
	})
}

// handleListEntries handles GET /v1/state/{kind}.
func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)
	kind := domain.StoreKind(r.PathValue("kind"))

	store, err := sc.store(kind)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	all, err := store.All()
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	entries := make(map[string]any, len(all))
	for k, v := range all {
		entries[k] = v
	}

	h.writeJSON(w, r, http.StatusOK, ListEntriesResponse{
		Kind:    string(kind),
		Entries: entries,
		Count:   store.Len(),
	})
}

// handleClearEntries handles DELETE /v1/state/{kind}.
func (h *Handler) handleClearEntries(w http.ResponseWriter, r *http.Request) {
	sc := requestScope(r)
	kind := domain.StoreKind(r.PathValue("kind"))

	store, err := sc.store(kind)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if _, err := store.Clear(); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ListEntriesResponse{
		Kind:  string(kind),
		Count: store.Len(),
	})
}
