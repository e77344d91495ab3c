// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// CreateDiscoverySession starts a discovery session for the current user.
func (h *Handler) CreateDiscoverySession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	state, err := h.engine.CreateSession(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(state)
}

// GetDiscoverySession returns the current user's discovery state.
func (h *Handler) GetDiscoverySession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	state, err := h.engine.GetState(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(state)
}

// DeleteDiscoverySession tears down the current user's session. The seen
// profile survives.
func (h *Handler) DeleteDiscoverySession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engine.DeleteSession(r.Context(), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// DiscoveryFeed serves the current user's feed. The engine materializes
// the full frontier; ?limit=n truncates the page client-side of the
// refill so a short page never shrinks the stored frontier.
func (h *Handler) DiscoveryFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	feed, err := h.engine.FetchFeed(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}

	limit := h.cfg.Discovery.FeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		limit = n
	}
	if len(feed) > limit {
		feed = feed[:limit]
	}
	rw.Success(feed)
}

// ListSeen returns the current user's seen history, most recent first.
func (h *Handler) ListSeen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	seen, err := h.engine.ListSeen(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(seen)
}

// MarkSeen records that the current user has seen the content.
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engine.MarkSeen(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// UnmarkSeen removes the content from the current user's seen history.
func (h *Handler) UnmarkSeen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engine.UnmarkSeen(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AddPreference appends a topic to the current user's preference list.
func (h *Handler) AddPreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engine.AddPreference(r.Context(), currentUser(r), chi.URLParam(r, "topic")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RemovePreference removes a topic from the current user's preference
// list. Removing an absent topic succeeds.
func (h *Handler) RemovePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engine.RemovePreference(r.Context(), currentUser(r), chi.URLParam(r, "topic")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
