// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type setEngagementRequest struct {
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}

// ListEngagements returns the current user's time-limited engagements.
func (h *Handler) ListEngagements(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engagements, err := h.engagements.ListByOwner(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(engagements)
}

// SetEngagement creates or refreshes the current user's engagement with
// the content.
func (h *Handler) SetEngagement(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req setEngagementRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	e, err := h.engagements.Set(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.ExpiresAt)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(e)
}

// RemoveEngagement drops the current user's engagement with the content.
func (h *Handler) RemoveEngagement(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.engagements.Remove(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
