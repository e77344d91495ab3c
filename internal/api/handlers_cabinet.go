// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateCabinet creates the current user's content cabinet.
func (h *Handler) CreateCabinet(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cabinet, err := h.cabinets.Create(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(cabinet)
}

// GetCabinet returns the current user's cabinet.
func (h *Handler) GetCabinet(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cabinet, err := h.cabinets.GetByOwner(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(cabinet)
}

// DeleteCabinet removes the current user's cabinet.
func (h *Handler) DeleteCabinet(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.cabinets.Delete(r.Context(), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AddCabinetContent adds a content id to the current user's cabinet.
func (h *Handler) AddCabinetContent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.cabinets.AddContent(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RemoveCabinetContent drops a content id from the current user's cabinet.
func (h *Handler) RemoveCabinetContent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.cabinets.RemoveContent(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AddCabinetTag adds a tag id to the current user's cabinet.
func (h *Handler) AddCabinetTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.cabinets.AddTag(r.Context(), currentUser(r), chi.URLParam(r, "tag")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RemoveCabinetTag drops a tag id from the current user's cabinet.
func (h *Handler) RemoveCabinetTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.cabinets.RemoveTag(r.Context(), currentUser(r), chi.URLParam(r, "tag")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
