// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createTagRequest struct {
	Name  string   `json:"name" validate:"required,max=128"`
	Posts []string `json:"posts" validate:"required,min=1"`
}

type tagPostsRequest struct {
	Posts []string `json:"posts" validate:"required,min=1"`
}

type renameTagRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

// CreateTag creates a tag over the given posts.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createTagRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	tag, err := h.tags.Create(r.Context(), currentUser(r), req.Name, req.Posts)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(tag)
}

// ListTags lists the current user's tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tags, err := h.tags.ListByAuthor(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(tags)
}

// GetTag returns one tag.
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tag, err := h.tags.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(tag)
}

// RenameTag renames the current user's tag.
func (h *Handler) RenameTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	var req renameTagRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	if err := h.tags.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	tag, err := h.tags.Rename(r.Context(), id, req.Name)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(tag)
}

// DeleteTag removes the current user's tag.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.tags.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.tags.Delete(r.Context(), id); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AttachTagPosts attaches posts to the current user's tag.
func (h *Handler) AttachTagPosts(w http.ResponseWriter, r *http.Request) {
	h.tagPosts(w, r, h.tags.AddPosts)
}

// DetachTagPosts detaches posts from the current user's tag.
func (h *Handler) DetachTagPosts(w http.ResponseWriter, r *http.Request) {
	h.tagPosts(w, r, h.tags.RemovePosts)
}

func (h *Handler) tagPosts(w http.ResponseWriter, r *http.Request, op func(context.Context, string, []string) error) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	var req tagPostsRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	if err := h.tags.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := op(r.Context(), id, req.Posts); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
