// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lanternhq/lantern/internal/content"
)

type createPostRequest struct {
	Content string               `json:"content" validate:"required,max=10000"`
	Options *content.PostOptions `json:"options"`
}

// CreatePost creates a post authored by the current user.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	post, err := h.posts.Create(r.Context(), currentUser(r), req.Content, req.Options)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(post)
}

// ListPosts lists posts. ?author=<id> filters by author, ?tag=<id> by
// tag; without a filter the current user's posts are returned.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var (
		posts []*content.Post
		err   error
	)
	switch {
	case r.URL.Query().Get("tag") != "":
		posts, err = h.posts.ListByTag(r.Context(), r.URL.Query().Get("tag"))
	case r.URL.Query().Get("author") != "":
		posts, err = h.posts.ListByAuthor(r.Context(), r.URL.Query().Get("author"))
	default:
		posts, err = h.posts.ListByAuthor(r.Context(), currentUser(r))
	}
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(posts)
}

// GetPost returns one post.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(post)
}

// UpdatePost applies a partial update to the current user's post.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	var update content.PostUpdate
	if err := decodeJSON(r, &update); err != nil {
		rw.BadRequest("invalid request body")
		return
	}

	if err := h.posts.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	post, err := h.posts.Update(r.Context(), id, update)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(post)
}

// DeletePost removes the current user's post.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.posts.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// VeilPost hides the post from public view.
func (h *Handler) VeilPost(w http.ResponseWriter, r *http.Request) {
	h.setVeiled(w, r, true)
}

// UnveilPost makes the post publicly visible again.
func (h *Handler) UnveilPost(w http.ResponseWriter, r *http.Request) {
	h.setVeiled(w, r, false)
}

func (h *Handler) setVeiled(w http.ResponseWriter, r *http.Request, veiled bool) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.posts.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	post, err := h.posts.SetVeiled(r.Context(), id, veiled)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(post)
}

// AddPostTag attaches a tag to the current user's post.
func (h *Handler) AddPostTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.posts.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.posts.AddTag(r.Context(), id, chi.URLParam(r, "tag")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RemovePostTag detaches a tag from the current user's post.
func (h *Handler) RemovePostTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.posts.RequireAuthor(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.posts.RemoveTag(r.Context(), id, chi.URLParam(r, "tag")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
