// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lanternhq/lantern/internal/social"
)

// ListFriends returns the ids of the current user's friends.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	friends, err := h.friends.ListFriends(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(friends)
}

// RemoveFriend dissolves the friendship with the given user.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.friends.RemoveFriend(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// ListFriendRequests returns every friend request involving the current
// user.
func (h *Handler) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reqs, err := h.friends.ListRequests(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(reqs)
}

// SendFriendRequest sends a friend request to the given user.
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.friends.SendRequest(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AcceptFriendRequest accepts the pending request from the given user.
func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.friends.AcceptRequest(r.Context(), chi.URLParam(r, "id"), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RejectFriendRequest rejects the pending request from the given user.
func (h *Handler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.friends.RejectRequest(r.Context(), chi.URLParam(r, "id"), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// WithdrawFriendRequest withdraws the current user's pending request to
// the given user.
func (h *Handler) WithdrawFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.friends.RemoveRequest(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// ListMeetups returns the current user's meetups.
func (h *Handler) ListMeetups(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	meetups, err := h.meetups.ListMeetups(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(meetups)
}

// SetMeetupInfo updates the meetup between the current user and a friend.
func (h *Handler) SetMeetupInfo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var info social.MeetupInfo
	if err := decodeJSON(r, &info); err != nil {
		rw.BadRequest("invalid request body")
		return
	}

	if err := h.meetups.SetMeetupInfo(r.Context(), currentUser(r), chi.URLParam(r, "friend"), info); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RemoveMeetup deletes one of the current user's meetups.
func (h *Handler) RemoveMeetup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.meetups.RequireAttendee(r.Context(), currentUser(r), id); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.meetups.RemoveMeetup(r.Context(), id); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// ListMeetupInvitations returns every invitation involving the current
// user.
func (h *Handler) ListMeetupInvitations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	invs, err := h.meetups.ListInvitations(r.Context(), currentUser(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(invs)
}

// SendMeetupInvitation invites a friend to a meetup.
func (h *Handler) SendMeetupInvitation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.meetups.SendInvitation(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// AcceptMeetupInvitation accepts the pending invitation from the given
// user, creating the meetup.
func (h *Handler) AcceptMeetupInvitation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.meetups.AcceptInvitation(r.Context(), chi.URLParam(r, "id"), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// RejectMeetupInvitation rejects the pending invitation from the given
// user.
func (h *Handler) RejectMeetupInvitation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.meetups.RejectInvitation(r.Context(), chi.URLParam(r, "id"), currentUser(r)); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// WithdrawMeetupInvitation withdraws the current user's pending
// invitation to the given user.
func (h *Handler) WithdrawMeetupInvitation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.meetups.RemoveInvitation(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}
