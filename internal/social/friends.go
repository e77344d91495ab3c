// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package social provides friendships, friend requests, meetups, and
// meetup invitations on top of the document store.
package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const (
	friendshipCollection    = "friendships"
	friendRequestCollection = "friend.requests"
)

// RequestStatus is the lifecycle state of a friend request or meetup
// invitation.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Friendship is an unordered user pair. It is keyed by pairKey, so the
// pair (a,b) and (b,a) map to the same record.
type Friendship struct {
	User1 string `json:"user1"`
	User2 string `json:"user2"`

	CreatedAt time.Time `json:"created_at"`
}

// FriendRequest records a request and its outcome. Only pending requests
// block new ones; accepted and rejected records are kept as history.
type FriendRequest struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Status RequestStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// FriendService manages friendships and friend requests.
type FriendService struct {
	db     *store.Store
	logger zerolog.Logger
}

// NewFriendService creates a friend service.
func NewFriendService(db *store.Store) *FriendService {
	return &FriendService{
		db:     db,
		logger: zerolog.Nop(),
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *FriendService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "friends").Logger()
}

// pairKey builds an order-independent key for a user pair.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// requestKey builds the key for a directed request record.
func requestKey(from, to string, status RequestStatus) string {
	return from + "|" + to + "|" + string(status)
}

// AreFriends reports whether the two users are friends.
func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	var f Friendship
	err := s.db.Get(ctx, friendshipCollection, pairKey(a, b), &f)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SendRequest sends a friend request from one user to another. Requests
// to oneself, to an existing friend, or alongside a pending request in
// either direction are not allowed.
func (s *FriendService) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return fmt.Errorf("user %s cannot friend themselves: %w", from, errs.ErrNotAllowed)
	}

	friends, err := s.AreFriends(ctx, from, to)
	if err != nil {
		return err
	}
	if friends {
		return fmt.Errorf("users %s and %s are already friends: %w", from, to, errs.ErrNotAllowed)
	}

	pending, err := s.hasPendingRequest(ctx, from, to)
	if err != nil {
		return err
	}
	if pending {
		return fmt.Errorf("friend request between %s and %s already pending: %w", from, to, errs.ErrAlreadyExists)
	}

	req := &FriendRequest{From: from, To: to, Status: StatusPending, CreatedAt: time.Now().UTC()}
	return s.db.Put(ctx, friendRequestCollection, requestKey(from, to, StatusPending), req)
}

// AcceptRequest accepts the pending request from one user to another,
// recording the acceptance and creating the friendship.
func (s *FriendService) AcceptRequest(ctx context.Context, from, to string) error {
	if err := s.removePending(ctx, from, to); err != nil {
		return err
	}

	now := time.Now().UTC()
	req := &FriendRequest{From: from, To: to, Status: StatusAccepted, CreatedAt: now}
	if err := s.db.Put(ctx, friendRequestCollection, requestKey(from, to, StatusAccepted), req); err != nil {
		return err
	}

	f := &Friendship{User1: from, User2: to, CreatedAt: now}
	if err := s.db.Put(ctx, friendshipCollection, pairKey(from, to), f); err != nil {
		return err
	}

	s.logger.Debug().Str("from", from).Str("to", to).Msg("friend request accepted")
	return nil
}

// RejectRequest rejects the pending request, recording the rejection.
func (s *FriendService) RejectRequest(ctx context.Context, from, to string) error {
	if err := s.removePending(ctx, from, to); err != nil {
		return err
	}
	req := &FriendRequest{From: from, To: to, Status: StatusRejected, CreatedAt: time.Now().UTC()}
	return s.db.Put(ctx, friendRequestCollection, requestKey(from, to, StatusRejected), req)
}

// RemoveRequest withdraws a pending request.
func (s *FriendService) RemoveRequest(ctx context.Context, from, to string) error {
	return s.removePending(ctx, from, to)
}

// ListRequests returns every request involving the user, oldest first.
func (s *FriendService) ListRequests(ctx context.Context, user string) ([]*FriendRequest, error) {
	var reqs []*FriendRequest
	err := s.db.Scan(ctx, friendRequestCollection, func(_ string, value []byte) error {
		var req FriendRequest
		if err := json.Unmarshal(value, &req); err != nil {
			return err
		}
		if req.From == user || req.To == user {
			reqs = append(reqs, &req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListFriends returns the ids of the user's friends.
func (s *FriendService) ListFriends(ctx context.Context, user string) ([]string, error) {
	var friends []string
	err := s.db.Scan(ctx, friendshipCollection, func(_ string, value []byte) error {
		var f Friendship
		if err := json.Unmarshal(value, &f); err != nil {
			return err
		}
		switch user {
		case f.User1:
			friends = append(friends, f.User2)
		case f.User2:
			friends = append(friends, f.User1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// RemoveFriend dissolves the friendship between the two users.
func (s *FriendService) RemoveFriend(ctx context.Context, user, friend string) error {
	exists, err := s.AreFriends(ctx, user, friend)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("friendship between %s and %s: %w", user, friend, errs.ErrNotFound)
	}
	return s.db.Delete(ctx, friendshipCollection, pairKey(user, friend))
}

// hasPendingRequest reports whether a pending request exists in either
// direction between the two users.
func (s *FriendService) hasPendingRequest(ctx context.Context, a, b string) (bool, error) {
	for _, key := range []string{requestKey(a, b, StatusPending), requestKey(b, a, StatusPending)} {
		var req FriendRequest
		err := s.db.Get(ctx, friendRequestCollection, key, &req)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

// removePending deletes the pending request from one user to another,
// failing with a not-found kind if there is none.
func (s *FriendService) removePending(ctx context.Context, from, to string) error {
	key := requestKey(from, to, StatusPending)
	var req FriendRequest
	err := s.db.Get(ctx, friendRequestCollection, key, &req)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("friend request from %s to %s: %w", from, to, errs.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return s.db.Delete(ctx, friendRequestCollection, key)
}
