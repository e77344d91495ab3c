// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package social

import (
	"context"
	"errors"
	"testing"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

func newTestDB(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("store.Close() error = %v", err)
		}
	})
	return db
}

func TestPairKeyOrderIndependent(t *testing.T) {
	if pairKey("alice", "bob") != pairKey("bob", "alice") {
		t.Errorf("pairKey(a,b) = %q, pairKey(b,a) = %q, want equal", pairKey("alice", "bob"), pairKey("bob", "alice"))
	}
}

func TestSendRequestValidation(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.SendRequest(ctx, "alice", "alice"); !errors.Is(err, errs.ErrNotAllowed) {
		t.Errorf("SendRequest(self) error = %v, want not-allowed", err)
	}

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	// A second request in either direction is blocked while one is pending.
	if err := friends.SendRequest(ctx, "alice", "bob"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Errorf("SendRequest(repeat) error = %v, want already-exists", err)
	}
	if err := friends.SendRequest(ctx, "bob", "alice"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Errorf("SendRequest(reverse) error = %v, want already-exists", err)
	}
}

func TestAcceptRequest(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.AcceptRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("AcceptRequest() error = %v", err)
	}

	ok, err := friends.AreFriends(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("AreFriends() error = %v", err)
	}
	if !ok {
		t.Error("AreFriends() = false after acceptance, want true")
	}

	// The pending record is consumed; accepting twice fails.
	if err := friends.AcceptRequest(ctx, "alice", "bob"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second AcceptRequest() error = %v, want not-found", err)
	}

	// Friends cannot send each other new requests.
	if err := friends.SendRequest(ctx, "bob", "alice"); !errors.Is(err, errs.ErrNotAllowed) {
		t.Errorf("SendRequest(already friends) error = %v, want not-allowed", err)
	}
}

func TestRejectRequest(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.RejectRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RejectRequest() error = %v", err)
	}

	ok, _ := friends.AreFriends(ctx, "alice", "bob")
	if ok {
		t.Error("AreFriends() = true after rejection, want false")
	}

	// A rejection clears the pending slot, so a new request can be sent.
	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Errorf("SendRequest(after rejection) error = %v, want nil", err)
	}
}

func TestRemoveRequest(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.RemoveRequest(ctx, "alice", "bob"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("RemoveRequest(none) error = %v, want not-found", err)
	}

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.RemoveRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RemoveRequest() error = %v", err)
	}
	if err := friends.SendRequest(ctx, "bob", "alice"); err != nil {
		t.Errorf("SendRequest(after withdrawal) error = %v, want nil", err)
	}
}

func TestListRequests(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.SendRequest(ctx, "carol", "alice"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.SendRequest(ctx, "carol", "dave"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	reqs, err := friends.ListRequests(ctx, "alice")
	if err != nil {
		t.Fatalf("ListRequests() error = %v", err)
	}
	if len(reqs) != 2 {
		t.Errorf("ListRequests() returned %d requests, want 2", len(reqs))
	}
	for _, req := range reqs {
		if req.From != "alice" && req.To != "alice" {
			t.Errorf("request %+v does not involve alice", req)
		}
	}

	// History survives: an accepted request still shows up.
	if err := friends.AcceptRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("AcceptRequest() error = %v", err)
	}
	reqs, _ = friends.ListRequests(ctx, "alice")
	var accepted bool
	for _, req := range reqs {
		if req.Status == StatusAccepted {
			accepted = true
		}
	}
	if !accepted {
		t.Error("ListRequests() missing accepted record")
	}
}

func TestListFriends(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	for _, other := range []string{"bob", "carol"} {
		if err := friends.SendRequest(ctx, "alice", other); err != nil {
			t.Fatalf("SendRequest() error = %v", err)
		}
		if err := friends.AcceptRequest(ctx, "alice", other); err != nil {
			t.Fatalf("AcceptRequest() error = %v", err)
		}
	}

	got, err := friends.ListFriends(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFriends() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListFriends(alice) = %v, want 2 friends", got)
	}

	got, _ = friends.ListFriends(ctx, "bob")
	if len(got) != 1 || got[0] != "alice" {
		t.Errorf("ListFriends(bob) = %v, want [alice]", got)
	}
}

func TestRemoveFriend(t *testing.T) {
	friends := NewFriendService(newTestDB(t))
	ctx := context.Background()

	if err := friends.RemoveFriend(ctx, "alice", "bob"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("RemoveFriend(strangers) error = %v, want not-found", err)
	}

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.AcceptRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("AcceptRequest() error = %v", err)
	}

	// Either side can dissolve the friendship.
	if err := friends.RemoveFriend(ctx, "bob", "alice"); err != nil {
		t.Fatalf("RemoveFriend() error = %v", err)
	}
	ok, _ := friends.AreFriends(ctx, "alice", "bob")
	if ok {
		t.Error("AreFriends() = true after removal, want false")
	}
}
