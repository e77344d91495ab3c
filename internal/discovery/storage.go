// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

// Document store collections for discovery records. Keyed by user id, so
// the per-user singleton lookup is a single O(1) get rather than a scan.
const (
	stateCollection   = "discovery.states"
	profileCollection = "discovery.profiles"
)

// StoreStorage implements Storage on the BadgerDB document store.
type StoreStorage struct {
	db *store.Store
}

// NewStoreStorage creates discovery storage backed by the given store.
func NewStoreStorage(db *store.Store) *StoreStorage {
	return &StoreStorage{db: db}
}

// State loads the discovery state for user.
func (s *StoreStorage) State(ctx context.Context, user string) (*State, error) {
	var st State
	err := s.db.Get(ctx, stateCollection, user, &st)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("discovery state for user %s: %w", user, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveState writes the discovery state keyed by its user.
func (s *StoreStorage) SaveState(ctx context.Context, st *State) error {
	return s.db.Put(ctx, stateCollection, st.User, st)
}

// DeleteState removes the discovery state for user. Deleting an absent
// state is not an error.
func (s *StoreStorage) DeleteState(ctx context.Context, user string) error {
	return s.db.Delete(ctx, stateCollection, user)
}

// Profile loads the seen profile for user.
func (s *StoreStorage) Profile(ctx context.Context, user string) (*Profile, error) {
	var p Profile
	err := s.db.Get(ctx, profileCollection, user, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("seen profile for user %s: %w", user, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile writes the seen profile keyed by its user.
func (s *StoreStorage) SaveProfile(ctx context.Context, p *Profile) error {
	return s.db.Put(ctx, profileCollection, p.User, p)
}
