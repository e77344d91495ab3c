// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const cabinetCollection = "cabinets"

// MaxCabinetTags bounds the tag list of a cabinet.
const MaxCabinetTags = 999

// Cabinet is a user's content cabinet: the posts they have collected and
// the tags they have applied, in insertion order. Each user owns at most
// one cabinet; it is keyed by the owner's id.
type Cabinet struct {
	Owner    string   `json:"owner"`
	Contents []string `json:"contents"`
	Tags     []string `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CabinetService manages content cabinets.
type CabinetService struct {
	db     *store.Store
	logger zerolog.Logger
}

// NewCabinetService creates a cabinet service.
func NewCabinetService(db *store.Store) *CabinetService {
	return &CabinetService{
		db:     db,
		logger: zerolog.Nop(),
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *CabinetService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "cabinet").Logger()
}

// Create makes a cabinet for owner. Fails with an already-exists kind if
// the owner has one.
func (s *CabinetService) Create(ctx context.Context, owner string) (*Cabinet, error) {
	if _, err := s.GetByOwner(ctx, owner); err == nil {
		return nil, fmt.Errorf("content cabinet for user %s: %w", owner, errs.ErrAlreadyExists)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	cabinet := &Cabinet{
		Owner:     owner,
		Contents:  []string{},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Put(ctx, cabinetCollection, owner, cabinet); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("owner", owner).Msg("cabinet created")
	return cabinet, nil
}

// GetByOwner returns the owner's cabinet.
func (s *CabinetService) GetByOwner(ctx context.Context, owner string) (*Cabinet, error) {
	var cabinet Cabinet
	err := s.db.Get(ctx, cabinetCollection, owner, &cabinet)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("content cabinet for user %s: %w", owner, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cabinet, nil
}

// AddContent appends a content id to the cabinet. Adding a content that
// is already present fails with a not-allowed kind.
func (s *CabinetService) AddContent(ctx context.Context, owner, contentID string) error {
	cabinet, err := s.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}
	for _, c := range cabinet.Contents {
		if c == contentID {
			return fmt.Errorf("content %s already in cabinet of user %s: %w", contentID, owner, errs.ErrNotAllowed)
		}
	}
	cabinet.Contents = append(cabinet.Contents, contentID)
	cabinet.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, cabinetCollection, owner, cabinet)
}

// RemoveContent drops a content id from the cabinet.
func (s *CabinetService) RemoveContent(ctx context.Context, owner, contentID string) error {
	cabinet, err := s.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}
	kept := cabinet.Contents[:0:0]
	for _, c := range cabinet.Contents {
		if c != contentID {
			kept = append(kept, c)
		}
	}
	cabinet.Contents = kept
	cabinet.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, cabinetCollection, owner, cabinet)
}

// AddTag appends a tag id to the cabinet. The tag list is capped at
// MaxCabinetTags; adding a tag that is already present is a no-op.
func (s *CabinetService) AddTag(ctx context.Context, owner, tag string) error {
	cabinet, err := s.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if len(cabinet.Tags) >= MaxCabinetTags {
		return fmt.Errorf("content cabinet of user %s already has %d tags: %w", owner, MaxCabinetTags, errs.ErrNotAllowed)
	}
	for _, t := range cabinet.Tags {
		if t == tag {
			return nil
		}
	}
	cabinet.Tags = append(cabinet.Tags, tag)
	cabinet.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, cabinetCollection, owner, cabinet)
}

// RemoveTag drops a tag id from the cabinet.
func (s *CabinetService) RemoveTag(ctx context.Context, owner, tag string) error {
	cabinet, err := s.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}
	kept := cabinet.Tags[:0:0]
	for _, t := range cabinet.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	cabinet.Tags = kept
	cabinet.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, cabinetCollection, owner, cabinet)
}

// Delete removes the owner's cabinet. Deleting an absent cabinet is not
// an error.
func (s *CabinetService) Delete(ctx context.Context, owner string) error {
	return s.db.Delete(ctx, cabinetCollection, owner)
}

// PreferenceSeed implements discovery.SeedSource: the user's cabinet tags
// in insertion order. A user without a cabinet seeds an empty preference.
func (s *CabinetService) PreferenceSeed(ctx context.Context, user string) ([]string, error) {
	cabinet, err := s.GetByOwner(ctx, user)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cabinet.Tags, nil
}
