// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package engagement provides time-limited engagements: a per-user,
// per-content marker with an expiry, swept by a background service once
// it lapses.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const engagementCollection = "engagements"

// Engagement marks content a user is engaging with until ExpiresAt.
type Engagement struct {
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the engagement has lapsed at the given time.
func (e *Engagement) Expired(now time.Time) bool {
	return e.ExpiresAt.Before(now)
}

// Service manages time-limited engagements.
type Service struct {
	db     *store.Store
	logger zerolog.Logger

	// now is overridable in tests.
	now func() time.Time
}

// NewService creates an engagement service.
func NewService(db *store.Store) *Service {
	return &Service{
		db:     db,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *Service) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "engagement").Logger()
}

// key builds the document key for an owner/content pair: one engagement
// per pair.
func key(owner, content string) string {
	return owner + "|" + content
}

// Set creates or refreshes the engagement of owner with content. The
// expiry must be in the future. An existing engagement has its expiry
// updated in place.
func (s *Service) Set(ctx context.Context, owner, content string, expiresAt time.Time) (*Engagement, error) {
	now := s.now().UTC()
	if expiresAt.Before(now) {
		return nil, fmt.Errorf("engagement must expire in the future: %w", errs.ErrNotAllowed)
	}

	var e Engagement
	err := s.db.Get(ctx, engagementCollection, key(owner, content), &e)
	switch {
	case err == nil:
		e.ExpiresAt = expiresAt
		e.UpdatedAt = now
	case errors.Is(err, store.ErrNotFound):
		e = Engagement{
			Content:   content,
			Owner:     owner,
			ExpiresAt: expiresAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		return nil, err
	}

	if err := s.db.Put(ctx, engagementCollection, key(owner, content), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByOwner returns the owner's engagements, most recently updated
// first.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]*Engagement, error) {
	var out []*Engagement
	err := s.db.Scan(ctx, engagementCollection, func(_ string, value []byte) error {
		var e Engagement
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		if e.Owner == owner {
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Remove deletes the engagement of owner with content, failing with a
// not-found kind if there is none.
func (s *Service) Remove(ctx context.Context, owner, content string) error {
	var e Engagement
	err := s.db.Get(ctx, engagementCollection, key(owner, content), &e)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("engagement of user %s with content %s: %w", owner, content, errs.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return s.db.Delete(ctx, engagementCollection, key(owner, content))
}

// SweepExpired deletes every engagement whose expiry has lapsed and
// returns how many were removed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	now := s.now().UTC()

	var expired []string
	err := s.db.Scan(ctx, engagementCollection, func(id string, value []byte) error {
		var e Engagement
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		if e.Expired(now) {
			expired = append(expired, id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, id := range expired {
		if err := s.db.Delete(ctx, engagementCollection, id); err != nil {
			return 0, err
		}
	}

	if len(expired) > 0 {
		s.logger.Debug().Int("removed", len(expired)).Msg("expired engagements swept")
	}
	return len(expired), nil
}
