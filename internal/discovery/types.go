// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package discovery

import (
	"context"
	"time"
)

// Default bounds for the per-user collections. They can be lowered through
// Config for tests; production uses these values.
const (
	// DefaultMaxFrontier bounds the not-yet-delivered content frontier.
	DefaultMaxFrontier = 99

	// DefaultMaxPreference bounds the ranked topic preference list.
	DefaultMaxPreference = 999

	// DefaultMaxSeen bounds the most-recent-first seen history.
	DefaultMaxSeen = 9999
)

// Config holds the engine's collection bounds.
type Config struct {
	// MaxFrontier is the frontier capacity. Default: DefaultMaxFrontier.
	MaxFrontier int

	// MaxPreference is the preference capacity. Default: DefaultMaxPreference.
	MaxPreference int

	// MaxSeen is the seen-history capacity. Default: DefaultMaxSeen.
	MaxSeen int
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		MaxFrontier:   DefaultMaxFrontier,
		MaxPreference: DefaultMaxPreference,
		MaxSeen:       DefaultMaxSeen,
	}
}

// applyDefaults fills zero values with the production bounds.
func (c Config) applyDefaults() Config {
	if c.MaxFrontier <= 0 {
		c.MaxFrontier = DefaultMaxFrontier
	}
	if c.MaxPreference <= 0 {
		c.MaxPreference = DefaultMaxPreference
	}
	if c.MaxSeen <= 0 {
		c.MaxSeen = DefaultMaxSeen
	}
	return c
}

// State is the per-user discovery session: the ordered frontier of content
// selected for the user but not yet paged through. At most one State exists
// per user. Consumption is tracked through the seen history, not by removing
// entries from the frontier; entries leave the frontier only when a refill
// drops ids that no longer resolve.
type State struct {
	// User is the owning user's identifier.
	User string `json:"user"`

	// Frontier is the ordered list of selected content ids, most relevant
	// first as produced by selection. Length never exceeds MaxFrontier.
	Frontier []string `json:"frontier"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the frontier was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the per-user seen history and topic preferences. It is created
// lazily on the first discovery session and outlives session teardown.
type Profile struct {
	// User is the owning user's identifier.
	User string `json:"user"`

	// Preference is the ordered topic list, insertion order doubling as
	// relevance order after a re-rank (front = evicted first). Length
	// never exceeds MaxPreference.
	Preference []string `json:"preference"`

	// Seen is the content the user has been shown, most recent first.
	// Length never exceeds MaxSeen.
	Seen []string `json:"seen"`

	// CreatedAt is when the profile was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the profile was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentRef is the engine's view of a content item.
type ContentRef struct {
	// ID is the content identifier.
	ID string `json:"id"`

	// Author is the authoring user's identifier.
	Author string `json:"author"`

	// Tags is the content's topic tag set.
	Tags []string `json:"tags"`

	// UpdatedAt is the content's last-updated timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the content carries the given topic tag.
func (c ContentRef) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Predicate filters a ContentSource query. All conditions are conjunctive.
type Predicate struct {
	// ExcludeAuthor drops content authored by this user.
	ExcludeAuthor string

	// ExcludeIDs drops content with any of these ids.
	ExcludeIDs []string

	// AnyTag requires a non-empty intersection with this topic set.
	// An empty set matches nothing.
	AnyTag []string
}

// ContentSource is the engine's read-only view of the content store.
// Implemented by the post service.
type ContentSource interface {
	// Query returns up to limit content refs matching the predicate,
	// ordered by UpdatedAt descending.
	Query(ctx context.Context, pred Predicate, limit int) ([]ContentRef, error)

	// Resolve returns the refs for the given ids, preserving input order.
	// Ids that no longer resolve are silently omitted.
	Resolve(ctx context.Context, ids []string) ([]ContentRef, error)
}

// SeedSource supplies the initial topic preference for a user, read once at
// profile creation. Implemented by the cabinet service (the user's own
// tagging history). A user without a seed yields an empty slice, not an
// error.
type SeedSource interface {
	PreferenceSeed(ctx context.Context, user string) ([]string, error)
}

// Storage persists discovery states and profiles keyed by user id.
// Both getters return errs.ErrNotFound (wrapped) when absent.
type Storage interface {
	State(ctx context.Context, user string) (*State, error)
	SaveState(ctx context.Context, st *State) error
	DeleteState(ctx context.Context, user string) error

	Profile(ctx context.Context, user string) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
}
