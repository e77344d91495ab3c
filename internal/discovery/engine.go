// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package discovery implements the personalized content discovery engine:
// per-user bounded frontiers of not-yet-seen content, bounded seen
// histories, and bounded ranked topic preferences, with paginated feed
// reads that refill the frontier on demand.
//
// The engine owns its records exclusively; no other service mutates
// discovery states or seen profiles. The content store is read-only from
// the engine's perspective, accessed through the ContentSource interface
// to keep the package free of dependencies on the content services.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/metrics"
)

// Engine orchestrates discovery sessions: it creates per-user frontiers,
// runs the selection algorithm to populate and refill them, serves feed
// reads, and maintains the bounded collections as the user interacts.
// It is safe for concurrent use.
type Engine struct {
	config  Config
	logger  zerolog.Logger
	storage Storage
	source  ContentSource
	seeds   SeedSource

	// locks serializes all mutations of a single user's state and
	// profile. The underlying store has no optimistic concurrency
	// control, so without this two concurrent MarkSeen calls for the
	// same user would race read-modify-write and lose one update.
	locks userLocks

	// Operation counters, exposed through GetMetrics.
	feedRequests  atomic.Int64
	refills       atomic.Int64
	selections    atomic.Int64
	exhaustedHits atomic.Int64
}

// Metrics is a snapshot of the engine's operation counters.
type Metrics struct {
	// FeedRequests is the number of FetchFeed calls.
	FeedRequests int64 `json:"feed_requests"`

	// Refills is the number of feed reads that triggered a frontier refill.
	Refills int64 `json:"refills"`

	// Selections is the number of selection queries run.
	Selections int64 `json:"selections"`

	// ExhaustedHits is the number of feed reads that ended in
	// end-of-discovery.
	ExhaustedHits int64 `json:"exhausted_hits"`
}

// NewEngine creates a discovery engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, storage Storage, source ContentSource, seeds SeedSource, logger zerolog.Logger) *Engine {
	return &Engine{
		config:  cfg.applyDefaults(),
		logger:  logger.With().Str("component", "discovery").Logger(),
		storage: storage,
		source:  source,
		seeds:   seeds,
	}
}

// CreateSession starts a discovery session for user. It fails with an
// already-exists kind if the user has a session. If the user has no seen
// profile yet, one is created with the preference seeded from the user's
// tag collection. The new frontier is populated by selection up to the
// frontier cap.
func (e *Engine) CreateSession(ctx context.Context, user string) (*State, error) {
	unlock := e.locks.lock(user)
	defer unlock()

	if _, err := e.storage.State(ctx, user); err == nil {
		return nil, fmt.Errorf("discovery session for user %s: %w", user, errs.ErrAlreadyExists)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	profile, err := e.ensureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	frontier, err := e.selectContent(ctx, user, profile, e.config.MaxFrontier)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	st := &State{
		User:      user,
		Frontier:  frontier,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.storage.SaveState(ctx, st); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("user", user).
		Int("frontier", len(frontier)).
		Int("preference", len(profile.Preference)).
		Msg("discovery session created")

	return st, nil
}

// GetState returns the user's discovery state, or a not-found kind if no
// session exists.
func (e *Engine) GetState(ctx context.Context, user string) (*State, error) {
	return e.storage.State(ctx, user)
}

// DeleteSession tears down the user's discovery session. The seen profile
// persists independently: history and preferences outlive a single
// session. Deleting an absent session is a no-op.
func (e *Engine) DeleteSession(ctx context.Context, user string) error {
	unlock := e.locks.lock(user)
	defer unlock()

	if err := e.storage.DeleteState(ctx, user); err != nil {
		return err
	}
	e.logger.Info().Str("user", user).Msg("discovery session deleted")
	return nil
}

// FetchFeed resolves the user's frontier against the content store and
// returns the content, most recently updated first. Ids that no longer
// resolve are dropped from the stored frontier and replaced by fresh
// selection, with surviving ids keeping their original relative order at
// the front and new ids appended after. A frontier that resolves to
// nothing and yields no new candidates fails with an end-of-discovery
// kind.
//
// The engine always materializes up to the full frontier cap to amortize
// refill cost; callers wanting a smaller page truncate the result.
func (e *Engine) FetchFeed(ctx context.Context, user string) ([]ContentRef, error) {
	unlock := e.locks.lock(user)
	defer unlock()

	e.feedRequests.Add(1)
	metrics.DiscoveryFeedRequests.Inc()

	st, err := e.storage.State(ctx, user)
	if err != nil {
		return nil, err
	}

	resolved, err := e.source.Resolve(ctx, st.Frontier)
	if err != nil {
		return nil, fmt.Errorf("resolve frontier for user %s: %w", user, err)
	}

	if len(resolved) == 0 {
		e.exhaustedHits.Add(1)
		metrics.DiscoveryExhausted.Inc()
		return nil, fmt.Errorf("user %s: %w", user, errs.ErrEndOfDiscovery)
	}

	if len(resolved) < e.config.MaxFrontier {
		resolved, err = e.refillFrontier(ctx, user, st, resolved)
		if err != nil {
			return nil, err
		}
	}

	e.logger.Debug().
		Str("user", user).
		Int("returned", len(resolved)).
		Msg("feed served")

	return resolved, nil
}

// refillFrontier tops the frontier back up to the cap after some ids
// failed to resolve, persisting the compacted frontier.
func (e *Engine) refillFrontier(ctx context.Context, user string, st *State, resolved []ContentRef) ([]ContentRef, error) {
	e.refills.Add(1)
	metrics.DiscoveryRefills.Inc()

	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return nil, err
	}

	// Selection filters against the seen history only; the survivors
	// must be excluded here or the refill would re-select them.
	surviving := make([]string, 0, len(profile.Seen)+len(resolved))
	surviving = append(surviving, profile.Seen...)
	for _, ref := range resolved {
		surviving = append(surviving, ref.ID)
	}
	toAdd, err := e.selectContent(ctx, user, &Profile{
		User:       profile.User,
		Preference: profile.Preference,
		Seen:       surviving,
	}, e.config.MaxFrontier-len(resolved))
	if err != nil {
		return nil, err
	}

	added, err := e.source.Resolve(ctx, toAdd)
	if err != nil {
		return nil, fmt.Errorf("resolve refill for user %s: %w", user, err)
	}
	resolved = append(resolved, added...)

	// Keep only the ids that still resolve, in their original order,
	// then append the new selection. This is what keeps the stored
	// frontier within its cap.
	frontier := make([]string, 0, len(resolved))
	for _, ref := range resolved {
		frontier = append(frontier, ref.ID)
	}
	st.Frontier = frontier
	st.UpdatedAt = time.Now().UTC()
	if err := e.storage.SaveState(ctx, st); err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user", user).
		Int("added", len(toAdd)).
		Msg("frontier refilled")

	return resolved, nil
}

// MarkSeen records that the user has been shown the content. The id is
// prepended to the seen history; when the history is at capacity the
// oldest entry is evicted first. No duplicate check is performed: marking
// the same content seen twice records it twice, matching the behavior the
// re-rank counting relies on.
func (e *Engine) MarkSeen(ctx context.Context, user, contentID string) error {
	unlock := e.locks.lock(user)
	defer unlock()

	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return err
	}

	if len(profile.Seen)+1 > e.config.MaxSeen {
		profile.Seen = profile.Seen[:e.config.MaxSeen-1]
	}
	profile.Seen = append([]string{contentID}, profile.Seen...)
	profile.UpdatedAt = time.Now().UTC()

	return e.storage.SaveProfile(ctx, profile)
}

// UnmarkSeen removes the content from the user's seen history. It fails
// with a not-allowed kind if the content is not in the history. All equal
// entries are removed.
func (e *Engine) UnmarkSeen(ctx context.Context, user, contentID string) error {
	unlock := e.locks.lock(user)
	defer unlock()

	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return err
	}

	kept := profile.Seen[:0:0]
	for _, id := range profile.Seen {
		if id != contentID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(profile.Seen) {
		return fmt.Errorf("user %s has not seen content %s: %w", user, contentID, errs.ErrNotAllowed)
	}

	profile.Seen = kept
	profile.UpdatedAt = time.Now().UTC()
	return e.storage.SaveProfile(ctx, profile)
}

// ListSeen resolves and returns the user's seen history, most recent
// first. It fails with a not-found kind if the profile is absent or the
// history is empty.
func (e *Engine) ListSeen(ctx context.Context, user string) ([]ContentRef, error) {
	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(profile.Seen) == 0 {
		return nil, fmt.Errorf("user %s has not seen any content: %w", user, errs.ErrNotFound)
	}
	refs, err := e.source.Resolve(ctx, profile.Seen)
	if err != nil {
		return nil, fmt.Errorf("resolve seen history for user %s: %w", user, err)
	}
	return refs, nil
}

// AddPreference appends the topic to the user's preference list. At
// capacity the list is first re-ranked by engagement and the lowest-ranked
// entry evicted to free a slot. The duplicate check happens only after the
// eviction step, so an eviction can be persisted even though the add is
// ultimately rejected as a duplicate; this ordering is part of the
// contract.
func (e *Engine) AddPreference(ctx context.Context, user, topic string) error {
	unlock := e.locks.lock(user)
	defer unlock()

	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return err
	}

	duplicate := containsString(profile.Preference, topic)

	if len(profile.Preference) >= e.config.MaxPreference {
		if err := e.rerankPreference(ctx, profile); err != nil {
			return err
		}
		// Front of the re-ranked list is the least-engaged topic.
		profile.Preference = profile.Preference[1:]
		profile.UpdatedAt = time.Now().UTC()
		if err := e.storage.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}

	if duplicate {
		return fmt.Errorf("topic %s already in preference of user %s: %w", topic, user, errs.ErrNotAllowed)
	}

	profile.Preference = append(profile.Preference, topic)
	profile.UpdatedAt = time.Now().UTC()
	return e.storage.SaveProfile(ctx, profile)
}

// RemovePreference removes all occurrences of the topic from the user's
// preference list. Removing an absent topic is a no-op, so the call is
// idempotent.
func (e *Engine) RemovePreference(ctx context.Context, user, topic string) error {
	unlock := e.locks.lock(user)
	defer unlock()

	profile, err := e.storage.Profile(ctx, user)
	if err != nil {
		return err
	}

	kept := profile.Preference[:0:0]
	for _, t := range profile.Preference {
		if t != topic {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(profile.Preference) {
		return nil
	}

	profile.Preference = kept
	profile.UpdatedAt = time.Now().UTC()
	return e.storage.SaveProfile(ctx, profile)
}

// GetMetrics returns a snapshot of the engine's operation counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		FeedRequests:  e.feedRequests.Load(),
		Refills:       e.refills.Load(),
		Selections:    e.selections.Load(),
		ExhaustedHits: e.exhaustedHits.Load(),
	}
}

// ensureProfile loads the user's profile, creating one seeded from the
// user's tag collection if none exists.
func (e *Engine) ensureProfile(ctx context.Context, user string) (*Profile, error) {
	profile, err := e.storage.Profile(ctx, user)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	seed, err := e.seeds.PreferenceSeed(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("preference seed for user %s: %w", user, err)
	}
	if len(seed) > e.config.MaxPreference {
		seed = seed[:e.config.MaxPreference]
	}

	now := time.Now().UTC()
	profile = &Profile{
		User:       user,
		Preference: seed,
		Seen:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user", user).
		Int("seed", len(seed)).
		Msg("seen profile created")

	return profile, nil
}

// selectContent runs the selection query: content not authored by the
// user, not in the seen history, and sharing at least one topic with the
// preference list, most recently updated first, limited to n. Only the
// identifiers are returned so staleness is handled at read time.
func (e *Engine) selectContent(ctx context.Context, user string, profile *Profile, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	e.selections.Add(1)

	refs, err := e.source.Query(ctx, Predicate{
		ExcludeAuthor: user,
		ExcludeIDs:    profile.Seen,
		AnyTag:        profile.Preference,
	}, n)
	if err != nil {
		return nil, fmt.Errorf("select content for user %s: %w", user, err)
	}

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids, nil
}

// containsString reports whether s contains v.
func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// userLocks hands out one mutex per user id so operations on different
// users never contend.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// lock acquires the mutex for user, creating it on first use, and returns
// the unlock function.
func (l *userLocks) lock(user string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	um, ok := l.m[user]
	if !ok {
		um = &sync.Mutex{}
		l.m[user] = um
	}
	l.mu.Unlock()

	um.Lock()
	return um.Unlock
}
