// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package discovery

import (
	"context"
	"fmt"
	"sort"
)

// rerankPreference reorders the profile's preference list ascending by
// engagement: the count of seen-history entries whose content carries the
// topic. Fewer matches rank first, so capacity eviction (which drops the
// front) prunes the topics the user has engaged with least.
//
// The seen list is resolved in a single batch and counted once; duplicate
// seen entries count each time they appear, which skews ranking toward
// repeatedly viewed topics. The sort is stable so topics with equal counts
// keep their insertion order.
func (e *Engine) rerankPreference(ctx context.Context, profile *Profile) error {
	counts, err := e.topicCounts(ctx, profile.Seen)
	if err != nil {
		return err
	}

	sort.SliceStable(profile.Preference, func(i, j int) bool {
		return counts[profile.Preference[i]] < counts[profile.Preference[j]]
	})
	return nil
}

// topicCounts batch-resolves the seen content ids and returns, per topic,
// how many seen entries carry it. Ids that no longer resolve contribute
// nothing.
func (e *Engine) topicCounts(ctx context.Context, seen []string) (map[string]int, error) {
	if len(seen) == 0 {
		return map[string]int{}, nil
	}

	refs, err := e.source.Resolve(ctx, seen)
	if err != nil {
		return nil, fmt.Errorf("resolve seen history for re-rank: %w", err)
	}

	// Resolve drops duplicates' distinctness only if the source dedups;
	// ours preserves input order and multiplicity, so repeated views are
	// counted repeatedly.
	counts := make(map[string]int)
	for _, ref := range refs {
		for _, tag := range ref.Tags {
			counts[tag]++
		}
	}
	return counts, nil
}
