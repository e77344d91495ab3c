// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package discovery

import (
	"context"
	"testing"
	"time"
)

func TestRerankPreference(t *testing.T) {
	base := time.Now().UTC()

	tests := []struct {
		name       string
		refs       []ContentRef
		seen       []string
		preference []string
		want       []string
	}{
		{
			name: "ascending by engagement",
			refs: []ContentRef{
				ref("s1", "x", []string{"b"}, base),
				ref("s2", "x", []string{"b", "c"}, base),
			},
			seen:       []string{"s2", "s1"},
			preference: []string{"a", "b", "c"},
			want:       []string{"a", "c", "b"},
		},
		{
			name: "duplicate seen entries count each time",
			refs: []ContentRef{
				ref("s1", "x", []string{"a"}, base),
				ref("s2", "x", []string{"b"}, base),
			},
			// "a" viewed twice outranks "b" viewed once.
			seen:       []string{"s1", "s1", "s2"},
			preference: []string{"a", "b"},
			want:       []string{"b", "a"},
		},
		{
			name: "ties keep insertion order",
			refs: []ContentRef{
				ref("s1", "x", []string{"a", "b"}, base),
			},
			seen:       []string{"s1"},
			preference: []string{"c", "a", "b", "d"},
			want:       []string{"c", "d", "a", "b"},
		},
		{
			name:       "empty history leaves order unchanged",
			refs:       nil,
			seen:       nil,
			preference: []string{"b", "a", "c"},
			want:       []string{"b", "a", "c"},
		},
		{
			name: "unresolvable ids contribute nothing",
			refs: []ContentRef{
				ref("s1", "x", []string{"a"}, base),
			},
			seen:       []string{"gone", "s1"},
			preference: []string{"a", "b"},
			want:       []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := testEngine(Config{}, &memSource{refs: tt.refs}, nil)
			profile := &Profile{
				User:       "u",
				Preference: append([]string(nil), tt.preference...),
				Seen:       tt.seen,
			}

			if err := engine.rerankPreference(context.Background(), profile); err != nil {
				t.Fatalf("rerankPreference() error = %v", err)
			}
			if len(profile.Preference) != len(tt.want) {
				t.Fatalf("preference = %v, want %v", profile.Preference, tt.want)
			}
			for i, topic := range tt.want {
				if profile.Preference[i] != topic {
					t.Errorf("preference[%d] = %q, want %q (full: %v)", i, profile.Preference[i], topic, profile.Preference)
				}
			}
		})
	}
}
