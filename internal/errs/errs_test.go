// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("post %s: %w", "p1", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error no longer matches its kind")
	}
	if errors.Is(wrapped, ErrNotAllowed) {
		t.Error("wrapped error matches an unrelated kind")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "already exists", err: ErrAlreadyExists, want: true},
		{name: "wrapped not found", err: fmt.Errorf("user u: %w", ErrNotFound), want: true},
		{name: "end of discovery", err: fmt.Errorf("user u: %w", ErrEndOfDiscovery), want: true},
		{name: "not allowed", err: ErrNotAllowed, want: true},
		{name: "plain error", err: errors.New("disk full"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err); got != tt.want {
				t.Errorf("IsKind() = %v, want %v", got, tt.want)
			}
		})
	}
}
