// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package store

import (
	"context"
	"time"
)

// GCService runs periodic value-log garbage collection for a Store.
// It implements suture.Service and is intended to run under the
// application's data-layer supervisor.
type GCService struct {
	store *Store
}

// NewGCService creates a GC service for the given store.
func NewGCService(s *Store) *GCService {
	return &GCService{store: s}
}

// Serve runs the GC loop until the context is canceled.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.store.config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := g.store.RunGC(); err != nil {
				g.store.logger.Warn().Err(err).Msg("value-log GC failed")
			}
		}
	}
}

func (g *GCService) String() string { return "store-gc" }
