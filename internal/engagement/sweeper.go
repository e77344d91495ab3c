// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package engagement

import (
	"context"
	"time"

	"github.com/lanternhq/lantern/internal/metrics"
)

// Sweeper periodically removes expired engagements. It implements
// suture.Service and runs under the application's background supervisor.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

// NewSweeper creates a sweeper for the given service. A non-positive
// interval defaults to one minute.
func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{service: service, interval: interval}
}

// Serve runs the sweep loop until the context is canceled.
func (w *Sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			swept, err := w.service.SweepExpired(ctx)
			if err != nil {
				w.service.logger.Warn().Err(err).Msg("engagement sweep failed")
				continue
			}
			metrics.EngagementsSwept.Add(float64(swept))
		}
	}
}

func (w *Sweeper) String() string { return "engagement-sweeper" }
