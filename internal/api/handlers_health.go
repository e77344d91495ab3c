// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"
)

// HealthLive reports process liveness. It always succeeds while the
// server is able to serve requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady reports readiness: the store must answer a read before
// traffic is routed here.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	// Any store read proves the database is open and serving.
	if _, err := h.posts.ListAll(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "store not ready")
		return
	}
	rw.Success(map[string]interface{}{
		"status":    "ready",
		"discovery": h.engine.GetMetrics(),
	})
}
