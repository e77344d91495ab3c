// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package middleware provides HTTP middleware shared across the API:
// request identification and Prometheus instrumentation.
package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/logging"
)

// RequestID assigns a unique id to each request, honoring an
// X-Request-ID header from an upstream proxy. The id is echoed in the
// response header and stored in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger stores the given logger in each request's context so that
// logging.Ctx resolves to it instead of the global logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.ContextWithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
