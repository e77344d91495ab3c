// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lanternhq/lantern/internal/auth"
	"github.com/lanternhq/lantern/internal/middleware"
)

// Router builds the chi route tree for the API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	if len(h.cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.cfg.Server.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if h.cfg.Server.RateLimit > 0 {
		r.Use(httprate.LimitByIP(h.cfg.Server.RateLimit, time.Minute))
	}

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	if h.cfg.Metrics.Enabled {
		r.Handle(h.cfg.Metrics.Path, promhttp.Handler())
	}

	// Auth endpoints stay public; login gets its own strict limit to
	// slow down credential stuffing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Post("/register", h.Register)
		r.With(httprate.LimitByIP(10, 5*time.Minute)).Post("/login", h.Login)
	})

	// Everything else requires a valid session token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(auth.Middleware(h.tokens))

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.CreatePost)
			r.Get("/", h.ListPosts)
			r.Get("/{id}", h.GetPost)
			r.Patch("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
			r.Post("/{id}/veil", h.VeilPost)
			r.Post("/{id}/unveil", h.UnveilPost)
			r.Put("/{id}/tags/{tag}", h.AddPostTag)
			r.Delete("/{id}/tags/{tag}", h.RemovePostTag)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Post("/", h.CreateTag)
			r.Get("/", h.ListTags)
			r.Get("/{id}", h.GetTag)
			r.Patch("/{id}", h.RenameTag)
			r.Delete("/{id}", h.DeleteTag)
			r.Post("/{id}/posts", h.AttachTagPosts)
			r.Delete("/{id}/posts", h.DetachTagPosts)
		})

		r.Route("/cabinet", func(r chi.Router) {
			r.Post("/", h.CreateCabinet)
			r.Get("/", h.GetCabinet)
			r.Delete("/", h.DeleteCabinet)
			r.Put("/contents/{id}", h.AddCabinetContent)
			r.Delete("/contents/{id}", h.RemoveCabinetContent)
			r.Put("/tags/{tag}", h.AddCabinetTag)
			r.Delete("/tags/{tag}", h.RemoveCabinetTag)
		})

		r.Route("/discovery", func(r chi.Router) {
			r.Post("/session", h.CreateDiscoverySession)
			r.Get("/session", h.GetDiscoverySession)
			r.Delete("/session", h.DeleteDiscoverySession)
			r.Get("/feed", h.DiscoveryFeed)
			r.Get("/seen", h.ListSeen)
			r.Put("/seen/{id}", h.MarkSeen)
			r.Delete("/seen/{id}", h.UnmarkSeen)
			r.Put("/preference/{topic}", h.AddPreference)
			r.Delete("/preference/{topic}", h.RemovePreference)
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", h.ListFriends)
			r.Delete("/{id}", h.RemoveFriend)
			r.Get("/requests", h.ListFriendRequests)
			r.Post("/requests/{id}", h.SendFriendRequest)
			r.Post("/requests/{id}/accept", h.AcceptFriendRequest)
			r.Post("/requests/{id}/reject", h.RejectFriendRequest)
			r.Delete("/requests/{id}", h.WithdrawFriendRequest)
		})

		r.Route("/meetups", func(r chi.Router) {
			r.Get("/", h.ListMeetups)
			r.Patch("/{friend}", h.SetMeetupInfo)
			r.Delete("/{id}", h.RemoveMeetup)
			r.Get("/invitations", h.ListMeetupInvitations)
			r.Post("/invitations/{id}", h.SendMeetupInvitation)
			r.Post("/invitations/{id}/accept", h.AcceptMeetupInvitation)
			r.Post("/invitations/{id}/reject", h.RejectMeetupInvitation)
			r.Delete("/invitations/{id}", h.WithdrawMeetupInvitation)
		})

		r.Route("/engagements", func(r chi.Router) {
			r.Get("/", h.ListEngagements)
			r.Put("/{id}", h.SetEngagement)
			r.Delete("/{id}", h.RemoveEngagement)
		})
	})

	return r
}
