// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/auth"
	"github.com/lanternhq/lantern/internal/config"
	"github.com/lanternhq/lantern/internal/content"
	"github.com/lanternhq/lantern/internal/discovery"
	"github.com/lanternhq/lantern/internal/engagement"
	"github.com/lanternhq/lantern/internal/social"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	cfg    *config.Config
	logger zerolog.Logger

	users       *auth.UserService
	tokens      *auth.JWTManager
	posts       *content.PostService
	tags        *content.TagService
	cabinets    *content.CabinetService
	friends     *social.FriendService
	meetups     *social.MeetupService
	engagements *engagement.Service
	engine      *discovery.Engine
}

// Services collects the handler's dependencies.
type Services struct {
	Users       *auth.UserService
	Tokens      *auth.JWTManager
	Posts       *content.PostService
	Tags        *content.TagService
	Cabinets    *content.CabinetService
	Friends     *social.FriendService
	Meetups     *social.MeetupService
	Engagements *engagement.Service
	Engine      *discovery.Engine
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(cfg *config.Config, svc Services, logger zerolog.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		users:       svc.Users,
		tokens:      svc.Tokens,
		posts:       svc.Posts,
		tags:        svc.Tags,
		cabinets:    svc.Cabinets,
		friends:     svc.Friends,
		meetups:     svc.Meetups,
		engagements: svc.Engagements,
		engine:      svc.Engine,
	}
}

// currentUser returns the authenticated user id for the request. The
// auth middleware guarantees claims are present on protected routes; an
// empty id means the route was wired without the middleware.
func currentUser(r *http.Request) string {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return ""
	}
	return claims.UserID
}
