// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package main is the entry point for the Lantern server.
//
// Lantern is a social content-sharing backend: posts, tags, friends,
// meetups, and time-limited engagements, with a personalized content
// discovery engine at its core.
//
// The server initializes components in order: configuration (Koanf v2,
// env > file > defaults), logging (zerolog), the BadgerDB document
// store, the domain services, the discovery engine, the chi HTTP
// router, and finally the suture supervision tree that runs the HTTP
// server alongside the store GC and engagement sweeper.
//
// Shutdown is graceful on SIGINT and SIGTERM: the supervisor cancels
// every service, the HTTP server drains in-flight requests, and the
// store is flushed and closed last.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lanternhq/lantern/internal/api"
	"github.com/lanternhq/lantern/internal/auth"
	"github.com/lanternhq/lantern/internal/config"
	"github.com/lanternhq/lantern/internal/content"
	"github.com/lanternhq/lantern/internal/discovery"
	"github.com/lanternhq/lantern/internal/engagement"
	"github.com/lanternhq/lantern/internal/logging"
	"github.com/lanternhq/lantern/internal/social"
	"github.com/lanternhq/lantern/internal/store"
	"github.com/lanternhq/lantern/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("lantern starting")

	db, err := store.Open(store.Config{
		Path:           cfg.Store.Path,
		InMemory:       cfg.Store.InMemory,
		GCInterval:     cfg.Store.GCInterval,
		GCDiscardRatio: cfg.Store.GCDiscardRatio,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("store close failed")
		}
	}()

	// Domain services.
	users := auth.NewUserService(db)
	users.SetLogger(logging.Logger())

	tokens, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		return fmt.Errorf("init jwt manager: %w", err)
	}

	posts := content.NewPostService(db)
	posts.SetLogger(logging.Logger())
	tags := content.NewTagService(db)
	tags.SetLogger(logging.Logger())
	cabinets := content.NewCabinetService(db)
	cabinets.SetLogger(logging.Logger())

	friends := social.NewFriendService(db)
	friends.SetLogger(logging.Logger())
	meetups := social.NewMeetupService(db, friends)
	meetups.SetLogger(logging.Logger())

	engagements := engagement.NewService(db)
	engagements.SetLogger(logging.Logger())

	engine := discovery.NewEngine(discovery.Config{
		MaxFrontier:   cfg.Discovery.MaxFrontier,
		MaxPreference: cfg.Discovery.MaxPreference,
		MaxSeen:       cfg.Discovery.MaxSeen,
	}, discovery.NewStoreStorage(db), posts, cabinets, logging.Logger())

	// HTTP surface.
	handler := api.NewHandler(cfg, api.Services{
		Users:       users,
		Tokens:      tokens,
		Posts:       posts,
		Tags:        tags,
		Cabinets:    cabinets,
		Friends:     friends,
		Meetups:     meetups,
		Engagements: engagements,
		Engine:      engine,
	}, logging.Logger())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Supervision tree: data layer (store GC), background layer
	// (engagement sweeper), api layer (HTTP server).
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(store.NewGCService(db))
	tree.AddBackgroundService(engagement.NewSweeper(engagements, time.Minute))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("lantern ready")
	err = tree.Serve(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	logging.Info().Msg("lantern stopped")
	return nil
}
