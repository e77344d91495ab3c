// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package auth provides user accounts, password verification, and JWT
// session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const (
	userCollection     = "users"
	usernameCollection = "users.by-name"

	// bcryptCost is the bcrypt cost factor for password hashing.
	bcryptCost = 12
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userRecord is the stored form of User, including the password hash.
type userRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// usernameIndex maps a username to a user id.
type usernameIndex struct {
	UserID string `json:"user_id"`
}

// UserService manages accounts. Usernames are unique; a secondary index
// collection maps each username to its user id.
type UserService struct {
	db     *store.Store
	logger zerolog.Logger

	// cost is overridable in tests; bcrypt at cost 12 is too slow for
	// table-driven runs.
	cost int
}

// NewUserService creates a user service.
func NewUserService(db *store.Store) *UserService {
	return &UserService{
		db:     db,
		logger: zerolog.Nop(),
		cost:   bcryptCost,
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *UserService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "users").Logger()
}

func (r *userRecord) user() *User {
	return &User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Register creates an account. The username must be non-empty and not
// taken; the password must be non-empty.
func (s *UserService) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty: %w", errs.ErrNotAllowed)
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty: %w", errs.ErrNotAllowed)
	}

	var idx usernameIndex
	err := s.db.Get(ctx, usernameCollection, username, &idx)
	if err == nil {
		return nil, fmt.Errorf("username %q: %w", username, errs.ErrAlreadyExists)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	rec := &userRecord{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Put(ctx, userCollection, rec.ID, rec); err != nil {
		return nil, err
	}
	if err := s.db.Put(ctx, usernameCollection, username, &usernameIndex{UserID: rec.ID}); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", rec.ID).Str("username", username).Msg("user registered")
	return rec.user(), nil
}

// Authenticate verifies username and password, returning the user. A
// wrong password and an unknown username both fail with a not-allowed
// kind so callers cannot distinguish them.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.GetByUsername(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", errs.ErrNotAllowed)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", errs.ErrNotAllowed)
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (*User, error) {
	var rec userRecord
	err := s.db.Get(ctx, userCollection, id, &rec)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

// GetByUsername returns the user with the given username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*User, error) {
	var idx usernameIndex
	err := s.db.Get(ctx, usernameCollection, username, &idx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, idx.UserID)
}

// ChangePassword replaces the user's password.
func (s *UserService) ChangePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty: %w", errs.ErrNotAllowed)
	}

	var rec userRecord
	err := s.db.Get(ctx, userCollection, id, &rec)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	rec.PasswordHash = string(hash)
	rec.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, userCollection, id, &rec)
}

// Delete removes the account and its username index entry.
func (s *UserService) Delete(ctx context.Context, id string) error {
	var rec userRecord
	err := s.db.Get(ctx, userCollection, id, &rec)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.db.Delete(ctx, usernameCollection, rec.Username); err != nil {
		return err
	}
	return s.db.Delete(ctx, userCollection, id)
}
