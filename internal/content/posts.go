// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package content provides the post, tag, and content-cabinet services on
// top of the document store. The post service also implements the
// discovery engine's ContentSource, and the cabinet service its
// SeedSource.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const postCollection = "posts"

// PostOptions holds optional presentation settings for a post.
type PostOptions struct {
	BackgroundColor string `json:"background_color,omitempty"`
}

// Post is a content item authored by a user.
type Post struct {
	ID      string       `json:"id"`
	Author  string       `json:"author"`
	Content string       `json:"content"`
	Tags    []string     `json:"tags"`
	Options *PostOptions `json:"options,omitempty"`

	// Veiled hides the post from its author's public cabinet view.
	Veiled bool `json:"veiled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the post carries the tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PostService manages posts.
type PostService struct {
	db     *store.Store
	logger zerolog.Logger
}

// NewPostService creates a post service.
func NewPostService(db *store.Store) *PostService {
	return &PostService{
		db:     db,
		logger: zerolog.Nop(),
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *PostService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "posts").Logger()
}

// Create stores a new post. Empty content is not allowed.
func (s *PostService) Create(ctx context.Context, author, content string, options *PostOptions) (*Post, error) {
	if content == "" {
		return nil, fmt.Errorf("post content cannot be empty: %w", errs.ErrNotAllowed)
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.New().String(),
		Author:    author,
		Content:   content,
		Tags:      []string{},
		Options:   options,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Put(ctx, postCollection, post.ID, post); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("post", post.ID).Str("author", author).Msg("post created")
	return post, nil
}

// GetByID returns the post with the given id.
func (s *PostService) GetByID(ctx context.Context, id string) (*Post, error) {
	var post Post
	err := s.db.Get(ctx, postCollection, id, &post)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("post %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByAuthor returns the author's posts, most recently updated first.
func (s *PostService) ListByAuthor(ctx context.Context, author string) ([]*Post, error) {
	return s.list(ctx, func(p *Post) bool { return p.Author == author })
}

// ListByTag returns the posts carrying the tag, most recently updated first.
func (s *PostService) ListByTag(ctx context.Context, tag string) ([]*Post, error) {
	return s.list(ctx, func(p *Post) bool { return p.HasTag(tag) })
}

// ListAll returns every post, most recently updated first.
func (s *PostService) ListAll(ctx context.Context) ([]*Post, error) {
	return s.list(ctx, func(*Post) bool { return true })
}

// AddTag attaches the tag to the post. Attaching a tag that is already
// present is a no-op.
func (s *PostService) AddTag(ctx context.Context, id, tag string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.HasTag(tag) {
		return nil
	}
	post.Tags = append(post.Tags, tag)
	post.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, postCollection, post.ID, post)
}

// RemoveTag detaches the tag from the post.
func (s *PostService) RemoveTag(ctx context.Context, id, tag string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	kept := post.Tags[:0:0]
	for _, t := range post.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	post.Tags = kept
	post.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, postCollection, post.ID, post)
}

// PostUpdate holds the mutable fields of a post. Nil fields are left
// unchanged; the author is immutable.
type PostUpdate struct {
	Content *string      `json:"content,omitempty"`
	Options *PostOptions `json:"options,omitempty"`
	Veiled  *bool        `json:"veiled,omitempty"`
}

// Update applies the update to the post.
func (s *PostService) Update(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Content != nil {
		if *update.Content == "" {
			return nil, fmt.Errorf("post content cannot be empty: %w", errs.ErrNotAllowed)
		}
		post.Content = *update.Content
	}
	if update.Options != nil {
		post.Options = update.Options
	}
	if update.Veiled != nil {
		post.Veiled = *update.Veiled
	}
	post.UpdatedAt = time.Now().UTC()
	if err := s.db.Put(ctx, postCollection, post.ID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// SetVeiled veils or unveils the post.
func (s *PostService) SetVeiled(ctx context.Context, id string, veiled bool) (*Post, error) {
	return s.Update(ctx, id, PostUpdate{Veiled: &veiled})
}

// Delete removes the post. Deleting an absent post is not an error.
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, postCollection, id)
}

// RequireAuthor fails with a not-allowed kind unless user authored the
// post, or not-found if the post does not exist.
func (s *PostService) RequireAuthor(ctx context.Context, user, id string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != user {
		return fmt.Errorf("user %s is not the author of post %s: %w", user, id, errs.ErrNotAllowed)
	}
	return nil
}

// list scans the post collection, keeps the posts matching the filter,
// and orders them most recently updated first.
func (s *PostService) list(ctx context.Context, keep func(*Post) bool) ([]*Post, error) {
	var posts []*Post
	err := s.db.Scan(ctx, postCollection, func(_ string, value []byte) error {
		var post Post
		if err := json.Unmarshal(value, &post); err != nil {
			return err
		}
		if keep(&post) {
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
	})
	return posts, nil
}
