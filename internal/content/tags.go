// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

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

const tagCollection = "tags"

// Tag is a user-authored topic label attached to posts. Tag ids are the
// topic identifiers that flow into discovery preferences.
type Tag struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Name        string   `json:"name"`
	TaggedPosts []string `json:"tagged_posts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagService manages tags.
type TagService struct {
	db     *store.Store
	logger zerolog.Logger
}

// NewTagService creates a tag service.
func NewTagService(db *store.Store) *TagService {
	return &TagService{
		db:     db,
		logger: zerolog.Nop(),
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *TagService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "tags").Logger()
}

// Create stores a new tag over the given posts. The name must be
// non-empty, at least one post is required, and a user cannot create two
// tags with the same name.
func (s *TagService) Create(ctx context.Context, author, name string, posts []string) (*Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name cannot be empty: %w", errs.ErrNotAllowed)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("tag must have at least one post: %w", errs.ErrNotAllowed)
	}

	existing, err := s.ListByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		if t.Name == name {
			return nil, fmt.Errorf("tag %q already created by user %s: %w", name, author, errs.ErrNotAllowed)
		}
	}

	now := time.Now().UTC()
	tag := &Tag{
		ID:          uuid.New().String(),
		Author:      author,
		Name:        name,
		TaggedPosts: posts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Put(ctx, tagCollection, tag.ID, tag); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("tag", tag.ID).Str("name", name).Msg("tag created")
	return tag, nil
}

// GetByID returns the tag with the given id.
func (s *TagService) GetByID(ctx context.Context, id string) (*Tag, error) {
	var tag Tag
	err := s.db.Get(ctx, tagCollection, id, &tag)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("tag %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListByAuthor returns the author's tags, most recently updated first.
func (s *TagService) ListByAuthor(ctx context.Context, author string) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.Scan(ctx, tagCollection, func(_ string, value []byte) error {
		var tag Tag
		if err := json.Unmarshal(value, &tag); err != nil {
			return err
		}
		if tag.Author == author {
			tags = append(tags, &tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].UpdatedAt.After(tags[j].UpdatedAt)
	})
	return tags, nil
}

// AddPosts attaches posts to the tag; posts already attached are skipped.
func (s *TagService) AddPosts(ctx context.Context, id string, posts []string) error {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	attached := make(map[string]struct{}, len(tag.TaggedPosts))
	for _, p := range tag.TaggedPosts {
		attached[p] = struct{}{}
	}
	changed := false
	for _, p := range posts {
		if _, ok := attached[p]; !ok {
			tag.TaggedPosts = append(tag.TaggedPosts, p)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	tag.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, tagCollection, tag.ID, tag)
}

// RemovePosts detaches posts from the tag.
func (s *TagService) RemovePosts(ctx context.Context, id string, posts []string) error {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		drop[p] = struct{}{}
	}
	kept := tag.TaggedPosts[:0:0]
	for _, p := range tag.TaggedPosts {
		if _, ok := drop[p]; !ok {
			kept = append(kept, p)
		}
	}

	tag.TaggedPosts = kept
	tag.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, tagCollection, tag.ID, tag)
}

// Rename changes the tag's name; the author is immutable.
func (s *TagService) Rename(ctx context.Context, id, name string) (*Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name cannot be empty: %w", errs.ErrNotAllowed)
	}
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	tag.UpdatedAt = time.Now().UTC()
	if err := s.db.Put(ctx, tagCollection, tag.ID, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag. Deleting an absent tag is not an error.
func (s *TagService) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, tagCollection, id)
}

// RequireAuthor fails with a not-allowed kind unless user authored the
// tag, or not-found if the tag does not exist.
func (s *TagService) RequireAuthor(ctx context.Context, user, id string) error {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tag.Author != user {
		return fmt.Errorf("user %s is not the author of tag %s: %w", user, id, errs.ErrNotAllowed)
	}
	return nil
}
