// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package content

import (
	"context"
	"errors"

	"github.com/lanternhq/lantern/internal/discovery"
	"github.com/lanternhq/lantern/internal/errs"
)

// Query implements discovery.ContentSource. It returns up to limit posts
// matching the predicate, most recently updated first. An empty AnyTag set
// matches nothing: content with none of the user's preferred topics is
// never selected.
func (s *PostService) Query(ctx context.Context, pred discovery.Predicate, limit int) ([]discovery.ContentRef, error) {
	if limit <= 0 || len(pred.AnyTag) == 0 {
		return nil, nil
	}

	excluded := make(map[string]struct{}, len(pred.ExcludeIDs))
	for _, id := range pred.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(pred.AnyTag))
	for _, tag := range pred.AnyTag {
		wanted[tag] = struct{}{}
	}

	posts, err := s.list(ctx, func(p *Post) bool {
		if p.Author == pred.ExcludeAuthor {
			return false
		}
		if _, ok := excluded[p.ID]; ok {
			return false
		}
		for _, tag := range p.Tags {
			if _, ok := wanted[tag]; ok {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}

	refs := make([]discovery.ContentRef, len(posts))
	for i, p := range posts {
		refs[i] = toContentRef(p)
	}
	return refs, nil
}

// Resolve implements discovery.ContentSource. Input order and multiplicity
// are preserved; ids that no longer resolve are silently omitted.
func (s *PostService) Resolve(ctx context.Context, ids []string) ([]discovery.ContentRef, error) {
	refs := make([]discovery.ContentRef, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetByID(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, toContentRef(post))
	}
	return refs, nil
}

// toContentRef projects a post onto the discovery engine's content view.
func toContentRef(p *Post) discovery.ContentRef {
	return discovery.ContentRef{
		ID:        p.ID,
		Author:    p.Author,
		Tags:      p.Tags,
		UpdatedAt: p.UpdatedAt,
	}
}
