// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package errs defines the error kinds shared by all Lantern services.
//
// Services wrap these sentinels with the offending identifiers, e.g.
//
//	fmt.Errorf("post %s: %w", id, errs.ErrNotFound)
//
// and the API layer translates each kind to an HTTP status code. Kinds are
// matched with errors.Is, so wrapping never hides them.
package errs

import "errors"

var (
	// ErrAlreadyExists signals creation of a resource that already exists
	// (a discovery session, a content cabinet, a user).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound signals a reference to a resource that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEndOfDiscovery signals an existing but fully exhausted discovery
	// session: the frontier resolved to nothing and no further candidates
	// exist. Distinct from ErrNotFound, which means "never started".
	ErrEndOfDiscovery = errors.New("end of discovery")

	// ErrNotAllowed signals an invalid mutation: removing an unseen item,
	// adding a duplicate preference, updating a protected field, acting on
	// a resource owned by someone else.
	ErrNotAllowed = errors.New("not allowed")
)

// IsKind reports whether err wraps any of the defined kinds.
func IsKind(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEndOfDiscovery) ||
		errors.Is(err, ErrNotAllowed)
}
