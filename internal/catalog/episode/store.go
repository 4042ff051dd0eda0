// Copyright (c) 2026 Lydcast. All rights reserved.

package episode

import "context"

// Store defines the data access contract for the episode catalogue.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs; the PostgreSQL implementation lives
// alongside it in store_postgres.go.
type Store interface {
	// List returns a page of published episodes ordered by publication date
	// (newest first), and the total count for pagination.
	//
	// Returns:
	//   - []*Episode: The episodes on the requested page.
	//   - int: Total count of published episodes.
	//   - error: Database or connection errors.
	List(ctx context.Context, limit, offset int) ([]*Episode, int, error)

	// FindBySlug returns the episode with the given slug.
	//
	// It returns apperr.NotFound if no match is found.
	FindBySlug(ctx context.Context, slug string) (*Episode, error)

	// FindByID returns the episode with the given ID.
	//
	// It returns apperr.NotFound if no match is found. Used by the social
	// layer to verify an episode exists before attaching content to it.
	FindByID(ctx context.Context, id int64) (*Episode, error)
}
