// Copyright (c) 2026 Lydcast. All rights reserved.

package social

import "context"

// Store defines the data access contract for the social domain.
//
// # Architecture
//
// One interface covers comments, likes, favorites, and reviews: they share
// a storage backend and are always wired together. The PostgreSQL
// implementation lives in store_postgres.go.
type Store interface {

	// # Comments

	// CreateComment persists a new comment and hydrates its ID and timestamp.
	CreateComment(ctx context.Context, comment *Comment) error

	// ListComments returns a page of comments for an episode (newest first)
	// and the total count.
	ListComments(ctx context.Context, episodeID int64, limit, offset int) ([]*Comment, int, error)

	// FindComment returns the comment with the given ID, or apperr.NotFound.
	FindComment(ctx context.Context, commentID int64) (*Comment, error)

	// UpdateComment replaces a comment's body.
	UpdateComment(ctx context.Context, commentID int64, body string) error

	// DeleteComment permanently removes a comment.
	DeleteComment(ctx context.Context, commentID int64) error

	// # Likes

	// InsertLike records a like. Returns false if the like already existed.
	InsertLike(ctx context.Context, episodeID, userID int64) (bool, error)

	// DeleteLike removes a like. Returns false if no like existed.
	DeleteLike(ctx context.Context, episodeID, userID int64) (bool, error)

	// CountLikes returns the number of likes on an episode.
	CountLikes(ctx context.Context, episodeID int64) (int, error)

	// HasLiked reports whether the user has liked the episode.
	HasLiked(ctx context.Context, episodeID, userID int64) (bool, error)

	// # Favorites

	// AddFavorite saves an episode for a user. Idempotent.
	AddFavorite(ctx context.Context, episodeID, userID int64) error

	// RemoveFavorite removes a saved episode. Removing an absent favorite
	// is not an error.
	RemoveFavorite(ctx context.Context, episodeID, userID int64) error

	// ListFavorites returns a page of the user's saved episodes (most
	// recently saved first) and the total count.
	ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]*Favorite, int, error)

	// # Reviews

	// UpsertReview inserts or replaces the user's star rating for an episode.
	UpsertReview(ctx context.Context, review *Review) error

	// DeleteReview removes the user's rating. Removing an absent review is
	// not an error.
	DeleteReview(ctx context.Context, episodeID, userID int64) error

	// ReviewStats aggregates the episode's ratings into count, average,
	// and a per-star histogram.
	ReviewStats(ctx context.Context, episodeID int64) (*ReviewStats, error)
}
