// Copyright (c) 2026 Lydcast. All rights reserved.

/*
Package social implements the community features attached to the episode
catalogue: comments, likes, favorites, and star reviews.

# Architecture

Every write operation here is session-gated and ownership-scoped: handlers
obtain the authenticated user from the request context (populated by the
session middleware) and services enforce that users can only mutate their
own content.
*/
package social

import "time"

// # Constraints

const (
	// MaxCommentLength bounds comment bodies.
	MaxCommentLength = 1000

	// MinRating and MaxRating bound star reviews.
	MinRating = 1
	MaxRating = 5
)

// # Domain Entities

// Comment is a user-authored remark on an episode.
type Comment struct {
	ID        int64     `json:"id"`
	EpisodeID int64     `json:"episode_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"` // Denormalized for display; joined at read time.
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeSummary reports an episode's like count and whether the current
// caller (if authenticated) has liked it.
type LikeSummary struct {
	EpisodeID int64 `json:"episode_id"`
	Count     int   `json:"count"`
	Liked     bool  `json:"liked"`
}

// Favorite marks an episode as saved by a user.
type Favorite struct {
	EpisodeID    int64     `json:"episode_id"`
	EpisodeTitle string    `json:"episode_title"`
	EpisodeSlug  string    `json:"episode_slug"`
	FavoritedAt  time.Time `json:"favorited_at"`
}

// Review is a user's star rating of an episode. One review per user per
// episode; re-submitting replaces the previous rating.
type Review struct {
	EpisodeID int64     `json:"episode_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"` // 1..5 stars.
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewStats aggregates an episode's reviews.
type ReviewStats struct {
	EpisodeID int64   `json:"episode_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	// Histogram holds the number of reviews per star value, index 0 = 1 star.
	Histogram [5]int `json:"histogram"`
}

// # Field Identifiers

const (
	FieldBody      = "body"
	FieldRating    = "rating"
	FieldEpisodeID = "episodeID"
	FieldCommentID = "commentID"
)
