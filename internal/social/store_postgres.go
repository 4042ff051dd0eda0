// Copyright (c) 2026 Lydcast. All rights reserved.

package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almdal/lydcast/internal/platform/apperr"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of [Store].
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Comments

/*
CreateComment persists a new comment row.

Parameters:
  - context: context.Context
  - comment: *Comment (ID and CreatedAt are populated on success)

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) CreateComment(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (episode_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := store.pool.QueryRow(context, query,
		comment.EpisodeID,
		comment.UserID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("postgres_social_store_create_comment_failed: %w", err)
	}

	return nil
}

/*
ListComments returns a page of comments for an episode, newest first.

Description: Joins the author's username for display so the client never
needs a second lookup.

Parameters:
  - context: context.Context
  - episodeID: int64
  - limit: int
  - offset: int

Returns:
  - []*Comment: The requested page
  - int: Total comment count on the episode
  - error: Database errors
*/
func (store *PostgresStore) ListComments(context context.Context, episodeID int64, limit, offset int) ([]*Comment, int, error) {
	const countQuery = "SELECT COUNT(*) FROM comments WHERE episode_id = $1"

	var total int
	if err := store.pool.QueryRow(context, countQuery, episodeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_count_comments_failed: %w", err)
	}

	const query = `
		SELECT c.id, c.episode_id, c.user_id, u.username, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.episode_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, query, episodeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_list_comments_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, limit)
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.EpisodeID,
			&comment.UserID,
			&comment.Username,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_social_store_scan_comment_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_comment_rows_failed: %w", err)
	}

	return comments, total, nil
}

/*
FindComment retrieves a single comment by ID.

Parameters:
  - context: context.Context
  - commentID: int64

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindComment(context context.Context, commentID int64) (*Comment, error) {
	const query = `
		SELECT c.id, c.episode_id, c.user_id, u.username, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	comment := &Comment{}
	err := store.pool.QueryRow(context, query, commentID).Scan(
		&comment.ID,
		&comment.EpisodeID,
		&comment.UserID,
		&comment.Username,
		&comment.Body,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_social_store_find_comment_failed: %w", err)
	}

	return comment, nil
}

/*
UpdateComment replaces a comment's body.

Parameters:
  - context: context.Context
  - commentID: int64
  - body: string

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) UpdateComment(context context.Context, commentID int64, body string) error {
	const query = "UPDATE comments SET body = $2 WHERE id = $1"

	_, err := store.pool.Exec(context, query, commentID, body)
	if err != nil {
		return fmt.Errorf("postgres_social_store_update_comment_failed: %w", err)
	}

	return nil
}

/*
DeleteComment permanently removes a comment row.

Parameters:
  - context: context.Context
  - commentID: int64

Returns:
  - error: Deletion failures
*/
func (store *PostgresStore) DeleteComment(context context.Context, commentID int64) error {
	const query = "DELETE FROM comments WHERE id = $1"

	_, err := store.pool.Exec(context, query, commentID)
	if err != nil {
		return fmt.Errorf("postgres_social_store_delete_comment_failed: %w", err)
	}

	return nil
}

// # Likes

/*
InsertLike records a like, ignoring duplicates.

Returns:
  - bool: true if the like was newly created
  - error: Persistence failures
*/
func (store *PostgresStore) InsertLike(context context.Context, episodeID, userID int64) (bool, error) {
	const query = `
		INSERT INTO episode_likes (episode_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	tag, err := store.pool.Exec(context, query, episodeID, userID)
	if err != nil {
		return false, fmt.Errorf("postgres_social_store_insert_like_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
DeleteLike removes a like.

Returns:
  - bool: true if a like existed and was removed
  - error: Deletion failures
*/
func (store *PostgresStore) DeleteLike(context context.Context, episodeID, userID int64) (bool, error) {
	const query = "DELETE FROM episode_likes WHERE episode_id = $1 AND user_id = $2"

	tag, err := store.pool.Exec(context, query, episodeID, userID)
	if err != nil {
		return false, fmt.Errorf("postgres_social_store_delete_like_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountLikes returns the number of likes on an episode.
func (store *PostgresStore) CountLikes(context context.Context, episodeID int64) (int, error) {
	const query = "SELECT COUNT(*) FROM episode_likes WHERE episode_id = $1"

	var count int
	if err := store.pool.QueryRow(context, query, episodeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_social_store_count_likes_failed: %w", err)
	}

	return count, nil
}

// HasLiked reports whether the user has liked the episode.
func (store *PostgresStore) HasLiked(context context.Context, episodeID, userID int64) (bool, error) {
	const query = "SELECT EXISTS(SELECT 1 FROM episode_likes WHERE episode_id = $1 AND user_id = $2)"

	var liked bool
	if err := store.pool.QueryRow(context, query, episodeID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("postgres_social_store_has_liked_failed: %w", err)
	}

	return liked, nil
}

// # Favorites

/*
AddFavorite saves an episode for a user. Idempotent via ON CONFLICT.

Parameters:
  - context: context.Context
  - episodeID: int64
  - userID: int64

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) AddFavorite(context context.Context, episodeID, userID int64) error {
	const query = `
		INSERT INTO favorites (episode_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	_, err := store.pool.Exec(context, query, episodeID, userID)
	if err != nil {
		return fmt.Errorf("postgres_social_store_add_favorite_failed: %w", err)
	}

	return nil
}

/*
RemoveFavorite removes a saved episode. A missing row is a no-op.

Parameters:
  - context: context.Context
  - episodeID: int64
  - userID: int64

Returns:
  - error: Deletion failures
*/
func (store *PostgresStore) RemoveFavorite(context context.Context, episodeID, userID int64) error {
	const query = "DELETE FROM favorites WHERE episode_id = $1 AND user_id = $2"

	_, err := store.pool.Exec(context, query, episodeID, userID)
	if err != nil {
		return fmt.Errorf("postgres_social_store_remove_favorite_failed: %w", err)
	}

	return nil
}

/*
ListFavorites returns a page of the user's saved episodes, most recent first.

Parameters:
  - context: context.Context
  - userID: int64
  - limit: int
  - offset: int

Returns:
  - []*Favorite: The requested page with joined episode metadata
  - int: Total favorite count for the user
  - error: Database errors
*/
func (store *PostgresStore) ListFavorites(context context.Context, userID int64, limit, offset int) ([]*Favorite, int, error) {
	const countQuery = "SELECT COUNT(*) FROM favorites WHERE user_id = $1"

	var total int
	if err := store.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_count_favorites_failed: %w", err)
	}

	const query = `
		SELECT f.episode_id, e.title, e.slug, f.created_at
		FROM favorites f
		JOIN episodes e ON e.id = f.episode_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_list_favorites_failed: %w", err)
	}
	defer rows.Close()

	favorites := make([]*Favorite, 0, limit)
	for rows.Next() {
		favorite := &Favorite{}
		if err := rows.Scan(
			&favorite.EpisodeID,
			&favorite.EpisodeTitle,
			&favorite.EpisodeSlug,
			&favorite.FavoritedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_social_store_scan_favorite_failed: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_store_favorite_rows_failed: %w", err)
	}

	return favorites, total, nil
}

// # Reviews

/*
UpsertReview inserts or replaces the user's rating for an episode.

Description: The (episode_id, user_id) primary key makes resubmission an
update, so a user can never hold two ratings on one episode.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) UpsertReview(context context.Context, review *Review) error {
	const query = `
		INSERT INTO episode_reviews (episode_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (episode_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()
		RETURNING updated_at`

	err := store.pool.QueryRow(context, query,
		review.EpisodeID,
		review.UserID,
		review.Rating,
	).Scan(&review.UpdatedAt)

	if err != nil {
		return fmt.Errorf("postgres_social_store_upsert_review_failed: %w", err)
	}

	return nil
}

/*
DeleteReview removes the user's rating. A missing row is a no-op.

Parameters:
  - context: context.Context
  - episodeID: int64
  - userID: int64

Returns:
  - error: Deletion failures
*/
func (store *PostgresStore) DeleteReview(context context.Context, episodeID, userID int64) error {
	const query = "DELETE FROM episode_reviews WHERE episode_id = $1 AND user_id = $2"

	_, err := store.pool.Exec(context, query, episodeID, userID)
	if err != nil {
		return fmt.Errorf("postgres_social_store_delete_review_failed: %w", err)
	}

	return nil
}

/*
ReviewStats aggregates the episode's ratings.

Description: One grouped query produces the per-star histogram; count and
average are derived from it in memory.

Parameters:
  - context: context.Context
  - episodeID: int64

Returns:
  - *ReviewStats: Count, average, and histogram (all zero when unreviewed)
  - error: Database errors
*/
func (store *PostgresStore) ReviewStats(context context.Context, episodeID int64) (*ReviewStats, error) {
	const query = `
		SELECT rating, COUNT(*)
		FROM episode_reviews
		WHERE episode_id = $1
		GROUP BY rating`

	rows, err := store.pool.Query(context, query, episodeID)
	if err != nil {
		return nil, fmt.Errorf("postgres_social_store_review_stats_failed: %w", err)
	}
	defer rows.Close()

	stats := &ReviewStats{EpisodeID: episodeID}
	sum := 0

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("postgres_social_store_scan_stats_failed: %w", err)
		}
		if rating >= MinRating && rating <= MaxRating {
			stats.Histogram[rating-1] = count
			stats.Count += count
			sum += rating * count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_social_store_stats_rows_failed: %w", err)
	}

	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}

	return stats, nil
}
