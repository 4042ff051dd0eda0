// Copyright (c) 2026 Lydcast. All rights reserved.

package episode

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

const episodeColumns = "id, title, slug, description, audio_url, duration_seconds, published_at, created_at"

/*
List returns a page of published episodes, newest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Episode: The requested page
  - int: Total published episode count
  - error: Database errors
*/
func (store *PostgresStore) List(context context.Context, limit, offset int) ([]*Episode, int, error) {
	const countQuery = "SELECT COUNT(*) FROM episodes WHERE published_at <= NOW()"

	var total int
	if err := store.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_episode_store_count_failed: %w", err)
	}

	query := "SELECT " + episodeColumns + `
		FROM episodes
		WHERE published_at <= NOW()
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_episode_store_list_failed: %w", err)
	}
	defer rows.Close()

	episodes := make([]*Episode, 0, limit)
	for rows.Next() {
		episode := &Episode{}
		if err := rows.Scan(
			&episode.ID,
			&episode.Title,
			&episode.Slug,
			&episode.Description,
			&episode.AudioURL,
			&episode.DurationSeconds,
			&episode.PublishedAt,
			&episode.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_episode_store_scan_failed: %w", err)
		}
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_episode_store_rows_failed: %w", err)
	}

	return episodes, total, nil
}

/*
FindBySlug retrieves a published episode by its slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Episode: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindBySlug(context context.Context, slug string) (*Episode, error) {
	query := "SELECT " + episodeColumns + " FROM episodes WHERE slug = $1 AND published_at <= NOW()"
	return store.findOne(context, query, slug)
}

/*
FindByID retrieves a published episode by its surrogate ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Episode: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresStore) FindByID(context context.Context, id int64) (*Episode, error) {
	query := "SELECT " + episodeColumns + " FROM episodes WHERE id = $1 AND published_at <= NOW()"
	return store.findOne(context, query, id)
}

// findOne runs a single-row episode query and maps absence to NotFound.
func (store *PostgresStore) findOne(context context.Context, query string, argument any) (*Episode, error) {
	episode := &Episode{}
	err := store.pool.QueryRow(context, query, argument).Scan(
		&episode.ID,
		&episode.Title,
		&episode.Slug,
		&episode.Description,
		&episode.AudioURL,
		&episode.DurationSeconds,
		&episode.PublishedAt,
		&episode.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Episode")
		}
		return nil, fmt.Errorf("postgres_episode_store_find_failed: %w", err)
	}

	return episode, nil
}
