// Copyright (c) 2026 Lydcast. All rights reserved.

package social

import (
	"context"
	"strings"

	"github.com/almdal/lydcast/internal/catalog/episode"
	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/sec"
	"github.com/almdal/lydcast/pkg/pagination"
)

// Service implements the social use cases.
//
// # Ownership
//
// Mutations are scoped to the authenticated identity passed in by the
// handler; attempting to touch someone else's content yields Forbidden.
type Service struct {
	store    Store
	episodes episode.Store
}

// NewService constructs a new [Service].
func NewService(store Store, episodes episode.Store) *Service {
	return &Service{store: store, episodes: episodes}
}

// requireEpisode verifies the target episode exists before attaching
// content to it. Absent episodes yield apperr.NotFound.
func (service *Service) requireEpisode(context context.Context, episodeID int64) error {
	_, err := service.episodes.FindByID(context, episodeID)
	return err
}

// # Comments

/*
AddComment attaches a new comment to an episode.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64
  - body: string

Returns:
  - *Comment: Created entity with joined username
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) AddComment(context context.Context, identity *sec.SessionUser, episodeID int64, body string) (*Comment, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, err
	}

	comment := &Comment{
		EpisodeID: episodeID,
		UserID:    identity.UserID,
		Username:  identity.Username,
		Body:      strings.TrimSpace(body),
	}

	if err := service.store.CreateComment(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
ListComments returns a page of an episode's comments.

Parameters:
  - context: context.Context
  - episodeID: int64
  - params: pagination.Params

Returns:
  - []*Comment: Newest first
  - pagination.Meta: Metadata for the response envelope
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) ListComments(context context.Context, episodeID int64, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.store.ListComments(context, episodeID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
DeleteComment removes a comment owned by the caller.

Description: Unknown comments yield NotFound; someone else's comment yields
Forbidden. Only then is the row removed.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - commentID: int64

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) DeleteComment(context context.Context, identity *sec.SessionUser, commentID int64) error {
	comment, err := service.store.FindComment(context, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != identity.UserID {
		return apperr.Forbidden("You can only delete your own comments")
	}

	return service.store.DeleteComment(context, commentID)
}

/*
UpdateComment replaces the body of a comment owned by the caller.

Description: Same ownership rules as deletion: unknown comments yield
NotFound, someone else's comment yields Forbidden.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - commentID: int64
  - body: string

Returns:
  - *Comment: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) UpdateComment(context context.Context, identity *sec.SessionUser, commentID int64, body string) (*Comment, error) {
	comment, err := service.store.FindComment(context, commentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != identity.UserID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	comment.Body = strings.TrimSpace(body)
	if err := service.store.UpdateComment(context, commentID, comment.Body); err != nil {
		return nil, err
	}

	return comment, nil
}

// # Likes

/*
ToggleLike flips the caller's like on an episode.

Description: Liking an already-liked episode removes the like. The returned
summary reflects the state after the toggle.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64

Returns:
  - *LikeSummary: Post-toggle count and liked flag
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) ToggleLike(context context.Context, identity *sec.SessionUser, episodeID int64) (*LikeSummary, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, err
	}

	// Try to like; if it already existed, unlike instead
	created, err := service.store.InsertLike(context, episodeID, identity.UserID)
	if err != nil {
		return nil, err
	}

	liked := true
	if !created {
		if _, err := service.store.DeleteLike(context, episodeID, identity.UserID); err != nil {
			return nil, err
		}
		liked = false
	}

	count, err := service.store.CountLikes(context, episodeID)
	if err != nil {
		return nil, err
	}

	return &LikeSummary{EpisodeID: episodeID, Count: count, Liked: liked}, nil
}

/*
LikeSummaryFor returns an episode's like count and the caller's liked state.

Description: identity may be nil (anonymous caller); Liked is then false.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser (nullable)
  - episodeID: int64

Returns:
  - *LikeSummary: Count and liked flag
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) LikeSummaryFor(context context.Context, identity *sec.SessionUser, episodeID int64) (*LikeSummary, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, err
	}

	count, err := service.store.CountLikes(context, episodeID)
	if err != nil {
		return nil, err
	}

	liked := false
	if identity != nil {
		liked, err = service.store.HasLiked(context, episodeID, identity.UserID)
		if err != nil {
			return nil, err
		}
	}

	return &LikeSummary{EpisodeID: episodeID, Count: count, Liked: liked}, nil
}

// # Favorites

/*
AddFavorite saves an episode for the caller. Idempotent.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64

Returns:
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) AddFavorite(context context.Context, identity *sec.SessionUser, episodeID int64) error {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return err
	}

	return service.store.AddFavorite(context, episodeID, identity.UserID)
}

/*
RemoveFavorite removes a saved episode for the caller. Idempotent.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64

Returns:
  - error: Storage failures
*/
func (service *Service) RemoveFavorite(context context.Context, identity *sec.SessionUser, episodeID int64) error {
	return service.store.RemoveFavorite(context, episodeID, identity.UserID)
}

/*
ListFavorites returns a page of the caller's saved episodes.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - params: pagination.Params

Returns:
  - []*Favorite: Most recently saved first
  - pagination.Meta: Metadata for the response envelope
  - error: Storage failures
*/
func (service *Service) ListFavorites(context context.Context, identity *sec.SessionUser, params pagination.Params) ([]*Favorite, pagination.Meta, error) {
	favorites, total, err := service.store.ListFavorites(context, identity.UserID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return favorites, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Reviews

/*
SubmitReview inserts or replaces the caller's star rating for an episode.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64
  - rating: int (1..5)

Returns:
  - *Review: The stored rating
  - error: apperr.NotFound for unknown episodes, validation, or storage failures
*/
func (service *Service) SubmitReview(context context.Context, identity *sec.SessionUser, episodeID int64, rating int) (*Review, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, err
	}

	review := &Review{
		EpisodeID: episodeID,
		UserID:    identity.UserID,
		Rating:    rating,
	}

	if err := service.store.UpsertReview(context, review); err != nil {
		return nil, err
	}

	return review, nil
}

/*
RetractReview removes the caller's rating for an episode. Idempotent.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - episodeID: int64

Returns:
  - error: Storage failures
*/
func (service *Service) RetractReview(context context.Context, identity *sec.SessionUser, episodeID int64) error {
	return service.store.DeleteReview(context, episodeID, identity.UserID)
}

/*
Stats aggregates an episode's ratings.

Parameters:
  - context: context.Context
  - episodeID: int64

Returns:
  - *ReviewStats: Count, average, histogram
  - error: apperr.NotFound for unknown episodes, or storage failures
*/
func (service *Service) Stats(context context.Context, episodeID int64) (*ReviewStats, error) {
	if err := service.requireEpisode(context, episodeID); err != nil {
		return nil, err
	}

	return service.store.ReviewStats(context, episodeID)
}
