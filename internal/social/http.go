// Copyright (c) 2026 Lydcast. All rights reserved.

package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almdal/lydcast/internal/platform/middleware"
	requestutil "github.com/almdal/lydcast/internal/platform/request"
	"github.com/almdal/lydcast/internal/platform/respond"
	"github.com/almdal/lydcast/internal/platform/validate"
	"github.com/almdal/lydcast/pkg/pagination"
)

// Handler implements the social HTTP endpoints.
type Handler struct {
	socialService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{socialService: service}
}

// Routes returns a [chi.Router] configured with the social routes.
//
// # Endpoints
//
// Public reads:
//   - GET /episodes/{episodeID}/likes         : Like count (+ liked flag if authenticated).
//   - GET /episodes/{episodeID}/reviews/stats : Rating aggregate.
//
// Session required:
//   - GET    /episodes/{episodeID}/comments : Paginated comments.
//   - POST   /episodes/{episodeID}/comments : Add a comment.
//   - PUT    /comments/{commentID}          : Edit own comment.
//   - DELETE /comments/{commentID}          : Delete own comment.
//   - POST   /episodes/{episodeID}/like     : Toggle like.
//   - GET    /favorites                     : List saved episodes.
//   - PUT    /favorites/{episodeID}         : Save an episode.
//   - DELETE /favorites/{episodeID}         : Unsave an episode.
//   - PUT    /episodes/{episodeID}/review   : Submit/replace rating.
//   - DELETE /episodes/{episodeID}/review   : Retract rating.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public reads
	router.Get("/episodes/{episodeID}/likes", handler.likeSummary)
	router.Get("/episodes/{episodeID}/reviews/stats", handler.reviewStats)

	// Session required. The comment feed itself is members-only, matching
	// the rest of the community surface.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/episodes/{episodeID}/comments", handler.listComments)
		r.Post("/episodes/{episodeID}/comments", handler.addComment)
		r.Put("/comments/{commentID}", handler.updateComment)
		r.Delete("/comments/{commentID}", handler.deleteComment)
		r.Post("/episodes/{episodeID}/like", handler.toggleLike)
		r.Get("/favorites", handler.listFavorites)
		r.Put("/favorites/{episodeID}", handler.addFavorite)
		r.Delete("/favorites/{episodeID}", handler.removeFavorite)
		r.Put("/episodes/{episodeID}/review", handler.submitReview)
		r.Delete("/episodes/{episodeID}/review", handler.retractReview)
	})

	return router
}

// # Request Payloads

type addCommentRequest struct {
	Body string `json:"body"`
}

type submitReviewRequest struct {
	Rating int `json:"rating"`
}

// # Comments

/*
ListComments returns an episode's comments.

GET /api/v1/social/episodes/{episodeID}/comments?page=1&limit=20

Response:
  - 200: []Comment with pagination metadata
  - 401: ErrUnauthorized: No active session
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, meta, err := handler.socialService.ListComments(request.Context(), episodeID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta)
}

/*
AddComment attaches a comment to an episode.

POST /api/v1/social/episodes/{episodeID}/comments

Request:
  - Body: addCommentRequest (Body)

Response:
  - 201: Comment
  - 400: ErrValidation: Empty or oversized body
  - 401: ErrUnauthorized: No active session
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxCommentLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.socialService.AddComment(request.Context(), identity, episodeID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
UpdateComment edits the caller's own comment.

PUT /api/v1/social/comments/{commentID}

Request:
  - Body: addCommentRequest (Body)

Response:
  - 200: Comment: The updated comment
  - 400: ErrValidation: Empty or oversized body
  - 401: ErrUnauthorized: No active session
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: No such comment
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.IntParam(request, FieldCommentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxCommentLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.socialService.UpdateComment(request.Context(), identity, commentID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DeleteComment removes the caller's own comment.

DELETE /api/v1/social/comments/{commentID}

Response:
  - 204: No Content: Comment removed
  - 401: ErrUnauthorized: No active session
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: No such comment
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.IntParam(request, FieldCommentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.socialService.DeleteComment(request.Context(), identity, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Likes

/*
ToggleLike flips the caller's like on an episode.

POST /api/v1/social/episodes/{episodeID}/like

Response:
  - 200: LikeSummary: Post-toggle state
  - 401: ErrUnauthorized: No active session
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.socialService.ToggleLike(request.Context(), identity, episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

/*
LikeSummary returns an episode's like count.

GET /api/v1/social/episodes/{episodeID}/likes

Description: Anonymous callers get Liked=false; authenticated callers get
their own liked state.

Response:
  - 200: LikeSummary
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) likeSummary(writer http.ResponseWriter, request *http.Request) {
	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.socialService.LikeSummaryFor(request.Context(), requestutil.Session(request), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

// # Favorites

/*
ListFavorites returns the caller's saved episodes.

GET /api/v1/social/favorites?page=1&limit=20

Response:
  - 200: []Favorite with pagination metadata
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorites, meta, err := handler.socialService.ListFavorites(request.Context(), identity, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, favorites, meta)
}

/*
AddFavorite saves an episode. Idempotent.

PUT /api/v1/social/favorites/{episodeID}

Response:
  - 204: No Content: Saved
  - 401: ErrUnauthorized: No active session
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.socialService.AddFavorite(request.Context(), identity, episodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
RemoveFavorite unsaves an episode. Idempotent.

DELETE /api/v1/social/favorites/{episodeID}

Response:
  - 204: No Content: Removed
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.socialService.RemoveFavorite(request.Context(), identity, episodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Reviews

/*
SubmitReview submits or replaces the caller's star rating.

PUT /api/v1/social/episodes/{episodeID}/review

Request:
  - Body: submitReviewRequest (Rating 1..5)

Response:
  - 200: Review: The stored rating
  - 400: ErrValidation: Rating out of range
  - 401: ErrUnauthorized: No active session
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) submitReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Range(FieldRating, input.Rating, MinRating, MaxRating)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.socialService.SubmitReview(request.Context(), identity, episodeID, input.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
ReviewStats returns an episode's aggregated ratings.

GET /api/v1/social/episodes/{episodeID}/reviews/stats

Response:
  - 200: ReviewStats: Count, average, per-star histogram
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) reviewStats(writer http.ResponseWriter, request *http.Request) {
	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.socialService.Stats(request.Context(), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

/*
RetractReview removes the caller's rating. Idempotent.

DELETE /api/v1/social/episodes/{episodeID}/review

Response:
  - 204: No Content: Removed
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) retractReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.IntParam(request, FieldEpisodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.socialService.RetractReview(request.Context(), identity, episodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
