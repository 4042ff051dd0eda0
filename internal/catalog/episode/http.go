// Copyright (c) 2026 Lydcast. All rights reserved.

package episode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/almdal/lydcast/internal/platform/request"
	"github.com/almdal/lydcast/internal/platform/respond"
	"github.com/almdal/lydcast/pkg/pagination"
)

// Handler implements the public catalogue endpoints.
type Handler struct {
	episodeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{episodeService: service}
}

// Routes returns a [chi.Router] configured with catalogue routes.
//
// # Endpoints
//   - GET /        : Paginated episode list, newest first.
//   - GET /{slug}  : Single episode by slug.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.get)

	return router
}

/*
List returns the published episode catalogue.

GET /api/v1/episodes?page=1&limit=20

Response:
  - 200: []Episode with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	episodes, meta, err := handler.episodeService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, episodes, meta)
}

/*
Get returns a single episode by slug.

GET /api/v1/episodes/{slug}

Response:
  - 200: Episode
  - 404: ErrNotFound: No such episode
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	episode, err := handler.episodeService.GetBySlug(request.Context(), requestutil.Param(request, FieldSlug))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, episode)
}
