// Copyright (c) 2026 Lydcast. All rights reserved.

package episode

import (
	"context"

	"github.com/almdal/lydcast/pkg/pagination"
	"github.com/almdal/lydcast/pkg/slug"
)

// Service implements the read-side catalogue use cases.
type Service struct {
	store Store
}

// NewService constructs a new [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

/*
List returns a page of published episodes with pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Episode: The requested page
  - pagination.Meta: Metadata for the response envelope
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Episode, pagination.Meta, error) {
	episodes, total, err := service.store.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return episodes, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
GetBySlug returns a single published episode.

Description: The incoming slug is normalized through the same pipeline that
produced the stored slugs, so case and accent variants still resolve.

Parameters:
  - context: context.Context
  - rawSlug: string

Returns:
  - *Episode: Hydrated entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetBySlug(context context.Context, rawSlug string) (*Episode, error) {
	return service.store.FindBySlug(context, slug.From(rawSlug))
}
