// Copyright (c) 2026 Lydcast. All rights reserved.

package episode_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almdal/lydcast/internal/catalog/episode"
	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/pkg/pagination"
)

// fakeStore implements [episode.Store] over a fixed, ordered slice.
type fakeStore struct {
	episodes []*episode.Episode
}

func (s *fakeStore) List(_ context.Context, limit, offset int) ([]*episode.Episode, int, error) {
	total := len(s.episodes)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return s.episodes[offset:end], total, nil
}

func (s *fakeStore) FindBySlug(_ context.Context, slug string) (*episode.Episode, error) {
	for _, e := range s.episodes {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, apperr.NotFound("Episode")
}

func (s *fakeStore) FindByID(_ context.Context, id int64) (*episode.Episode, error) {
	for _, e := range s.episodes {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperr.NotFound("Episode")
}

func newTestService() *episode.Service {
	return episode.NewService(&fakeStore{episodes: []*episode.Episode{
		{ID: 1, Title: "Det store gennembrud", Slug: "det-store-gennembrud"},
		{ID: 2, Title: "Bag om mikrofonen", Slug: "bag-om-mikrofonen"},
		{ID: 3, Title: "Afsnit tre", Slug: "afsnit-tre"},
	}})
}

/*
TestService_List verifies paging and the derived metadata.
*/
func TestService_List(t *testing.T) {
	service := newTestService()

	episodes, meta, err := service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, episodes, 1)
	assert.Equal(t, int64(3), episodes[0].ID)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestService_GetBySlug verifies lookup and slug normalization of the incoming
path segment.
*/
func TestService_GetBySlug(t *testing.T) {
	service := newTestService()

	tests := []struct {
		name    string
		rawSlug string
		found   bool
	}{
		{"exact", "det-store-gennembrud", true},
		{"uppercase_normalized", "Det-Store-Gennembrud", true},
		{"unknown", "no-such-episode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := service.GetBySlug(context.Background(), tt.rawSlug)

			if tt.found {
				require.NoError(t, err)
				assert.Equal(t, "det-store-gennembrud", found.Slug)
			} else {
				require.Error(t, err)
				assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
			}
		})
	}
}
