// Copyright (c) 2026 Lydcast. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almdal/lydcast/pkg/pagination"
)

/*
TestFromRequest verifies query parameter parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page_clamped", "?page=0", 1, 20},
		{"negative_limit_clamped", "?limit=-5", 1, 20},
		{"excessive_limit_clamped", "?limit=9999", 1, 20},
		{"max_limit_allowed", "?limit=100", 1, 100},
		{"garbage_ignored", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/episodes"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.expectedPage, params.Page)
			assert.Equal(t, tt.expectedLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies SQL offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page calculation, including partial last pages.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name               string
		total              int
		limit              int
		expectedTotalPages int
	}{
		{"exact_division", 100, 20, 5},
		{"partial_last_page", 101, 20, 6},
		{"single_item", 1, 20, 1},
		{"empty", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(1, tt.limit, tt.total)

			assert.Equal(t, tt.expectedTotalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}
