// Copyright (c) 2026 Lydcast. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almdal/lydcast/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline over representative inputs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"episode_title", "Afsnit 12: Det store gennembrud!", "afsnit-12-det-store-gennembrud"},
		{"accents_removed", "Café au Lait", "cafe-au-lait"},
		{"multiple_spaces", "  too   many    spaces  ", "too-many-spaces"},
		{"uppercase", "SHOUTING TITLE", "shouting-title"},
		{"punctuation", "what?!? (really)", "what-really"},
		{"leading_trailing_hyphens", "---edge---", "edge"},
		{"digits_kept", "Top 10 af 2026", "top-10-af-2026"},
		{"empty", "", ""},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Idempotent verifies that slugging a slug is a no-op.
*/
func TestFrom_Idempotent(t *testing.T) {
	once := slug.From("Afsnit 12: Det store gennembrud!")
	twice := slug.From(once)

	assert.Equal(t, once, twice)
}
