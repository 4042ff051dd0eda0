// Copyright (c) 2026 Lydcast. All rights reserved.

/*
Package episode implements the podcast episode catalogue.

It defines the Episode aggregate and the read-side operations that the
public API exposes. The catalogue is the content that the social features
(comments, likes, favorites, reviews) attach to.
*/
package episode

import "time"

// Episode is the central content aggregate of the Lydcast domain.
//
// # Overview
//
// It represents a single published podcast episode in the catalogue. Write
// operations (publishing, editing) happen through an internal tool and are
// out of scope for the public API, which only lists and reads.
type Episode struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"` // URL-safe identifier (e.g. "afsnit-12-det-store-gennembrud").
	Description     string    `json:"description"`
	AudioURL        string    `json:"audio_url"`
	DurationSeconds int       `json:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldSlug = "slug"
)
