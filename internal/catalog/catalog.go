// Package catalog defines the external music catalog boundary and provides
// a Spotify-backed implementation.
package catalog

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the catalog cannot be reached at all.
var ErrUnavailable = errors.New("catalog unavailable")

// Track is a candidate track from the catalog, without audio attributes.
type Track struct {
	ID          string
	Name        string
	Artist      string // Comma-separated artist names
	Album       string
	DurationMs  int
	Popularity  int // 0-100
	PreviewURL  string
	ExternalURL string
	CoverURL    string
}

// AttributeVector holds a track's continuous musical descriptors. Fields are
// nil when the provider has no data for that attribute; scoring renormalizes
// around absent attributes.
type AttributeVector struct {
	Valence          *float64
	Energy           *float64
	Danceability     *float64
	Acousticness     *float64
	Instrumentalness *float64
	Liveness         *float64
	Speechiness      *float64
	Tempo            *float64 // BPM
}

// Provider is the catalog contract the matching core consumes. Both
// operations are best-effort: a failed call for one query or track is
// skipped by the caller rather than aborting the request.
type Provider interface {
	// Search returns up to limit candidate tracks for a free-form query.
	Search(ctx context.Context, query string, limit int) ([]Track, error)

	// Attributes returns the attribute vector for a track, or (nil, nil)
	// when the provider has no attribute data for it.
	Attributes(ctx context.Context, trackID string) (*AttributeVector, error)
}

// Float returns a pointer to v. Convenience for building attribute vectors.
func Float(v float64) *float64 {
	return &v
}
