// Package matcher discovers catalog candidates and scores them against a
// target preference vector under a tolerance-weighted similarity model.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/monisha-alt/sonic-aura-stream/internal/catalog"
	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
)

// ErrNoCandidates is returned when no candidate clears the minimum-relevance
// threshold across all discovery queries. Callers fall back to a
// popularity-only candidate set.
var ErrNoCandidates = errors.New("no candidates above relevance threshold")

const (
	// minRelevance is the score a candidate must exceed to be kept.
	minRelevance = 0.3

	// fallbackScore is the flat score assigned to popularity-only
	// fallback candidates.
	fallbackScore = 0.5

	// attributeBatchSize bounds attribute lookups issued back to back.
	attributeBatchSize = 10

	// defaultBatchPause is the pause between attribute lookup batches.
	defaultBatchPause = 100 * time.Millisecond

	maxQueries     = 5
	maxSearchLimit = 50
)

// Match wraps a candidate track with its match score and per-attribute fit.
type Match struct {
	Track catalog.Track
	Score float64
	Fit   map[string]float64
}

// Matcher finds and scores candidate tracks. It holds no request state; one
// instance serves concurrent requests.
type Matcher struct {
	provider   catalog.Provider
	log        zerolog.Logger
	batchPause time.Duration
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithBatchPause sets the pause between attribute lookup batches.
func WithBatchPause(d time.Duration) Option {
	return func(m *Matcher) {
		m.batchPause = d
	}
}

// New creates a Matcher backed by the given catalog provider.
func New(provider catalog.Provider, log zerolog.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		provider:   provider,
		log:        log.With().Str("component", "matcher").Logger(),
		batchPause: defaultBatchPause,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Find returns up to limit candidates matching the preference vector,
// sorted by descending match score.
//
// Individual query and attribute failures are logged and skipped; the
// matcher proceeds with whatever succeeded. When every query fails the
// catalog is considered unreachable and catalog.ErrUnavailable is returned.
// When queries succeed but nothing clears the relevance threshold,
// ErrNoCandidates is returned.
func (m *Matcher) Find(ctx context.Context, profile emotion.Profile, prefs emotion.Preferences, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	queries := buildQueries(profile, prefs)
	perQuery := min(maxSearchLimit, limit*2)

	var candidates []catalog.Track
	seen := make(map[string]struct{})
	failed := 0

	for _, query := range queries {
		tracks, err := m.provider.Search(ctx, query, perQuery)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.log.Warn().Err(err).Str("query", query).Msg("search query failed, skipping")
			failed++
			continue
		}
		// Deduplicate across queries; first occurrence wins.
		for _, t := range tracks {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			candidates = append(candidates, t)
		}
	}

	if failed == len(queries) {
		return nil, fmt.Errorf("all %d discovery queries failed: %w", failed, catalog.ErrUnavailable)
	}

	matches, err := m.scoreCandidates(ctx, candidates, prefs)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoCandidates
	}

	sortMatches(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// scoreCandidates fetches attribute vectors in small bounded batches with a
// brief pause between batches, scoring each candidate as its attributes
// arrive. A candidate whose attributes cannot be retrieved is skipped.
func (m *Matcher) scoreCandidates(ctx context.Context, candidates []catalog.Track, prefs emotion.Preferences) ([]Match, error) {
	var matches []Match

	for i := 0; i < len(candidates); i += attributeBatchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.batchPause):
			}
		}

		end := min(i+attributeBatchSize, len(candidates))
		for _, track := range candidates[i:end] {
			attrs, err := m.provider.Attributes(ctx, track.ID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				m.log.Warn().Err(err).Str("track", track.ID).Msg("attribute lookup failed, skipping track")
				continue
			}
			if attrs == nil {
				continue
			}

			score, fit := scoreTrack(track, attrs, prefs)
			if score > minRelevance {
				matches = append(matches, Match{Track: track, Score: score, Fit: fit})
			}
		}
	}

	return matches, nil
}

// Fallback returns a popularity-only candidate set with a flat neutral
// score, used when no candidate clears the relevance threshold.
func (m *Matcher) Fallback(ctx context.Context, prefs emotion.Preferences, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	query := "year:2020-2025"
	if len(prefs.Genres) > 0 {
		query = "genre:" + prefs.Genres[0]
	}

	tracks, err := m.provider.Search(ctx, query, min(maxSearchLimit, limit*2))
	if err != nil {
		return nil, fmt.Errorf("fallback search failed: %w", catalog.ErrUnavailable)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Popularity > tracks[j].Popularity
	})
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	m.log.Info().Int("count", len(tracks)).Msg("using popularity-only fallback candidates")

	matches := make([]Match, len(tracks))
	for i, t := range tracks {
		matches[i] = Match{
			Track: t,
			Score: fallbackScore,
			Fit:   map[string]float64{"valence": 0.5, "energy": 0.5},
		}
	}
	return matches, nil
}

// sortMatches orders by descending score, breaking ties by track ID so
// repeated runs over the same pool produce identical order.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Track.ID < matches[j].Track.ID
	})
}
