// Package engine orchestrates the recommendation pipeline: profile
// building, context adjustment, catalog matching, personalization, ranking,
// diversity filtering and playlist curation, plus the natural-language
// reasoning attached to each result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
	"github.com/monisha-alt/sonic-aura-stream/internal/playlist"
	"github.com/monisha-alt/sonic-aura-stream/internal/ranker"
)

// Mode selects the shape of a recommendation result.
type Mode string

// Recommendation modes.
const (
	ModeTracks   Mode = "tracks"
	ModePlaylist Mode = "playlist"
	ModeMixed    Mode = "mixed"
)

const (
	defaultIntensity  = 0.7
	defaultConfidence = 0.8
	defaultLimit      = 20
)

// HistoryStore supplies optional personalization signals and records
// emotion events. The engine works fully without one.
type HistoryStore interface {
	PersonalizationFor(ctx context.Context, userID string) (*ranker.Personalization, error)
	RecordEmotion(ctx context.Context, userID string, p emotion.Profile) error
}

// Request describes one recommendation run.
type Request struct {
	Emotion    string
	Intensity  float64
	Confidence float64
	Context    *ranker.Context
	UserID     string
	Mode       Mode
	Limit      int
}

// Result is the outcome of a recommendation run. Degraded marks results
// produced by the popularity-only fallback path.
type Result struct {
	Recommendations        []matcher.Match
	Playlist               *playlist.Playlist
	Reasoning              string
	Confidence             float64
	ContextFactors         []string
	AlternativeSuggestions []string
	Degraded               bool
	CreatedAt              time.Time
}

// Engine wires the pipeline stages together. History is optional.
type Engine struct {
	matcher *matcher.Matcher
	curator *playlist.Curator
	history HistoryStore
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory attaches a personalization source.
func WithHistory(h HistoryStore) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine.
func New(m *matcher.Matcher, c *playlist.Curator, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		matcher: m,
		curator: c,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend runs the full pipeline for a request. The only hard failure is
// total catalog unavailability; an exhausted candidate pool degrades to the
// popularity-only fallback instead.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	applyDefaults(&req)

	activity := ""
	if req.Context != nil {
		activity = req.Context.Activity
	}
	profile := emotion.BuildProfile(req.Emotion, req.Intensity, req.Confidence, activity)
	modified := ranker.ApplyContext(profile, req.Context)
	prefs := emotion.BuildPreferences(modified)

	e.recordEmotion(ctx, req.UserID, profile)

	matches, err := e.matcher.Find(ctx, modified, prefs, req.Limit*2)
	if errors.Is(err, matcher.ErrNoCandidates) {
		return e.fallbackResult(ctx, req, profile, prefs)
	}
	if err != nil {
		return nil, fmt.Errorf("finding matches: %w", err)
	}

	personalized := ranker.Personalize(matches, e.personalization(ctx, req))
	ranked := ranker.Rank(personalized, req.Context)
	if len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	diverse := ranker.Diversify(ranked)

	var pl *playlist.Playlist
	if req.Mode == ModePlaylist || req.Mode == ModeMixed {
		pl = e.curator.Standard(diverse, modified.Primary, modified.Intensity)
	}

	return &Result{
		Recommendations:        diverse,
		Playlist:               pl,
		Reasoning:              reasoningText(profile, req.Context, diverse, false),
		Confidence:             overallConfidence(req.Confidence, len(diverse), req.Context),
		ContextFactors:         contextFactors(req.Context, modified),
		AlternativeSuggestions: alternativeSuggestions(profile.Primary, req.Context),
		CreatedAt:              e.now(),
	}, nil
}

// fallbackResult builds the degraded result used when no candidate cleared
// the relevance threshold.
func (e *Engine) fallbackResult(ctx context.Context, req Request, profile emotion.Profile, prefs emotion.Preferences) (*Result, error) {
	e.log.Warn().
		Str("emotion", req.Emotion).
		Msg("no candidates above threshold, using popularity fallback")

	matches, err := e.matcher.Fallback(ctx, prefs, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}

	var pl *playlist.Playlist
	if req.Mode == ModePlaylist || req.Mode == ModeMixed {
		pl = e.curator.Fallback(matches, string(profile.Primary), profile.Intensity)
	}

	conf := overallConfidence(req.Confidence, len(matches), req.Context) - degradedPenalty
	if conf < 0 {
		conf = 0
	}

	return &Result{
		Recommendations:        matches,
		Playlist:               pl,
		Reasoning:              reasoningText(profile, req.Context, matches, true),
		Confidence:             conf,
		ContextFactors:         contextFactors(req.Context, profile),
		AlternativeSuggestions: alternativeSuggestions(profile.Primary, req.Context),
		Degraded:               true,
		CreatedAt:              e.now(),
	}, nil
}

// MoodPlaylist builds a standard playlist for one emotion label.
func (e *Engine) MoodPlaylist(ctx context.Context, label string, intensity float64) (*playlist.Playlist, error) {
	profile := emotion.BuildProfile(label, intensity, defaultConfidence, "")
	prefs := emotion.BuildPreferences(profile)

	matches, err := e.findOrFallback(ctx, profile, prefs, playlist.DefaultTrackCount)
	if err != nil {
		return nil, err
	}
	ranked := ranker.Diversify(ranker.Rank(matches, nil))
	return e.curator.Standard(ranked, profile.Primary, profile.Intensity), nil
}

// ContextualPlaylist builds a playlist shaped by situational context.
func (e *Engine) ContextualPlaylist(ctx context.Context, label string, intensity float64, cc playlist.ContextConfig) (*playlist.Playlist, error) {
	profile := emotion.BuildProfile(label, intensity, defaultConfidence, cc.Activity)
	rc := &ranker.Context{
		TimeOfDay: cc.TimeOfDay,
		Activity:  cc.Activity,
		Weather:   cc.Weather,
	}
	modified := ranker.ApplyContext(profile, rc)
	prefs := emotion.BuildPreferences(modified)
	prefs.Genres = mergeGenres(prefs.Genres, ranker.ContextGenres(rc))

	matches, err := e.findOrFallback(ctx, modified, prefs, cc.TrackCount())
	if err != nil {
		return nil, err
	}
	ranked := ranker.Diversify(ranker.Rank(matches, rc))
	return e.curator.Contextual(ranked, modified.Primary, modified.Intensity, cc), nil
}

// TransitionPlaylist builds a playlist moving from one emotion to another
// over the given duration.
func (e *Engine) TransitionPlaylist(ctx context.Context, fromLabel, toLabel string, durationMinutes int, intensity float64) (*playlist.Playlist, error) {
	from := emotion.BuildProfile(fromLabel, intensity, defaultConfidence, "")
	to := emotion.BuildProfile(toLabel, intensity, defaultConfidence, "")
	count := playlist.TransitionTrackCount(durationMinutes)

	fromMatches, err := e.findOrFallback(ctx, from, emotion.BuildPreferences(from), count)
	if err != nil {
		return nil, err
	}
	toMatches, err := e.findOrFallback(ctx, to, emotion.BuildPreferences(to), count)
	if err != nil {
		return nil, err
	}

	return e.curator.Transition(fromMatches, toMatches, from, to, durationMinutes, intensity), nil
}

// findOrFallback searches for scored matches, degrading to the
// popularity-only path when nothing clears the threshold.
func (e *Engine) findOrFallback(ctx context.Context, profile emotion.Profile, prefs emotion.Preferences, count int) ([]matcher.Match, error) {
	matches, err := e.matcher.Find(ctx, profile, prefs, count*2)
	if errors.Is(err, matcher.ErrNoCandidates) {
		e.log.Warn().
			Str("emotion", string(profile.Primary)).
			Msg("no candidates above threshold, using popularity fallback")
		matches, err = e.matcher.Fallback(ctx, prefs, count)
	}
	if err != nil {
		return nil, fmt.Errorf("finding matches: %w", err)
	}
	return matches, nil
}

// personalization resolves listening signals from the request, falling back
// to the history store for known users. History failures are logged, never
// fatal.
func (e *Engine) personalization(ctx context.Context, req Request) *ranker.Personalization {
	if req.Context != nil && req.Context.Personalization != nil {
		return req.Context.Personalization
	}
	if e.history == nil || req.UserID == "" {
		return nil
	}
	p, err := e.history.PersonalizationFor(ctx, req.UserID)
	if err != nil {
		e.log.Warn().Err(err).Str("user_id", req.UserID).Msg("loading personalization")
		return nil
	}
	return p
}

func (e *Engine) recordEmotion(ctx context.Context, userID string, p emotion.Profile) {
	if e.history == nil || userID == "" {
		return
	}
	if err := e.history.RecordEmotion(ctx, userID, p); err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("recording emotion event")
	}
}

func applyDefaults(req *Request) {
	if req.Intensity <= 0 {
		req.Intensity = defaultIntensity
	}
	if req.Confidence <= 0 {
		req.Confidence = defaultConfidence
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Mode == "" {
		req.Mode = ModeMixed
	}
}

func mergeGenres(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	out := append([]string(nil), base...)
	for _, g := range base {
		seen[g] = true
	}
	for _, g := range extra {
		if len(out) >= emotion.MaxGenres {
			break
		}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
