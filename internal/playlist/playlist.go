// Package playlist curates ordered track sequences from ranked matches:
// energy-curve sequencing, mood-transition markers, aggregate statistics and
// blended emotion-transition journeys.
package playlist

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
)

// Validity windows enforced by consumers, not by this package.
const (
	standardTTL   = 7 * 24 * time.Hour
	transitionTTL = 3 * 24 * time.Hour
	fallbackTTL   = 24 * time.Hour
)

// DefaultTrackCount is the track target when no context overrides it.
const DefaultTrackCount = 15

// Playlist is an ordered sequence of matched tracks with curation metadata.
type Playlist struct {
	ID              string
	Name            string
	Description     string
	Emotion         string
	Intensity       float64
	Tracks          []matcher.Match
	TotalDurationMs int
	AvgMatchScore   float64
	EnergyCurve     []float64
	MoodTransitions []string
	CoverURL        string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Tags            []string
}

// Curator builds playlists. The clock is injectable for tests.
type Curator struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Curator.
type Option func(*Curator)

// WithClock overrides the curator's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Curator) {
		c.now = now
	}
}

// NewCurator creates a Curator.
func NewCurator(opts ...Option) *Curator {
	c := &Curator{
		now:   time.Now,
		newID: func() string { return uuid.New().String()[:8] },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Params parameterizes one run of the curation pipeline. The three public
// entry points are thin builders over these.
type Params struct {
	Name        string
	Description string
	Emotion     string
	Intensity   float64
	TrackCount  int
	Curve       CurveMode
	Transitions bool
	Tags        []string
	TTL         time.Duration
	IDPrefix    string
}

// curate runs the single parameterized pipeline: truncate to the target
// count, realize the energy curve ordering, attach transition markers and
// compute aggregate statistics.
func (c *Curator) curate(tracks []matcher.Match, p Params) *Playlist {
	if p.TrackCount <= 0 {
		p.TrackCount = DefaultTrackCount
	}
	if p.Curve == "" {
		p.Curve = CurveSteady
	}
	if p.TTL == 0 {
		p.TTL = standardTTL
	}

	final := append([]matcher.Match(nil), tracks...)
	if len(final) > p.TrackCount {
		final = final[:p.TrackCount]
	}
	final = applyCurve(final, p.Curve)

	var transitions []string
	if p.Transitions {
		transitions = transitionMarkers(final)
	}

	now := c.now()
	pl := &Playlist{
		ID:              fmt.Sprintf("%s_%s_%s", p.IDPrefix, p.Emotion, c.newID()),
		Name:            p.Name,
		Description:     p.Description,
		Emotion:         p.Emotion,
		Intensity:       p.Intensity,
		Tracks:          final,
		MoodTransitions: transitions,
		EnergyCurve:     realizedCurve(final),
		CreatedAt:       now,
		ExpiresAt:       now.Add(p.TTL),
		Tags:            append([]string(nil), p.Tags...),
	}
	pl.fillStats()
	return pl
}

// fillStats computes totals from the final track order.
func (pl *Playlist) fillStats() {
	var total int
	var scoreSum float64
	for _, m := range pl.Tracks {
		total += m.Track.DurationMs
		scoreSum += m.Score
	}
	pl.TotalDurationMs = total
	if len(pl.Tracks) > 0 {
		pl.AvgMatchScore = scoreSum / float64(len(pl.Tracks))
		pl.CoverURL = pl.Tracks[0].Track.CoverURL
	}
}

// transitionMarkers names the tracks at the 1/3 and 2/3 positions when the
// list has at least 3 tracks.
func transitionMarkers(tracks []matcher.Match) []string {
	if len(tracks) < 3 {
		return nil
	}

	var markers []string
	for _, point := range []int{len(tracks) / 3, 2 * len(tracks) / 3} {
		t := tracks[point].Track
		markers = append(markers, fmt.Sprintf("Transitioning to %s - %s", t.Artist, t.Name))
	}
	return markers
}

// Standard builds a mood playlist for a single emotion using the category's
// template.
func (c *Curator) Standard(tracks []matcher.Match, cat emotion.Category, intensity float64) *Playlist {
	return c.curate(tracks, defaultParams(cat, intensity))
}

// Contextual builds a playlist whose track count, curve mode and naming are
// derived from situational context, then runs the standard pipeline.
func (c *Curator) Contextual(tracks []matcher.Match, cat emotion.Category, intensity float64, cc ContextConfig) *Playlist {
	return c.curate(tracks, contextualParams(cat, intensity, cc))
}

// Transition builds a playlist that moves the listener from one emotion to
// another: first third from the "from" set, middle third alternating
// between the two sets, the rest from the "to" set. The energy curve is a
// linear interpolation between the two profiles' energy levels; the blended
// middle is not re-scored.
func (c *Curator) Transition(fromTracks, toTracks []matcher.Match, from, to emotion.Profile, durationMinutes int, intensity float64) *Playlist {
	count := TransitionTrackCount(durationMinutes)
	blended := blendTransition(fromTracks, toTracks, count)

	pl := c.curate(blended, Params{
		Name:        fmt.Sprintf("From %s to %s", titleCase(string(from.Primary)), titleCase(string(to.Primary))),
		Description: fmt.Sprintf("A musical journey from %s to %s", from.Primary, to.Primary),
		Emotion:     fmt.Sprintf("%s_to_%s", from.Primary, to.Primary),
		Intensity:   intensity,
		TrackCount:  count,
		Curve:       CurveSteady, // order comes from the blend, not a curve pattern
		Tags:        []string{"transition", "emotional", "journey"},
		TTL:         transitionTTL,
		IDPrefix:    "transition",
	})
	pl.MoodTransitions = []string{fmt.Sprintf("Transitioning from %s to %s", from.Primary, to.Primary)}
	pl.EnergyCurve = interpolatedCurve(from.Energy, to.Energy, len(pl.Tracks))
	return pl
}

// TransitionTrackCount derives the track count for a transition of the
// given duration, assuming roughly 3.5 minutes per track.
func TransitionTrackCount(durationMinutes int) int {
	count := int(float64(durationMinutes) / 3.5)
	if count < 8 {
		count = 8
	}
	return count
}

// blendTransition interleaves the two candidate sets: first third "from",
// middle third alternating between the sets track by track, then "to"
// tracks padding to the exact target count. When one side runs short the
// other fills its slots.
func blendTransition(fromTracks, toTracks []matcher.Match, target int) []matcher.Match {
	out := make([]matcher.Match, 0, target)
	third := target / 3
	var fi, ti int

	for ; fi < third && fi < len(fromTracks); fi++ {
		out = append(out, fromTracks[fi])
	}

	for i := 0; i < third && len(out) < target; i++ {
		fromTurn := i%2 == 0
		switch {
		case fromTurn && fi < len(fromTracks):
			out = append(out, fromTracks[fi])
			fi++
		case ti < len(toTracks):
			out = append(out, toTracks[ti])
			ti++
		case fi < len(fromTracks):
			out = append(out, fromTracks[fi])
			fi++
		}
	}

	for ; ti < len(toTracks) && len(out) < target; ti++ {
		out = append(out, toTracks[ti])
	}
	return out
}

// Fallback builds a degraded-but-valid playlist from a popularity-only
// candidate set: flat neutral curve, generic naming, short expiry.
func (c *Curator) Fallback(tracks []matcher.Match, label string, intensity float64) *Playlist {
	pl := c.curate(tracks, Params{
		Name:        fmt.Sprintf("%s Playlist", titleCase(label)),
		Description: fmt.Sprintf("Fallback playlist for %s mood", label),
		Emotion:     label,
		Intensity:   intensity,
		TrackCount:  len(tracks),
		Curve:       CurveSteady,
		Tags:        []string{"fallback", "basic"},
		TTL:         fallbackTTL,
		IDPrefix:    "fallback",
	})
	pl.AvgMatchScore = 0.5
	curve := make([]float64, len(pl.Tracks))
	for i := range curve {
		curve[i] = 0.5
	}
	pl.EnergyCurve = curve
	return pl
}
