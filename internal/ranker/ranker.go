// Package ranker re-ranks matched tracks using contextual and
// personalization signals and enforces artist diversity.
package ranker

import (
	"math"
	"sort"
	"strings"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
)

// Factor weights for the blended total score. They sum to 0.75; the
// remaining 0.25 belongs to personalization, which is applied as a
// pre-ranking boost on the match score when listening history is present
// and simply dropped otherwise. Ranking is ordinal, so the lower score
// ceiling for anonymous requests does not change relative order.
const (
	weightEmotionMatch = 0.40
	weightPopularity   = 0.15
	weightDiversity    = 0.10
	weightContext      = 0.10
)

// maxPersonalizationBoost caps the combined personalization boost.
const maxPersonalizationBoost = 0.3

// Listen is one entry of a user's recent listening history.
type Listen struct {
	TrackID string
	Artist  string
	Genre   string
}

// Personalization carries a user's listening signals.
type Personalization struct {
	FavoriteGenres  []string
	FavoriteArtists []string
	RecentListens   []Listen
}

// Context carries the situational signals a recommendation request may
// include. All fields are optional.
type Context struct {
	TimeOfDay       string // morning, afternoon, evening, night
	DayOfWeek       string
	Weather         string // sunny, rainy, cloudy
	Activity        string // workout, study, party, commute, relaxation, cooking, driving
	Personalization *Personalization
}

// profileModifier shifts a profile's energy and valence additively and
// suggests genres for the context.
type profileModifier struct {
	energyBoost  float64
	valenceBoost float64
	genres       []string
}

var timeModifiers = map[string]profileModifier{
	"morning":   {0.1, 0.05, []string{"pop", "indie"}},
	"afternoon": {0.0, 0.0, nil},
	"evening":   {-0.05, -0.02, []string{"jazz", "ambient"}},
	"night":     {-0.1, -0.05, []string{"ambient", "chill"}},
}

var activityModifiers = map[string]profileModifier{
	"workout":    {0.3, 0.15, []string{"electronic", "rock", "hip-hop"}},
	"study":      {-0.2, 0.0, []string{"ambient", "instrumental", "classical"}},
	"party":      {0.4, 0.2, []string{"dance", "pop", "electronic"}},
	"commute":    {0.0, 0.05, []string{"pop", "indie", "alternative"}},
	"relaxation": {-0.3, 0.1, []string{"ambient", "chill", "jazz"}},
	"cooking":    {0.1, 0.1, []string{"jazz", "funk", "soul"}},
	"driving":    {0.05, 0.0, []string{"rock", "pop", "alternative"}},
}

// ApplyContext returns a copy of the profile with time-of-day and activity
// modifiers applied and arousal recomputed. The input profile is never
// mutated.
func ApplyContext(p emotion.Profile, rc *Context) emotion.Profile {
	if rc == nil {
		return p
	}

	out := p
	if mod, ok := timeModifiers[rc.TimeOfDay]; ok {
		out.Energy = clamp01(out.Energy + mod.energyBoost)
		out.Valence = clamp01(out.Valence + mod.valenceBoost)
	}
	if mod, ok := activityModifiers[rc.Activity]; ok {
		out.Energy = clamp01(out.Energy + mod.energyBoost)
		out.Valence = clamp01(out.Valence + mod.valenceBoost)
	}
	out.Arousal = clamp01(out.Energy * out.Intensity)
	return out
}

// ContextGenres returns the deduplicated genre hints for a context.
func ContextGenres(rc *Context) []string {
	if rc == nil {
		return nil
	}

	var raw []string
	if mod, ok := timeModifiers[rc.TimeOfDay]; ok {
		raw = append(raw, mod.genres...)
	}
	if mod, ok := activityModifiers[rc.Activity]; ok {
		raw = append(raw, mod.genres...)
	}

	seen := make(map[string]struct{}, len(raw))
	var genres []string
	for _, g := range raw {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}

// Personalize boosts match scores using the user's listening signals:
// +0.1 per favorite genre hit, +0.2 for a favorite artist, +0.05 per
// similar listen among the last 10. The combined boost is capped at
// maxPersonalizationBoost and the result re-clamped to [0,1]. Returns a new
// slice; the input is not mutated.
func Personalize(matches []matcher.Match, p *Personalization) []matcher.Match {
	out := append([]matcher.Match(nil), matches...)
	if p == nil {
		return out
	}

	favoriteGenres := make(map[string]struct{}, len(p.FavoriteGenres))
	for _, g := range p.FavoriteGenres {
		favoriteGenres[strings.ToLower(g)] = struct{}{}
	}
	favoriteArtists := make(map[string]struct{}, len(p.FavoriteArtists))
	for _, a := range p.FavoriteArtists {
		favoriteArtists[a] = struct{}{}
	}

	recent := p.RecentListens
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	for i := range out {
		var boost float64

		artistLower := strings.ToLower(out[i].Track.Artist)
		for g := range favoriteGenres {
			if strings.Contains(artistLower, g) {
				boost += 0.1
			}
		}
		if _, ok := favoriteArtists[out[i].Track.Artist]; ok {
			boost += 0.2
		}
		for _, l := range recent {
			if similarListen(l, out[i].Track.Artist, artistLower) {
				boost += 0.05
			}
		}

		boost = math.Min(maxPersonalizationBoost, boost)
		out[i].Score = clamp01(out[i].Score + boost)
	}
	return out
}

// similarListen reports whether a recent listen is similar to a candidate:
// same artist, or the listen's genre appears in the candidate's artist name.
func similarListen(l Listen, artist, artistLower string) bool {
	if l.Artist == artist {
		return true
	}
	return l.Genre != "" && strings.Contains(artistLower, strings.ToLower(l.Genre))
}

// Rank recomputes each candidate's total score as the weighted blend of
// emotion match, popularity, a diversity placeholder resolved by Diversify,
// and the context score, then sorts descending. Returns a new slice.
func Rank(matches []matcher.Match, rc *Context) []matcher.Match {
	out := append([]matcher.Match(nil), matches...)

	for i := range out {
		total := out[i].Score * weightEmotionMatch
		total += float64(out[i].Track.Popularity) / 100.0 * weightPopularity
		total += 1.0 * weightDiversity
		total += contextScore(out[i], rc) * weightContext
		out[i].Score = math.Min(1, total)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Track.ID < out[j].Track.ID
	})
	return out
}

// contextScore starts at 0.5 and is boosted under specific time/activity
// alignment rules.
func contextScore(m matcher.Match, rc *Context) float64 {
	if rc == nil {
		return 0.5
	}

	score := 0.5
	switch {
	case rc.TimeOfDay == "morning" && m.Score > 0.7:
		score += 0.2
	case rc.TimeOfDay == "night" && m.Score < 0.6:
		score += 0.2
	}
	switch {
	case rc.Activity == "workout" && m.Track.Popularity > 60:
		score += 0.2
	case rc.Activity == "study" && m.Score < 0.5:
		score += 0.2
	}
	return math.Min(1, score)
}

const (
	// artistCap is the maximum tracks per artist in a diversified list.
	artistCap = 2

	// minDiverseSize is the floor below which the cap may be exceeded so
	// a sparse catalog still yields a usable list.
	minDiverseSize = 10
)

// Diversify walks the ranked list in order and enforces the per-artist cap.
// A candidate over the cap is still accepted while the accepted list has
// fewer than minDiverseSize entries.
func Diversify(matches []matcher.Match) []matcher.Match {
	counts := make(map[string]int)
	out := make([]matcher.Match, 0, len(matches))

	for _, m := range matches {
		if counts[m.Track.Artist] < artistCap || len(out) < minDiverseSize {
			out = append(out, m)
			counts[m.Track.Artist]++
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
