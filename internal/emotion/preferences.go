package emotion

import "math"

// MaxGenres caps the preferred genre list.
const MaxGenres = 8

// Preferences is a target vector of musical attributes derived from a
// Profile. All attribute targets are in [0,1]; Tempo is in BPM (0 means no
// tempo target).
type Preferences struct {
	Valence          float64
	Energy           float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Speechiness      float64
	Tempo            int
	Genres           []string
	Keywords         []string
}

// NeutralPreferences is the fallback vector used when input is malformed.
func NeutralPreferences() Preferences {
	return Preferences{
		Valence:          0.5,
		Energy:           0.5,
		Danceability:     0.5,
		Acousticness:     0.5,
		Instrumentalness: 0.1,
		Liveness:         0.1,
		Speechiness:      0.1,
		Tempo:            100,
		Genres:           []string{"pop", "indie"},
		Keywords:         []string{"balanced", "neutral"},
	}
}

// BuildPreferences derives a Preferences vector from a Profile. The
// derivation is deterministic: identical profiles produce identical vectors.
func BuildPreferences(p Profile) Preferences {
	if math.IsNaN(p.Intensity) || math.IsInf(p.Intensity, 0) {
		return NeutralPreferences()
	}

	cp, ok := categoryProfiles[p.Primary]
	if !ok {
		return NeutralPreferences()
	}

	intensity := clamp01(p.Intensity)

	return Preferences{
		Valence:          interpolate(cp.valence, intensity),
		Energy:           interpolate(cp.energy, intensity),
		Danceability:     interpolate(cp.danceability, intensity),
		Acousticness:     interpolate(cp.acousticness, intensity),
		Instrumentalness: instrumentalnessFor(p.Primary, intensity),
		Liveness:         livenessFor(p.Primary, intensity),
		Speechiness:      speechinessFor(p.Primary, intensity),
		Tempo:            tempoFor(p.Primary, intensity),
		Genres:           genresFor(p),
		Keywords:         append([]string(nil), cp.keywords...),
	}
}

// genresFor starts from the primary category's genre list, appends the genre
// lists of significant secondary emotions, then deduplicates preserving
// first-seen order and truncates to MaxGenres.
func genresFor(p Profile) []string {
	cp := categoryProfiles[p.Primary]
	genres := append([]string(nil), cp.genres...)

	for _, s := range p.Secondary {
		if s.Weight <= 0.3 {
			continue
		}
		if sp, ok := categoryProfiles[s.Category]; ok {
			genres = append(genres, sp.genres...)
		}
	}

	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, MaxGenres)
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
		if len(out) == MaxGenres {
			break
		}
	}
	return out
}

// Instrumentalness, liveness and speechiness are not part of a category's
// core identity range; they follow per-category heuristics instead.

func instrumentalnessFor(cat Category, intensity float64) float64 {
	switch cat {
	case Focused, Calm, Anxious:
		return 0.6 + intensity*0.3
	case Romantic, Nostalgic:
		return 0.3 + intensity*0.4
	default:
		return 0.1 + intensity*0.2
	}
}

func livenessFor(cat Category, intensity float64) float64 {
	switch cat {
	case Energetic, Happy:
		return 0.3 + intensity*0.4
	case Angry:
		return 0.4 + intensity*0.3
	default:
		return 0.1 + intensity*0.2
	}
}

func speechinessFor(cat Category, intensity float64) float64 {
	switch cat {
	case Angry, Energetic:
		return 0.2 + intensity*0.3
	default:
		return 0.05 + intensity*0.1
	}
}

func tempoFor(cat Category, intensity float64) int {
	r := categoryProfiles[cat].tempo
	return r.low + int(float64(r.high-r.low)*intensity)
}
