package matcher

import (
	"math"

	"github.com/monisha-alt/sonic-aura-stream/internal/catalog"
	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
)

// Per-attribute weights for the combined match score. Valence and energy
// dominate because they carry the emotional identity of a track.
var featureWeights = map[string]float64{
	"valence":          0.25,
	"energy":           0.20,
	"danceability":     0.15,
	"acousticness":     0.10,
	"instrumentalness": 0.10,
	"liveness":         0.05,
	"speechiness":      0.05,
	"tempo":            0.10,
}

// Per-attribute tolerance windows. Inside the window scores stay in
// [0.5, 1.0]; outside they decay toward zero rather than dropping abruptly.
var featureTolerances = map[string]float64{
	"valence":          0.2,
	"energy":           0.2,
	"danceability":     0.3,
	"acousticness":     0.4,
	"instrumentalness": 0.3,
	"liveness":         0.4,
	"speechiness":      0.3,
	"tempo":            0.15, // fraction of target BPM, not an absolute value
}

// featureScore maps an absolute target distance to [0,1] given a tolerance
// window: 1.0 at zero distance, 0.5 at the tolerance edge, reaching 0 at
// three times the tolerance.
func featureScore(difference, tolerance float64) float64 {
	if difference <= tolerance {
		return 1.0 - (difference/tolerance)*0.5
	}
	return math.Max(0, 1.0-(difference-tolerance)/tolerance*0.5)
}

// scoreTrack computes the weighted match score and per-attribute fit for a
// candidate. Attributes absent on the candidate contribute neither score nor
// weight; the denominator is the sum of weights actually present.
func scoreTrack(track catalog.Track, attrs *catalog.AttributeVector, prefs emotion.Preferences) (float64, map[string]float64) {
	fit := make(map[string]float64)
	var weightedSum, totalWeight float64

	score := func(name string, actual *float64, target float64) {
		if actual == nil {
			return
		}
		s := featureScore(math.Abs(*actual-target), featureTolerances[name])
		fit[name] = s
		weightedSum += s * featureWeights[name]
		totalWeight += featureWeights[name]
	}

	score("valence", attrs.Valence, prefs.Valence)
	score("energy", attrs.Energy, prefs.Energy)
	score("danceability", attrs.Danceability, prefs.Danceability)
	score("acousticness", attrs.Acousticness, prefs.Acousticness)
	score("instrumentalness", attrs.Instrumentalness, prefs.Instrumentalness)
	score("liveness", attrs.Liveness, prefs.Liveness)
	score("speechiness", attrs.Speechiness, prefs.Speechiness)

	// Tempo uses a tolerance proportional to the target BPM.
	if attrs.Tempo != nil && prefs.Tempo > 0 {
		target := float64(prefs.Tempo)
		s := featureScore(math.Abs(*attrs.Tempo-target), target*featureTolerances["tempo"])
		fit["tempo"] = s
		weightedSum += s * featureWeights["tempo"]
		totalWeight += featureWeights["tempo"]
	}

	if totalWeight == 0 {
		return 0, fit
	}

	base := weightedSum / totalWeight

	// Slight boost for popular tracks, penalty for awkward durations.
	popularityBonus := math.Min(0.1, float64(track.Popularity)/1000.0)

	var durationPenalty float64
	switch {
	case track.DurationMs < 30_000:
		durationPenalty = 0.2
	case track.DurationMs > 600_000:
		durationPenalty = 0.1
	}

	final := math.Max(0, math.Min(1, base+popularityBonus-durationPenalty))
	return final, fit
}
