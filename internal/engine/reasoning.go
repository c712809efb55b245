package engine

import (
	"fmt"
	"strings"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
	"github.com/monisha-alt/sonic-aura-stream/internal/ranker"
)

const degradedPenalty = 0.2

const maxSuggestions = 3

var emotionSuggestions = map[emotion.Category][]string{
	emotion.Happy:     {"Try upbeat pop or dance music", "Explore feel-good indie tracks", "Consider summer playlists"},
	emotion.Sad:       {"Try melancholic indie or folk", "Explore ambient or chill music", "Consider healing playlists"},
	emotion.Angry:     {"Try intense rock or metal", "Explore cathartic electronic music", "Consider workout playlists"},
	emotion.Calm:      {"Try ambient or instrumental music", "Explore jazz or classical", "Consider meditation playlists"},
	emotion.Energetic: {"Try high-energy electronic", "Explore workout or party music", "Consider dance playlists"},
	emotion.Romantic:  {"Try R&B or soul music", "Explore intimate acoustic tracks", "Consider love song playlists"},
	emotion.Focused:   {"Try lo-fi or instrumental", "Explore classical or ambient", "Consider study playlists"},
}

var activitySuggestions = map[string][]string{
	"workout": {"Try high-energy tracks", "Explore motivational playlists"},
	"study":   {"Try instrumental music", "Explore focus playlists"},
	"party":   {"Try dance music", "Explore party playlists"},
	"commute": {"Try podcast-friendly music", "Explore easy listening"},
}

// reasoningText assembles the human-readable explanation for a result.
func reasoningText(p emotion.Profile, rc *ranker.Context, matches []matcher.Match, degraded bool) string {
	parts := []string{
		fmt.Sprintf("Based on your %s %s mood", intensityAdverb(p.Intensity), p.Primary),
	}
	if rc != nil {
		if rc.Activity != "" {
			parts = append(parts, fmt.Sprintf("and %s context", rc.Activity))
		}
		if rc.TimeOfDay != "" {
			parts = append(parts, fmt.Sprintf("during %s", rc.TimeOfDay))
		}
	}
	if degraded {
		parts = append(parts, "matches were limited so popular tracks fill in")
	} else if len(matches) > 0 {
		parts = append(parts, qualityPhrase(avgScore(matches)))
	}
	return strings.Join(parts, ", ") + "."
}

func intensityAdverb(intensity float64) string {
	switch {
	case intensity > 0.7:
		return "very"
	case intensity > 0.4:
		return "moderately"
	default:
		return "somewhat"
	}
}

func qualityPhrase(avg float64) string {
	switch {
	case avg > 0.8:
		return "I found excellent matches"
	case avg > 0.6:
		return "I found good matches"
	default:
		return "I found some suitable matches"
	}
}

func avgScore(matches []matcher.Match) float64 {
	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	return sum / float64(len(matches))
}

// alternativeSuggestions lists up to three alternate directions derived
// from the emotion and activity.
func alternativeSuggestions(cat emotion.Category, rc *ranker.Context) []string {
	suggestions, ok := emotionSuggestions[cat]
	if !ok {
		suggestions = []string{"Try exploring different genres"}
	}
	out := append([]string(nil), suggestions...)
	if rc != nil && rc.Activity != "" {
		out = append(out, activitySuggestions[rc.Activity]...)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// contextFactors names the signals that influenced a result.
func contextFactors(rc *ranker.Context, p emotion.Profile) []string {
	var factors []string
	if rc != nil {
		if rc.TimeOfDay != "" {
			factors = append(factors, "Time: "+rc.TimeOfDay)
		}
		if rc.Activity != "" {
			factors = append(factors, "Activity: "+rc.Activity)
		}
		if rc.Weather != "" {
			factors = append(factors, "Weather: "+rc.Weather)
		}
		if rc.Personalization != nil {
			factors = append(factors, "User preferences")
		}
	}
	factors = append(factors,
		fmt.Sprintf("Emotion intensity: %.1f", p.Intensity),
		fmt.Sprintf("Energy level: %.1f", p.Energy),
	)
	return factors
}

// overallConfidence blends detection confidence with result richness and
// context coverage, capped at 1.
func overallConfidence(detection float64, resultCount int, rc *ranker.Context) float64 {
	conf := detection
	switch {
	case resultCount > 10:
		conf += 0.1
	case resultCount > 5:
		conf += 0.05
	}
	if rc != nil {
		if rc.TimeOfDay != "" {
			conf += 0.05
		}
		if rc.Activity != "" {
			conf += 0.05
		}
		if rc.Personalization != nil {
			conf += 0.05
		}
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// TimeOfDay buckets an hour into the contextual day segments.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}
