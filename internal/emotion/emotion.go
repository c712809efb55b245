// Package emotion builds structured emotion profiles and translates them
// into target music attribute vectors.
package emotion

import (
	"fmt"
	"math"
	"strings"
)

// Category is a closed set of affective states used as the primary key for
// all attribute-range lookups.
type Category string

// Supported emotion categories.
const (
	Happy     Category = "happy"
	Sad       Category = "sad"
	Angry     Category = "angry"
	Calm      Category = "calm"
	Energetic Category = "energetic"
	Romantic  Category = "romantic"
	Nostalgic Category = "nostalgic"
	Anxious   Category = "anxious"
	Focused   Category = "focused"
	Neutral   Category = "neutral"
)

// Categories lists every supported category.
func Categories() []Category {
	return []Category{
		Happy, Sad, Angry, Calm, Energetic,
		Romantic, Nostalgic, Anxious, Focused, Neutral,
	}
}

// Secondary is a derived emotion with its association weight.
type Secondary struct {
	Category Category
	Weight   float64
}

// Profile is a structured emotion analysis. All continuous signals are in
// [0,1]. A Profile is built fresh per request and never mutated afterwards.
type Profile struct {
	Primary    Category
	Intensity  float64
	Confidence float64
	Secondary  []Secondary
	MoodText   string
	Energy     float64
	Valence    float64
	Arousal    float64
}

// Normalize maps a free-form emotion label to a Category.
// Unknown labels normalize to Neutral.
func Normalize(label string) Category {
	if c, ok := labelAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c
	}
	return Neutral
}

// NeutralProfile is the fallback profile used when input is malformed.
func NeutralProfile() Profile {
	return Profile{
		Primary:    Neutral,
		Intensity:  0.5,
		Confidence: 0.5,
		MoodText:   "neutral mood",
		Energy:     0.5,
		Valence:    0.5,
		Arousal:    0.3,
	}
}

// BuildProfile constructs a Profile from a detected emotion label, its
// intensity and confidence, and an optional context string such as
// "workout" or "morning". Intensity and confidence are clamped to [0,1];
// non-finite values yield the neutral fallback profile.
func BuildProfile(label string, intensity, confidence float64, context string) Profile {
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) ||
		math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return NeutralProfile()
	}

	intensity = clamp01(intensity)
	confidence = clamp01(confidence)

	cat := Normalize(label)
	cp := categoryProfiles[cat]

	valence := interpolate(cp.valence, intensity)
	energy := interpolate(cp.energy, intensity)

	// Contextual modifiers shift energy multiplicatively and valence
	// additively before clamping.
	if mod, ok := contextModifiers[strings.ToLower(strings.TrimSpace(context))]; ok {
		energy = clamp01(energy * mod.energyMult)
		valence = clamp01(valence + mod.valenceBoost)
	}

	return Profile{
		Primary:    cat,
		Intensity:  intensity,
		Confidence: confidence,
		Secondary:  secondaryFor(cat, intensity),
		MoodText:   moodText(cat, intensity, context),
		Energy:     energy,
		Valence:    valence,
		Arousal:    clamp01(energy * intensity),
	}
}

// secondaryFor returns the category's associated emotions, each scaled by
// the requested intensity.
func secondaryFor(cat Category, intensity float64) []Secondary {
	base := secondaryAssociations[cat]
	out := make([]Secondary, len(base))
	for i, s := range base {
		out[i] = Secondary{Category: s.Category, Weight: s.Weight * intensity}
	}
	return out
}

// moodText combines an intensity adverb with the category description and,
// when present, the context label.
func moodText(cat Category, intensity float64, context string) string {
	cp := categoryProfiles[cat]
	desc := cp.description
	if cat != Neutral {
		adverb := "slightly"
		switch {
		case intensity > 0.7:
			adverb = "very"
		case intensity > 0.4:
			adverb = "moderately"
		}
		desc = adverb + " " + desc
	}
	if context != "" {
		desc = fmt.Sprintf("%s during %s", desc, context)
	}
	return desc
}

func interpolate(r valueRange, intensity float64) float64 {
	return r.low + (r.high-r.low)*intensity
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
