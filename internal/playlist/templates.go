package playlist

import (
	"fmt"
	"strings"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
)

// template carries the per-category naming and curation defaults.
type template struct {
	nameFormat string
	descFormat string
	curve      CurveMode
	tags       []string
}

var categoryTemplates = map[emotion.Category]template{
	emotion.Happy: {
		nameFormat: "%s Vibes",
		descFormat: "Uplifting tracks to match your %s mood",
		curve:      CurveBuilding,
		tags:       []string{"upbeat", "positive", "energetic"},
	},
	emotion.Sad: {
		nameFormat: "Melancholy %s",
		descFormat: "Reflective music for your %s moments",
		curve:      CurveDeclining,
		tags:       []string{"emotional", "introspective", "healing"},
	},
	emotion.Angry: {
		nameFormat: "%s Release",
		descFormat: "Intense tracks to channel your %s energy",
		curve:      CurveSteady,
		tags:       []string{"intense", "cathartic", "powerful"},
	},
	emotion.Calm: {
		nameFormat: "Peaceful %s",
		descFormat: "Serene music for your %s state",
		curve:      CurveSteady,
		tags:       []string{"relaxing", "peaceful", "meditative"},
	},
	emotion.Energetic: {
		nameFormat: "%s Power",
		descFormat: "High-energy tracks for your %s mood",
		curve:      CurveBuilding,
		tags:       []string{"energetic", "motivating", "dynamic"},
	},
	emotion.Romantic: {
		nameFormat: "%s Moments",
		descFormat: "Intimate tracks for your %s mood",
		curve:      CurveWave,
		tags:       []string{"romantic", "intimate", "passionate"},
	},
	emotion.Nostalgic: {
		nameFormat: "%s Memories",
		descFormat: "Timeless tracks for your %s mood",
		curve:      CurveDeclining,
		tags:       []string{"nostalgic", "timeless", "memories"},
	},
	emotion.Anxious: {
		nameFormat: "Soothing %s",
		descFormat: "Calming music for your %s moments",
		curve:      CurveDeclining,
		tags:       []string{"soothing", "calming", "grounding"},
	},
	emotion.Focused: {
		nameFormat: "%s Flow",
		descFormat: "Concentration music for your %s state",
		curve:      CurveSteady,
		tags:       []string{"focused", "productive", "concentration"},
	},
	emotion.Neutral: {
		nameFormat: "Balanced %s",
		descFormat: "Versatile tracks for your %s mood",
		curve:      CurveSteady,
		tags:       []string{"balanced", "versatile", "neutral"},
	},
}

func templateFor(cat emotion.Category) template {
	if t, ok := categoryTemplates[cat]; ok {
		return t
	}
	return categoryTemplates[emotion.Neutral]
}

// defaultParams builds the standard mood playlist parameters from the
// category template.
func defaultParams(cat emotion.Category, intensity float64) Params {
	t := templateFor(cat)
	label := string(cat)
	return Params{
		Name:        fmt.Sprintf(t.nameFormat, titleCase(label)),
		Description: fmt.Sprintf(t.descFormat, label),
		Emotion:     label,
		Intensity:   intensity,
		TrackCount:  DefaultTrackCount,
		Curve:       t.curve,
		Transitions: true,
		Tags:        t.tags,
		TTL:         standardTTL,
		IDPrefix:    "mood",
	}
}

// ContextConfig captures the situational signals that reshape a playlist.
// Zero values mean the signal is absent.
type ContextConfig struct {
	TimeOfDay       string
	Activity        string
	Weather         string
	DurationMinutes int
}

type contextModifier struct {
	trackCount int
	curve      CurveMode
	name       string
}

var timeParams = map[string]contextModifier{
	"morning":   {trackCount: 12, curve: CurveBuilding, name: "Morning"},
	"afternoon": {trackCount: 15, curve: CurveSteady, name: "Afternoon"},
	"evening":   {trackCount: 18, curve: CurveDeclining, name: "Evening"},
	"night":     {trackCount: 20, curve: CurveDeclining, name: "Night"},
}

var activityParams = map[string]contextModifier{
	"workout":    {trackCount: 25, curve: CurveBuilding, name: "Workout"},
	"study":      {trackCount: 12, curve: CurveSteady, name: "Study"},
	"commute":    {trackCount: 15, curve: CurveSteady, name: "Commute"},
	"party":      {trackCount: 30, curve: CurveBuilding, name: "Party"},
	"relaxation": {trackCount: 10, curve: CurveDeclining, name: "Relaxation"},
}

var weatherParams = map[string]struct {
	curve CurveMode
	desc  string
}{
	"sunny":  {curve: CurveBuilding, desc: "on this sunny day"},
	"rainy":  {curve: CurveDeclining, desc: "for this rainy day"},
	"cloudy": {curve: CurveSteady, desc: "for this cloudy day"},
}

// TrackCount resolves the target track count implied by the context.
// Activity wins over time of day; an explicit duration wins over both.
func (cc ContextConfig) TrackCount() int {
	count := DefaultTrackCount
	if mod, ok := timeParams[cc.TimeOfDay]; ok {
		count = mod.trackCount
	}
	if mod, ok := activityParams[cc.Activity]; ok {
		count = mod.trackCount
	}
	if cc.DurationMinutes > 0 {
		count = durationTrackCount(cc.DurationMinutes)
	}
	return count
}

// contextualParams derives playlist parameters from situational context.
// Later signals override earlier ones: time of day, then activity, then an
// explicit duration for the count, then weather for the curve.
func contextualParams(cat emotion.Category, intensity float64, cc ContextConfig) Params {
	label := string(cat)
	curve := CurveSteady
	nameParts := []string{titleCase(label)}
	descParts := []string{fmt.Sprintf("Music for your %s mood", label)}

	if mod, ok := timeParams[cc.TimeOfDay]; ok {
		curve = mod.curve
		nameParts = append([]string{mod.name}, nameParts...)
	}
	if mod, ok := activityParams[cc.Activity]; ok {
		curve = mod.curve
		nameParts = append([]string{mod.name}, nameParts...)
		descParts = append(descParts, fmt.Sprintf("perfect for %s", cc.Activity))
	}
	if mod, ok := weatherParams[cc.Weather]; ok {
		curve = mod.curve
		descParts = append(descParts, mod.desc)
	}
	trackCount := cc.TrackCount()

	return Params{
		Name:        strings.Join(nameParts, " "),
		Description: strings.Join(descParts, ", "),
		Emotion:     label,
		Intensity:   intensity,
		TrackCount:  trackCount,
		Curve:       curve,
		Transitions: true,
		Tags:        templateFor(cat).tags,
		TTL:         standardTTL,
		IDPrefix:    "mood",
	}
}

// durationTrackCount converts a target duration to a track count, assuming
// roughly 3.5 minutes per track, clamped to [8, 50].
func durationTrackCount(minutes int) int {
	count := int(float64(minutes) / 3.5)
	if count < 8 {
		count = 8
	}
	if count > 50 {
		count = 50
	}
	return count
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
