package emotion

import (
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"happy", Happy},
		{"HAPPY", Happy},
		{"  Joyful  ", Happy},
		{"excited", Energetic},
		{"relaxed", Calm},
		{"peaceful", Calm},
		{"depressed", Sad},
		{"melancholic", Sad},
		{"furious", Angry},
		{"irritated", Angry},
		{"passionate", Romantic},
		{"worried", Anxious},
		{"concentrated", Focused},
		{"", Neutral},
		{"confused", Neutral},
		{"🎵", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Normalize(tt.label); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestBuildProfileFullIntensityHappy(t *testing.T) {
	// Full intensity resolves valence and energy to the upper bound of
	// the happy category's ranges.
	p := BuildProfile("happy", 1.0, 0.8, "")

	if p.Primary != Happy {
		t.Fatalf("Primary = %q, want %q", p.Primary, Happy)
	}
	if !almostEqual(p.Valence, 1.0) {
		t.Errorf("Valence = %v, want 1.0", p.Valence)
	}
	if !almostEqual(p.Energy, 1.0) {
		t.Errorf("Energy = %v, want 1.0", p.Energy)
	}
	if !almostEqual(p.Arousal, 1.0) {
		t.Errorf("Arousal = %v, want 1.0", p.Arousal)
	}
}

func TestBuildProfileRanges(t *testing.T) {
	intensities := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0}
	confidences := []float64{0, 0.5, 1.0}

	for _, cat := range Categories() {
		for _, intensity := range intensities {
			for _, confidence := range confidences {
				p := BuildProfile(string(cat), intensity, confidence, "")

				for name, v := range map[string]float64{
					"Intensity":  p.Intensity,
					"Confidence": p.Confidence,
					"Energy":     p.Energy,
					"Valence":    p.Valence,
					"Arousal":    p.Arousal,
				} {
					if v < 0 || v > 1 {
						t.Errorf("%s/%v: %s = %v out of [0,1]", cat, intensity, name, v)
					}
				}
			}
		}
	}
}

func TestBuildProfileClampsInputs(t *testing.T) {
	p := BuildProfile("happy", 3.5, -2.0, "")
	if p.Intensity != 1.0 {
		t.Errorf("Intensity = %v, want 1.0", p.Intensity)
	}
	if p.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", p.Confidence)
	}
}

func TestBuildProfileNaNFallsBackToNeutral(t *testing.T) {
	p := BuildProfile("happy", math.NaN(), 0.8, "")
	want := NeutralProfile()

	if p.Primary != want.Primary || p.Intensity != want.Intensity ||
		p.Energy != want.Energy || p.Valence != want.Valence || p.Arousal != want.Arousal {
		t.Errorf("NaN intensity: got %+v, want neutral fallback %+v", p, want)
	}
}

func TestBuildProfileContextModifiers(t *testing.T) {
	base := BuildProfile("calm", 0.5, 0.8, "")

	tests := []struct {
		context     string
		wantEnergy  float64
		wantValence float64
	}{
		{"workout", clamp01(base.Energy * 1.3), clamp01(base.Valence + 0.15)},
		{"night", clamp01(base.Energy * 0.7), clamp01(base.Valence - 0.1)},
		{"study", clamp01(base.Energy * 0.6), base.Valence},
		{"unknown-context", base.Energy, base.Valence},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			p := BuildProfile("calm", 0.5, 0.8, tt.context)
			if !almostEqual(p.Energy, tt.wantEnergy) {
				t.Errorf("Energy = %v, want %v", p.Energy, tt.wantEnergy)
			}
			if !almostEqual(p.Valence, tt.wantValence) {
				t.Errorf("Valence = %v, want %v", p.Valence, tt.wantValence)
			}
		})
	}
}

func TestBuildProfilePartyEnergyClamped(t *testing.T) {
	// Party's 1.4x multiplier would push energetic's energy above 1.
	p := BuildProfile("energetic", 1.0, 0.9, "party")
	if p.Energy != 1.0 {
		t.Errorf("Energy = %v, want clamped 1.0", p.Energy)
	}
}

func TestBuildProfileSecondaryWeights(t *testing.T) {
	p := BuildProfile("sad", 0.5, 0.8, "")

	if len(p.Secondary) != 2 {
		t.Fatalf("len(Secondary) = %d, want 2", len(p.Secondary))
	}
	if p.Secondary[0].Category != Nostalgic || !almostEqual(p.Secondary[0].Weight, 0.35) {
		t.Errorf("Secondary[0] = %+v, want {nostalgic 0.35}", p.Secondary[0])
	}
	if p.Secondary[1].Category != Calm || !almostEqual(p.Secondary[1].Weight, 0.2) {
		t.Errorf("Secondary[1] = %+v, want {calm 0.2}", p.Secondary[1])
	}
}

func TestBuildProfileMoodText(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		intensity float64
		context   string
		want      string
	}{
		{"high intensity", "happy", 0.9, "", "very joyful and uplifting"},
		{"medium intensity", "happy", 0.5, "", "moderately joyful and uplifting"},
		{"low intensity", "happy", 0.2, "", "slightly joyful and uplifting"},
		{"with context", "sad", 0.9, "evening", "very melancholic and reflective during evening"},
		{"neutral has no adverb", "neutral", 0.9, "", "balanced and versatile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildProfile(tt.label, tt.intensity, 0.8, tt.context)
			if p.MoodText != tt.want {
				t.Errorf("MoodText = %q, want %q", p.MoodText, tt.want)
			}
		})
	}
}

func TestBuildPreferencesGenreDedup(t *testing.T) {
	for _, cat := range Categories() {
		p := BuildProfile(string(cat), 1.0, 0.8, "")
		prefs := BuildPreferences(p)

		if len(prefs.Genres) == 0 {
			t.Errorf("%s: empty genre list", cat)
		}
		if len(prefs.Genres) > MaxGenres {
			t.Errorf("%s: %d genres, cap is %d", cat, len(prefs.Genres), MaxGenres)
		}

		seen := make(map[string]bool)
		for _, g := range prefs.Genres {
			if seen[g] {
				t.Errorf("%s: duplicate genre %q", cat, g)
			}
			seen[g] = true
		}
	}
}

func TestBuildPreferencesSecondaryGenresIncluded(t *testing.T) {
	// At full intensity sad's nostalgic secondary (weight 0.7) exceeds the
	// 0.3 significance threshold, pulling in nostalgic genres.
	p := BuildProfile("sad", 1.0, 0.8, "")
	prefs := BuildPreferences(p)

	found := false
	for _, g := range prefs.Genres {
		if g == "classic rock" {
			found = true
		}
	}
	if !found {
		t.Errorf("genres %v missing secondary-emotion genre %q", prefs.Genres, "classic rock")
	}

	// At low intensity no secondary clears the threshold; only the
	// primary's genres remain.
	low := BuildProfile("sad", 0.2, 0.8, "")
	lowPrefs := BuildPreferences(low)
	if len(lowPrefs.Genres) != len(categoryProfiles[Sad].genres) {
		t.Errorf("low intensity genres = %v, want only primary genres", lowPrefs.Genres)
	}
}

func TestBuildPreferencesAttributeRanges(t *testing.T) {
	for _, cat := range Categories() {
		for _, intensity := range []float64{0, 0.5, 1.0} {
			p := BuildProfile(string(cat), intensity, 0.8, "")
			prefs := BuildPreferences(p)

			for name, v := range map[string]float64{
				"Valence":          prefs.Valence,
				"Energy":           prefs.Energy,
				"Danceability":     prefs.Danceability,
				"Acousticness":     prefs.Acousticness,
				"Instrumentalness": prefs.Instrumentalness,
				"Liveness":         prefs.Liveness,
				"Speechiness":      prefs.Speechiness,
			} {
				if v < 0 || v > 1 {
					t.Errorf("%s/%v: %s = %v out of [0,1]", cat, intensity, name, v)
				}
			}
			if prefs.Tempo < 60 || prefs.Tempo > 200 {
				t.Errorf("%s/%v: Tempo = %d out of plausible BPM range", cat, intensity, prefs.Tempo)
			}
		}
	}
}

func TestBuildPreferencesHeuristics(t *testing.T) {
	focused := BuildPreferences(BuildProfile("focused", 0.5, 0.8, ""))
	happy := BuildPreferences(BuildProfile("happy", 0.5, 0.8, ""))
	angry := BuildPreferences(BuildProfile("angry", 0.5, 0.8, ""))

	if focused.Instrumentalness <= happy.Instrumentalness {
		t.Errorf("focused instrumentalness %v should exceed happy %v",
			focused.Instrumentalness, happy.Instrumentalness)
	}
	if angry.Speechiness <= focused.Speechiness {
		t.Errorf("angry speechiness %v should exceed focused %v",
			angry.Speechiness, focused.Speechiness)
	}
	if happy.Liveness <= focused.Liveness {
		t.Errorf("happy liveness %v should exceed focused %v",
			happy.Liveness, focused.Liveness)
	}
}

func TestBuildPreferencesFreshSlices(t *testing.T) {
	p := BuildProfile("happy", 0.5, 0.8, "")
	a := BuildPreferences(p)
	b := BuildPreferences(p)

	a.Genres[0] = "mutated"
	a.Keywords[0] = "mutated"

	if b.Genres[0] == "mutated" || b.Keywords[0] == "mutated" {
		t.Error("preference slices share backing arrays across invocations")
	}
	if strings.HasPrefix(categoryProfiles[Happy].genres[0], "mutated") {
		t.Error("category table was mutated through a returned slice")
	}
}
