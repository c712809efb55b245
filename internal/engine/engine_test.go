package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/monisha-alt/sonic-aura-stream/internal/catalog"
	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
	"github.com/monisha-alt/sonic-aura-stream/internal/playlist"
	"github.com/monisha-alt/sonic-aura-stream/internal/ranker"
)

// fakeProvider is an in-memory catalog.Provider. All queries return the
// same track pool; attrs maps track IDs to attribute vectors.
type fakeProvider struct {
	tracks    []catalog.Track
	attrs     map[string]*catalog.AttributeVector
	searchErr error
}

func (f *fakeProvider) Search(_ context.Context, _ string, limit int) ([]catalog.Track, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	tracks := f.tracks
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (f *fakeProvider) Attributes(_ context.Context, trackID string) (*catalog.AttributeVector, error) {
	return f.attrs[trackID], nil
}

// matchingProvider builds a provider whose tracks all score well against
// the given label's preference vector. The offset keeps scores below 1 and
// strictly ordered so earlier IDs rank higher.
func matchingProvider(label string, n int) *fakeProvider {
	profile := emotion.BuildProfile(label, 0.7, 0.8, "")
	prefs := emotion.BuildPreferences(profile)

	f := &fakeProvider{attrs: map[string]*catalog.AttributeVector{}}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("t%02d", i)
		f.tracks = append(f.tracks, catalog.Track{
			ID:         id,
			Name:       "Track " + id,
			Artist:     "Artist " + id,
			DurationMs: 210000,
			Popularity: 50,
		})
		f.attrs[id] = closeVector(prefs, 0.1+float64(i)*0.005)
	}
	return f
}

func closeVector(prefs emotion.Preferences, offset float64) *catalog.AttributeVector {
	shift := func(v float64) *float64 {
		return catalog.Float(math.Max(0, math.Min(1, v+offset)))
	}
	return &catalog.AttributeVector{
		Valence:          shift(prefs.Valence),
		Energy:           shift(prefs.Energy),
		Danceability:     shift(prefs.Danceability),
		Acousticness:     shift(prefs.Acousticness),
		Instrumentalness: shift(prefs.Instrumentalness),
		Liveness:         shift(prefs.Liveness),
		Speechiness:      shift(prefs.Speechiness),
		Tempo:            catalog.Float(float64(prefs.Tempo)),
	}
}

// fakeHistory records calls and serves a canned personalization.
type fakeHistory struct {
	personalization  *ranker.Personalization
	personalizeCalls int
	recordedEmotions []string
}

func (f *fakeHistory) PersonalizationFor(_ context.Context, _ string) (*ranker.Personalization, error) {
	f.personalizeCalls++
	return f.personalization, nil
}

func (f *fakeHistory) RecordEmotion(_ context.Context, _ string, p emotion.Profile) error {
	f.recordedEmotions = append(f.recordedEmotions, string(p.Primary))
	return nil
}

func testEngine(p catalog.Provider, opts ...Option) *Engine {
	m := matcher.New(p, zerolog.Nop(), matcher.WithBatchPause(0))
	c := playlist.NewCurator(playlist.WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}))
	return New(m, c, zerolog.Nop(), opts...)
}

func TestRecommendMixedMode(t *testing.T) {
	e := testEngine(matchingProvider("happy", 30))

	res, err := e.Recommend(context.Background(), Request{Emotion: "happy", Intensity: 0.8, Confidence: 0.9, Limit: 15})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Degraded {
		t.Error("Degraded = true, want false")
	}
	if len(res.Recommendations) == 0 || len(res.Recommendations) > 15 {
		t.Errorf("len(Recommendations) = %d, want 1..15", len(res.Recommendations))
	}
	if res.Playlist == nil {
		t.Fatal("Playlist = nil, want playlist in mixed mode")
	}
	if res.Playlist.Name != "Happy Vibes" {
		t.Errorf("Playlist.Name = %q, want %q", res.Playlist.Name, "Happy Vibes")
	}
	if !strings.HasPrefix(res.Reasoning, "Based on your very happy mood") {
		t.Errorf("Reasoning = %q, want very-happy prefix", res.Reasoning)
	}
	if !strings.HasSuffix(res.Reasoning, ".") {
		t.Errorf("Reasoning = %q, want trailing period", res.Reasoning)
	}
	if res.Confidence < 0.9 {
		t.Errorf("Confidence = %v, want >= detection confidence", res.Confidence)
	}
}

func TestRecommendTracksModeSkipsPlaylist(t *testing.T) {
	e := testEngine(matchingProvider("calm", 20))

	res, err := e.Recommend(context.Background(), Request{Emotion: "calm", Mode: ModeTracks})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Playlist != nil {
		t.Error("Playlist set in tracks mode")
	}
}

func TestRecommendSortedDescending(t *testing.T) {
	e := testEngine(matchingProvider("happy", 25))

	res, err := e.Recommend(context.Background(), Request{Emotion: "happy"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 1; i < len(res.Recommendations); i++ {
		if res.Recommendations[i].Score > res.Recommendations[i-1].Score {
			t.Fatalf("scores not descending at %d", i)
		}
	}
}

func TestRecommendFallbackOnEmptyPool(t *testing.T) {
	// Tracks exist but carry attributes far from any preference vector, so
	// nothing clears the relevance threshold.
	f := &fakeProvider{attrs: map[string]*catalog.AttributeVector{}}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("t%02d", i)
		f.tracks = append(f.tracks, catalog.Track{ID: id, Name: "Track " + id, Artist: "Artist " + id, DurationMs: 210000, Popularity: 70 - i})
		f.attrs[id] = &catalog.AttributeVector{Valence: catalog.Float(0), Energy: catalog.Float(0)}
	}
	e := testEngine(f)

	res, err := e.Recommend(context.Background(), Request{Emotion: "happy", Confidence: 0.9})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.Degraded {
		t.Fatal("Degraded = false, want fallback path")
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("no fallback recommendations")
	}
	if res.Playlist == nil {
		t.Fatal("Playlist = nil, want fallback playlist")
	}
	found := false
	for _, tag := range res.Playlist.Tags {
		if tag == "fallback" {
			found = true
		}
	}
	if !found {
		t.Errorf("Playlist.Tags = %v, want fallback tag", res.Playlist.Tags)
	}
	if got := res.Playlist.ExpiresAt.Sub(res.Playlist.CreatedAt); got != 24*time.Hour {
		t.Errorf("fallback TTL = %s, want 24h", got)
	}
	if !strings.Contains(res.Reasoning, "matches were limited") {
		t.Errorf("Reasoning = %q, want limited-matches note", res.Reasoning)
	}
	if res.Confidence >= 0.9 {
		t.Errorf("Confidence = %v, want visibly lower than detection", res.Confidence)
	}
}

func TestRecommendUnavailableCatalogFails(t *testing.T) {
	e := testEngine(&fakeProvider{searchErr: errors.New("connection refused")})

	_, err := e.Recommend(context.Background(), Request{Emotion: "happy"})
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("err = %v, want catalog.ErrUnavailable", err)
	}
}

func TestRecommendUsesHistoryPersonalization(t *testing.T) {
	h := &fakeHistory{personalization: &ranker.Personalization{FavoriteArtists: []string{"Artist t05"}}}
	e := testEngine(matchingProvider("happy", 20), WithHistory(h))

	res, err := e.Recommend(context.Background(), Request{Emotion: "happy", UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if h.personalizeCalls != 1 {
		t.Errorf("personalizeCalls = %d, want 1", h.personalizeCalls)
	}
	if len(h.recordedEmotions) != 1 || h.recordedEmotions[0] != "happy" {
		t.Errorf("recordedEmotions = %v, want [happy]", h.recordedEmotions)
	}
	// Without the artist boost the best attribute fit (t00) ranks first.
	if res.Recommendations[0].Track.Artist != "Artist t05" {
		t.Errorf("top track artist = %q, want boosted favorite", res.Recommendations[0].Track.Artist)
	}
}

func TestRecommendExplicitPersonalizationSkipsHistory(t *testing.T) {
	h := &fakeHistory{}
	e := testEngine(matchingProvider("happy", 20), WithHistory(h))

	rc := &ranker.Context{Personalization: &ranker.Personalization{FavoriteGenres: []string{"pop"}}}
	if _, err := e.Recommend(context.Background(), Request{Emotion: "happy", Context: rc, UserID: "u1"}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if h.personalizeCalls != 0 {
		t.Errorf("personalizeCalls = %d, want 0 with explicit signals", h.personalizeCalls)
	}
}

func TestMoodPlaylist(t *testing.T) {
	e := testEngine(matchingProvider("sad", 30))

	pl, err := e.MoodPlaylist(context.Background(), "sad", 0.6)
	if err != nil {
		t.Fatalf("MoodPlaylist: %v", err)
	}
	if pl.Name != "Melancholy Sad" {
		t.Errorf("Name = %q, want %q", pl.Name, "Melancholy Sad")
	}
	if len(pl.Tracks) == 0 || len(pl.Tracks) > playlist.DefaultTrackCount {
		t.Errorf("len(Tracks) = %d, want 1..%d", len(pl.Tracks), playlist.DefaultTrackCount)
	}
}

func TestContextualPlaylistWorkout(t *testing.T) {
	e := testEngine(matchingProvider("happy", 60))

	pl, err := e.ContextualPlaylist(context.Background(), "happy", 0.7, playlist.ContextConfig{Activity: "workout"})
	if err != nil {
		t.Fatalf("ContextualPlaylist: %v", err)
	}
	if pl.Name != "Workout Happy" {
		t.Errorf("Name = %q, want %q", pl.Name, "Workout Happy")
	}
	if len(pl.Tracks) > 25 {
		t.Errorf("len(Tracks) = %d, want <= 25", len(pl.Tracks))
	}
}

func TestTransitionPlaylistThirtyMinutes(t *testing.T) {
	e := testEngine(matchingProvider("sad", 20))

	pl, err := e.TransitionPlaylist(context.Background(), "sad", "happy", 30, 0.7)
	if err != nil {
		t.Fatalf("TransitionPlaylist: %v", err)
	}
	if len(pl.Tracks) != 8 {
		t.Errorf("len(Tracks) = %d, want 8", len(pl.Tracks))
	}
	curve := pl.EnergyCurve
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			t.Fatalf("curve not rising at %d: %v", i, curve)
		}
	}
}

func TestReasoningText(t *testing.T) {
	profile := emotion.BuildProfile("happy", 0.9, 0.8, "")
	matches := []matcher.Match{{Score: 0.85}, {Score: 0.9}}
	rc := &ranker.Context{Activity: "workout", TimeOfDay: "morning"}

	got := reasoningText(profile, rc, matches, false)
	want := "Based on your very happy mood, and workout context, during morning, I found excellent matches."
	if got != want {
		t.Errorf("reasoningText = %q, want %q", got, want)
	}
}

func TestReasoningTextQualityBuckets(t *testing.T) {
	profile := emotion.BuildProfile("calm", 0.5, 0.8, "")
	tests := []struct {
		score float64
		want  string
	}{
		{0.85, "excellent"},
		{0.7, "good"},
		{0.4, "suitable"},
	}
	for _, tt := range tests {
		got := reasoningText(profile, nil, []matcher.Match{{Score: tt.score}}, false)
		if !strings.Contains(got, tt.want) {
			t.Errorf("score %v: reasoning %q missing %q", tt.score, got, tt.want)
		}
	}
}

func TestAlternativeSuggestionsCapped(t *testing.T) {
	rc := &ranker.Context{Activity: "workout"}
	got := alternativeSuggestions(emotion.Angry, rc)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestAlternativeSuggestionsUnknownCategory(t *testing.T) {
	got := alternativeSuggestions(emotion.Nostalgic, nil)
	if len(got) != 1 || got[0] != "Try exploring different genres" {
		t.Errorf("got %v, want generic suggestion", got)
	}
}

func TestContextFactors(t *testing.T) {
	profile := emotion.BuildProfile("happy", 0.8, 0.9, "")
	rc := &ranker.Context{
		TimeOfDay:       "evening",
		Weather:         "rainy",
		Personalization: &ranker.Personalization{},
	}

	got := contextFactors(rc, profile)
	want := []string{"Time: evening", "Weather: rainy", "User preferences"}
	for _, w := range want {
		found := false
		for _, f := range got {
			if f == w {
				found = true
			}
		}
		if !found {
			t.Errorf("factors %v missing %q", got, w)
		}
	}
	if !strings.HasPrefix(got[len(got)-1], "Energy level: ") {
		t.Errorf("last factor = %q, want energy level", got[len(got)-1])
	}
}

func TestOverallConfidence(t *testing.T) {
	full := &ranker.Context{TimeOfDay: "morning", Activity: "study", Personalization: &ranker.Personalization{}}
	tests := []struct {
		name      string
		detection float64
		count     int
		rc        *ranker.Context
		want      float64
	}{
		{"bare", 0.8, 0, nil, 0.8},
		{"many results", 0.8, 11, nil, 0.9},
		{"some results", 0.8, 6, nil, 0.85},
		{"rich context", 0.8, 11, full, 1.0},
		{"capped", 0.95, 11, full, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overallConfidence(tt.detection, tt.count, tt.rc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("overallConfidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{16, "afternoon"},
		{17, "evening"},
		{20, "evening"},
		{21, "night"},
		{3, "night"},
	}
	for _, tt := range tests {
		if got := TimeOfDay(tt.hour); got != tt.want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestMergeGenres(t *testing.T) {
	got := mergeGenres([]string{"pop", "rock"}, []string{"rock", "jazz", "ambient"})
	want := []string{"pop", "rock", "jazz", "ambient"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i], want[i])
		}
	}
}
