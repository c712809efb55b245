package web

import (
	"time"

	"github.com/monisha-alt/sonic-aura-stream/internal/engine"
	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
	"github.com/monisha-alt/sonic-aura-stream/internal/playlist"
)

type trackResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album,omitempty"`
	DurationMs  int     `json:"duration_ms"`
	Popularity  int     `json:"popularity"`
	PreviewURL  string  `json:"preview_url,omitempty"`
	ExternalURL string  `json:"external_url,omitempty"`
	CoverURL    string  `json:"cover_url,omitempty"`
	MatchScore  float64 `json:"match_score"`
}

type playlistResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Emotion         string          `json:"emotion"`
	Intensity       float64         `json:"intensity"`
	Tracks          []trackResponse `json:"tracks"`
	TotalDurationMs int             `json:"total_duration_ms"`
	AvgMatchScore   float64         `json:"avg_match_score"`
	EnergyCurve     []float64       `json:"energy_curve"`
	MoodTransitions []string        `json:"mood_transitions,omitempty"`
	CoverURL        string          `json:"cover_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	Tags            []string        `json:"tags"`
}

type recommendationResponse struct {
	Recommendations        []trackResponse   `json:"recommendations"`
	Playlist               *playlistResponse `json:"playlist,omitempty"`
	Reasoning              string            `json:"reasoning"`
	Confidence             float64           `json:"confidence"`
	ContextFactors         []string          `json:"context_factors"`
	AlternativeSuggestions []string          `json:"alternative_suggestions"`
	Degraded               bool              `json:"degraded,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
}

func trackJSON(m matcher.Match) trackResponse {
	return trackResponse{
		ID:          m.Track.ID,
		Name:        m.Track.Name,
		Artist:      m.Track.Artist,
		Album:       m.Track.Album,
		DurationMs:  m.Track.DurationMs,
		Popularity:  m.Track.Popularity,
		PreviewURL:  m.Track.PreviewURL,
		ExternalURL: m.Track.ExternalURL,
		CoverURL:    m.Track.CoverURL,
		MatchScore:  m.Score,
	}
}

func tracksJSON(matches []matcher.Match) []trackResponse {
	out := make([]trackResponse, len(matches))
	for i, m := range matches {
		out[i] = trackJSON(m)
	}
	return out
}

func playlistJSON(pl *playlist.Playlist) *playlistResponse {
	if pl == nil {
		return nil
	}
	return &playlistResponse{
		ID:              pl.ID,
		Name:            pl.Name,
		Description:     pl.Description,
		Emotion:         pl.Emotion,
		Intensity:       pl.Intensity,
		Tracks:          tracksJSON(pl.Tracks),
		TotalDurationMs: pl.TotalDurationMs,
		AvgMatchScore:   pl.AvgMatchScore,
		EnergyCurve:     pl.EnergyCurve,
		MoodTransitions: pl.MoodTransitions,
		CoverURL:        pl.CoverURL,
		CreatedAt:       pl.CreatedAt,
		ExpiresAt:       pl.ExpiresAt,
		Tags:            pl.Tags,
	}
}

func resultJSON(res *engine.Result) recommendationResponse {
	return recommendationResponse{
		Recommendations:        tracksJSON(res.Recommendations),
		Playlist:               playlistJSON(res.Playlist),
		Reasoning:              res.Reasoning,
		Confidence:             res.Confidence,
		ContextFactors:         res.ContextFactors,
		AlternativeSuggestions: res.AlternativeSuggestions,
		Degraded:               res.Degraded,
		CreatedAt:              res.CreatedAt,
	}
}
