package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/monisha-alt/sonic-aura-stream/internal/history"
)

// HistorySource is the optional listening-history surface. User endpoints
// are mounted only when one is configured.
type HistorySource interface {
	RecordListens(ctx context.Context, listens []history.Listen) error
	EmotionSummary(ctx context.Context, userID string) (history.Summary, error)
	MoodProfile(ctx context.Context, userID string) ([]history.MoodInsight, error)
}

type listenRequest struct {
	TrackID      string    `json:"track_id" validate:"required"`
	Name         string    `json:"name"`
	Artist       string    `json:"artist"`
	Genre        string    `json:"genre"`
	Energy       *float64  `json:"energy" validate:"omitempty,min=0,max=1"`
	Valence      *float64  `json:"valence" validate:"omitempty,min=0,max=1"`
	Danceability *float64  `json:"danceability" validate:"omitempty,min=0,max=1"`
	Acousticness *float64  `json:"acousticness" validate:"omitempty,min=0,max=1"`
	PlayedAt     time.Time `json:"played_at"`
}

type listensRequest struct {
	Listens []listenRequest `json:"listens" validate:"required,min=1,dive"`
}

type emotionFrequencyResponse struct {
	Emotion   string  `json:"emotion"`
	Frequency float64 `json:"frequency"`
}

type emotionSummaryResponse struct {
	TotalDetections  int                        `json:"total_detections"`
	DominantEmotions []emotionFrequencyResponse `json:"dominant_emotions"`
	AvgIntensity     float64                    `json:"avg_intensity"`
	AvgConfidence    float64                    `json:"avg_confidence"`
	Patterns         []string                   `json:"patterns"`
	Recommendations  []string                   `json:"recommendations"`
}

type moodClusterResponse struct {
	Name       string             `json:"name"`
	TrackCount int                `json:"track_count"`
	Centroid   map[string]float64 `json:"centroid"`
}

type insightsResponse struct {
	Emotions     emotionSummaryResponse `json:"emotions"`
	MoodClusters []moodClusterResponse  `json:"mood_clusters"`
}

// RecordListens handles POST /api/v1/users/{userID}/listens.
func (h *Handlers) RecordListens(w http.ResponseWriter, r *http.Request) {
	var req listensRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userID")
	listens := make([]history.Listen, len(req.Listens))
	for i, l := range req.Listens {
		playedAt := l.PlayedAt
		if playedAt.IsZero() {
			playedAt = time.Now()
		}
		listens[i] = history.Listen{
			UserID:       userID,
			TrackID:      l.TrackID,
			Name:         l.Name,
			Artist:       l.Artist,
			Genre:        l.Genre,
			Energy:       l.Energy,
			Valence:      l.Valence,
			Danceability: l.Danceability,
			Acousticness: l.Acousticness,
			PlayedAt:     playedAt,
		}
	}

	if err := h.hist.RecordListens(r.Context(), listens); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Insights handles GET /api/v1/users/{userID}/insights.
func (h *Handlers) Insights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	summary, err := h.hist.EmotionSummary(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	moods, err := h.hist.MoodProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insightsJSON(summary, moods))
}

func insightsJSON(summary history.Summary, moods []history.MoodInsight) insightsResponse {
	dominant := make([]emotionFrequencyResponse, len(summary.DominantEmotions))
	for i, d := range summary.DominantEmotions {
		dominant[i] = emotionFrequencyResponse{Emotion: d.Emotion, Frequency: d.Frequency}
	}

	clusters := make([]moodClusterResponse, len(moods))
	for i, m := range moods {
		clusters[i] = moodClusterResponse{
			Name:       m.Name,
			TrackCount: len(m.Listens),
			Centroid:   m.Centroid,
		}
	}

	return insightsResponse{
		Emotions: emotionSummaryResponse{
			TotalDetections:  summary.TotalDetections,
			DominantEmotions: dominant,
			AvgIntensity:     summary.AvgIntensity,
			AvgConfidence:    summary.AvgConfidence,
			Patterns:         summary.Patterns,
			Recommendations:  summary.Recommendations,
		},
		MoodClusters: clusters,
	}
}
