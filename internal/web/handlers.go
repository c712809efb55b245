package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/monisha-alt/sonic-aura-stream/internal/catalog"
	"github.com/monisha-alt/sonic-aura-stream/internal/engine"
	"github.com/monisha-alt/sonic-aura-stream/internal/playlist"
	"github.com/monisha-alt/sonic-aura-stream/internal/ranker"
)

// Recommender is the engine surface the API depends on.
type Recommender interface {
	Recommend(ctx context.Context, req engine.Request) (*engine.Result, error)
	MoodPlaylist(ctx context.Context, label string, intensity float64) (*playlist.Playlist, error)
	ContextualPlaylist(ctx context.Context, label string, intensity float64, cc playlist.ContextConfig) (*playlist.Playlist, error)
	TransitionPlaylist(ctx context.Context, fromLabel, toLabel string, durationMinutes int, intensity float64) (*playlist.Playlist, error)
}

// Handlers implements the API endpoints.
type Handlers struct {
	rec      Recommender
	hist     HistorySource // nil when no history store is configured
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandlers creates the endpoint handlers.
func NewHandlers(rec Recommender, log zerolog.Logger) *Handlers {
	return &Handlers{
		rec:      rec,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

type contextRequest struct {
	TimeOfDay string `json:"time_of_day" validate:"omitempty,oneof=morning afternoon evening night"`
	Activity  string `json:"activity"`
	Weather   string `json:"weather"`
}

type personalizationRequest struct {
	FavoriteGenres  []string `json:"favorite_genres"`
	FavoriteArtists []string `json:"favorite_artists"`
}

type recommendationsRequest struct {
	Emotion         string                  `json:"emotion" validate:"required"`
	Intensity       float64                 `json:"intensity" validate:"omitempty,min=0,max=1"`
	Confidence      float64                 `json:"confidence" validate:"omitempty,min=0,max=1"`
	Mode            string                  `json:"mode" validate:"omitempty,oneof=tracks playlist mixed"`
	Limit           int                     `json:"limit" validate:"omitempty,min=1,max=50"`
	UserID          string                  `json:"user_id"`
	Context         *contextRequest         `json:"context"`
	Personalization *personalizationRequest `json:"personalization"`
}

type moodPlaylistRequest struct {
	Emotion   string  `json:"emotion" validate:"required"`
	Intensity float64 `json:"intensity" validate:"omitempty,min=0,max=1"`
}

type contextualPlaylistRequest struct {
	Emotion         string  `json:"emotion" validate:"required"`
	Intensity       float64 `json:"intensity" validate:"omitempty,min=0,max=1"`
	TimeOfDay       string  `json:"time_of_day" validate:"omitempty,oneof=morning afternoon evening night"`
	Activity        string  `json:"activity"`
	Weather         string  `json:"weather"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,min=1"`
}

type transitionPlaylistRequest struct {
	FromEmotion     string  `json:"from_emotion" validate:"required"`
	ToEmotion       string  `json:"to_emotion" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,min=1"`
	Intensity       float64 `json:"intensity" validate:"omitempty,min=0,max=1"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.rec.Recommend(r.Context(), engine.Request{
		Emotion:    req.Emotion,
		Intensity:  req.Intensity,
		Confidence: req.Confidence,
		Context:    req.rankerContext(),
		UserID:     req.UserID,
		Mode:       engine.Mode(req.Mode),
		Limit:      req.Limit,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultJSON(result))
}

// MoodPlaylist handles POST /api/v1/playlists/mood.
func (h *Handlers) MoodPlaylist(w http.ResponseWriter, r *http.Request) {
	var req moodPlaylistRequest
	if !h.decode(w, r, &req) {
		return
	}

	pl, err := h.rec.MoodPlaylist(r.Context(), req.Emotion, req.Intensity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistJSON(pl))
}

// ContextualPlaylist handles POST /api/v1/playlists/contextual.
func (h *Handlers) ContextualPlaylist(w http.ResponseWriter, r *http.Request) {
	var req contextualPlaylistRequest
	if !h.decode(w, r, &req) {
		return
	}

	pl, err := h.rec.ContextualPlaylist(r.Context(), req.Emotion, req.Intensity, playlist.ContextConfig{
		TimeOfDay:       req.TimeOfDay,
		Activity:        req.Activity,
		Weather:         req.Weather,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistJSON(pl))
}

// TransitionPlaylist handles POST /api/v1/playlists/transition.
func (h *Handlers) TransitionPlaylist(w http.ResponseWriter, r *http.Request) {
	var req transitionPlaylistRequest
	if !h.decode(w, r, &req) {
		return
	}

	pl, err := h.rec.TransitionPlaylist(r.Context(), req.FromEmotion, req.ToEmotion, req.DurationMinutes, req.Intensity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistJSON(pl))
}

func (req *recommendationsRequest) rankerContext() *ranker.Context {
	if req.Context == nil && req.Personalization == nil {
		return nil
	}
	rc := &ranker.Context{}
	if req.Context != nil {
		rc.TimeOfDay = req.Context.TimeOfDay
		rc.Activity = req.Context.Activity
		rc.Weather = req.Context.Weather
	}
	if req.Personalization != nil {
		rc.Personalization = &ranker.Personalization{
			FavoriteGenres:  req.Personalization.FavoriteGenres,
			FavoriteArtists: req.Personalization.FavoriteArtists,
		}
	}
	return rc
}

// decode parses and validates a JSON request body, writing the error
// response itself on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUnavailable) {
		h.log.Error().Err(err).Msg("catalog unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "music catalog unavailable"})
		return
	}
	h.log.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
