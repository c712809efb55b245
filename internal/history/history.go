// Package history persists emotion detections and listening events in
// PostgreSQL and derives personalization signals and mood insights from
// them. The rest of the system works fully without it.
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
	"github.com/monisha-alt/sonic-aura-stream/internal/ranker"
)

const (
	recentListenLimit  = 10
	favoriteLimit      = 5
	emotionEventLimit  = 100
	insightListenLimit = 50
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new store and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Emotions returns an EmotionRepository.
func (s *Store) Emotions() *EmotionRepository {
	return &EmotionRepository{pool: s.pool}
}

// Listens returns a ListenRepository.
func (s *Store) Listens() *ListenRepository {
	return &ListenRepository{pool: s.pool}
}

// RecordEmotion stores one emotion detection for a user.
func (s *Store) RecordEmotion(ctx context.Context, userID string, p emotion.Profile) error {
	return s.Emotions().Record(ctx, &EmotionEvent{
		UserID:     userID,
		Emotion:    string(p.Primary),
		Intensity:  p.Intensity,
		Confidence: p.Confidence,
	})
}

// RecordListens stores playback events for later personalization.
func (s *Store) RecordListens(ctx context.Context, listens []Listen) error {
	return s.Listens().RecordBatch(ctx, listens)
}

// EmotionSummary analyzes a user's recent emotion detections.
func (s *Store) EmotionSummary(ctx context.Context, userID string) (Summary, error) {
	events, err := s.Emotions().History(ctx, userID, emotionEventLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("loading emotion history: %w", err)
	}
	return AnalyzeEmotionHistory(events), nil
}

// MoodProfile clusters a user's recent listens into mood groups.
func (s *Store) MoodProfile(ctx context.Context, userID string) ([]MoodInsight, error) {
	listens, err := s.Listens().Recent(ctx, userID, insightListenLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent listens: %w", err)
	}
	insights, _ := MoodInsights(listens, DefaultInsightConfig())
	return insights, nil
}

// PersonalizationFor assembles a user's listening signals: favorite genres
// and artists by play count plus the most recent listens.
func (s *Store) PersonalizationFor(ctx context.Context, userID string) (*ranker.Personalization, error) {
	listens := s.Listens()

	genres, err := listens.FavoriteGenres(ctx, userID, favoriteLimit)
	if err != nil {
		return nil, fmt.Errorf("loading favorite genres: %w", err)
	}
	artists, err := listens.FavoriteArtists(ctx, userID, favoriteLimit)
	if err != nil {
		return nil, fmt.Errorf("loading favorite artists: %w", err)
	}
	recent, err := listens.Recent(ctx, userID, recentListenLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent listens: %w", err)
	}

	recentListens := make([]ranker.Listen, len(recent))
	for i, l := range recent {
		recentListens[i] = ranker.Listen{
			TrackID: l.TrackID,
			Artist:  l.Artist,
			Genre:   l.Genre,
		}
	}

	return &ranker.Personalization{
		FavoriteGenres:  genres,
		FavoriteArtists: artists,
		RecentListens:   recentListens,
	}, nil
}
