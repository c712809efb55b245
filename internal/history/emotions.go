package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EmotionRepository handles emotion event database operations.
type EmotionRepository struct {
	pool *pgxpool.Pool
}

// Record stores one emotion event.
func (r *EmotionRepository) Record(ctx context.Context, e *EmotionEvent) error {
	query := `
		INSERT INTO emotion_events (user_id, emotion, intensity, confidence, detected_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, detected_at
	`
	err := r.pool.QueryRow(ctx, query,
		e.UserID,
		e.Emotion,
		e.Intensity,
		e.Confidence,
	).Scan(&e.ID, &e.DetectedAt)
	if err != nil {
		return fmt.Errorf("recording emotion event: %w", err)
	}
	return nil
}

// History retrieves a user's emotion events, newest first.
func (r *EmotionRepository) History(ctx context.Context, userID string, limit int) ([]EmotionEvent, error) {
	if limit <= 0 {
		limit = emotionEventLimit
	}
	query := `
		SELECT id, user_id, emotion, intensity, confidence, detected_at
		FROM emotion_events
		WHERE user_id = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying emotion events: %w", err)
	}
	defer rows.Close()

	var events []EmotionEvent
	for rows.Next() {
		var e EmotionEvent
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Emotion,
			&e.Intensity,
			&e.Confidence,
			&e.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning emotion event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
