package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ListenRepository handles playback event database operations.
type ListenRepository struct {
	pool *pgxpool.Pool
}

// RecordBatch stores multiple playback events efficiently.
func (r *ListenRepository) RecordBatch(ctx context.Context, listens []Listen) error {
	if len(listens) == 0 {
		return nil
	}

	query := `
		INSERT INTO listens (user_id, track_id, name, artist, genre, energy, valence, danceability, acousticness, played_at)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::float8[], $7::float8[], $8::float8[], $9::float8[], $10::timestamptz[])
	`

	userIDs := make([]string, len(listens))
	trackIDs := make([]string, len(listens))
	names := make([]string, len(listens))
	artists := make([]string, len(listens))
	genres := make([]string, len(listens))
	energies := make([]*float64, len(listens))
	valences := make([]*float64, len(listens))
	danceabilities := make([]*float64, len(listens))
	acousticnesses := make([]*float64, len(listens))
	playedAts := make([]time.Time, len(listens))

	for i, l := range listens {
		userIDs[i] = l.UserID
		trackIDs[i] = l.TrackID
		names[i] = l.Name
		artists[i] = l.Artist
		genres[i] = l.Genre
		energies[i] = l.Energy
		valences[i] = l.Valence
		danceabilities[i] = l.Danceability
		acousticnesses[i] = l.Acousticness
		playedAts[i] = l.PlayedAt
	}

	_, err := r.pool.Exec(ctx, query,
		userIDs, trackIDs, names, artists, genres,
		energies, valences, danceabilities, acousticnesses, playedAts,
	)
	if err != nil {
		return fmt.Errorf("batch recording listens: %w", err)
	}
	return nil
}

// Recent retrieves a user's most recent listens, newest first.
func (r *ListenRepository) Recent(ctx context.Context, userID string, limit int) ([]Listen, error) {
	if limit <= 0 {
		limit = recentListenLimit
	}
	query := `
		SELECT id, user_id, track_id, name, artist, genre, energy, valence, danceability, acousticness, played_at
		FROM listens
		WHERE user_id = $1
		ORDER BY played_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent listens: %w", err)
	}
	defer rows.Close()

	var listens []Listen
	for rows.Next() {
		var l Listen
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.TrackID,
			&l.Name,
			&l.Artist,
			&l.Genre,
			&l.Energy,
			&l.Valence,
			&l.Danceability,
			&l.Acousticness,
			&l.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning listen: %w", err)
		}
		listens = append(listens, l)
	}
	return listens, rows.Err()
}

// FavoriteArtists returns a user's most played artists.
func (r *ListenRepository) FavoriteArtists(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `
		SELECT artist
		FROM listens
		WHERE user_id = $1
		GROUP BY artist
		ORDER BY COUNT(*) DESC, artist
		LIMIT $2
	`
	return r.queryStrings(ctx, query, userID, limit)
}

// FavoriteGenres returns a user's most played genres.
func (r *ListenRepository) FavoriteGenres(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `
		SELECT genre
		FROM listens
		WHERE user_id = $1 AND genre <> ''
		GROUP BY genre
		ORDER BY COUNT(*) DESC, genre
		LIMIT $2
	`
	return r.queryStrings(ctx, query, userID, limit)
}

func (r *ListenRepository) queryStrings(ctx context.Context, query, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = favoriteLimit
	}
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying listens: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
