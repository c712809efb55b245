package history

import "time"

// EmotionEvent is one recorded emotion detection.
type EmotionEvent struct {
	ID         int64
	UserID     string
	Emotion    string
	Intensity  float64
	Confidence float64
	DetectedAt time.Time
}

// Listen is one recorded playback event. Audio features are optional; a
// nil field means the catalog had no data for the track.
type Listen struct {
	ID           int64
	UserID       string
	TrackID      string
	Name         string
	Artist       string
	Genre        string
	Energy       *float64
	Valence      *float64
	Danceability *float64
	Acousticness *float64
	PlayedAt     time.Time
}
