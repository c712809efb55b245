package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Spotify's maximum result count for a single search call.
const maxSearchLimit = 50

// SpotifyProvider implements Provider using the Spotify Web API with
// client-credentials auth. The core only reads the public catalog, so no
// user authorization flow is involved.
type SpotifyProvider struct {
	api *spotify.Client
}

// NewSpotify creates a SpotifyProvider, fetching an initial access token to
// verify the credentials.
func NewSpotify(ctx context.Context, clientID, clientSecret string) (*SpotifyProvider, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyProvider{api: spotify.New(httpClient)}, nil
}

// Search returns up to limit tracks for a query. Limit is capped at the
// provider's single-call maximum.
func (p *SpotifyProvider) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	result, err := p.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching tracks for %q: %w", query, err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Tracks))
	for _, ft := range result.Tracks.Tracks {
		tracks = append(tracks, convertTrack(ft))
	}
	return tracks, nil
}

// Attributes fetches the audio feature vector for a track. Returns
// (nil, nil) when Spotify has no audio features for the track.
func (p *SpotifyProvider) Attributes(ctx context.Context, trackID string) (*AttributeVector, error) {
	features, err := p.api.GetAudioFeatures(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("fetching audio features for %s: %w", trackID, err)
	}
	if len(features) == 0 || features[0] == nil {
		return nil, nil
	}

	f := features[0]
	return &AttributeVector{
		Valence:          Float(float64(f.Valence)),
		Energy:           Float(float64(f.Energy)),
		Danceability:     Float(float64(f.Danceability)),
		Acousticness:     Float(float64(f.Acousticness)),
		Instrumentalness: Float(float64(f.Instrumentalness)),
		Liveness:         Float(float64(f.Liveness)),
		Speechiness:      Float(float64(f.Speechiness)),
		Tempo:            Float(float64(f.Tempo)),
	}, nil
}

// convertTrack converts a Spotify FullTrack to a catalog Track.
func convertTrack(ft spotify.FullTrack) Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	var cover string
	if len(ft.Album.Images) > 0 {
		cover = ft.Album.Images[0].URL
	}

	return Track{
		ID:          ft.ID.String(),
		Name:        ft.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       ft.Album.Name,
		DurationMs:  int(ft.Duration),
		Popularity:  int(ft.Popularity),
		PreviewURL:  ft.PreviewURL,
		ExternalURL: ft.ExternalURLs["spotify"],
		CoverURL:    cover,
	}
}
