// package services defines the external collaborators of a discovery run
//
// Deezer charts, YouTube search, ytmusicapi proxy search
package services

import (
	"context"

	"github.com/desertthunder/musicarr/internal/models"
)

// ChartFetcher retrieves a genre's ranked track list from the catalog service.
type ChartFetcher interface {
	// FetchChart issues one request for genre's chart. Errors wrap [shared.ErrFetch] or [shared.ErrSchema].
	FetchChart(ctx context.Context, genre models.GenreID, limit, offset int) ([]models.Track, error)
}

// Resolver maps a track to a downloadable media URL.
type Resolver interface {
	// Resolve looks up "{title} {artist}" and builds the watch URL of the first candidate.
	Resolve(ctx context.Context, track models.Track) (*models.ResolvedTrack, error)

	// Name returns the name of the lookup backend (e.g., "YouTube", "YouTube Music proxy")
	Name() string
}

// SearchQuery builds the lookup query for a track.
func SearchQuery(track models.Track) string {
	return track.Title + " " + track.Artist
}
