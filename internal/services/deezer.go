// Deezer chart [ChartFetcher] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

const defaultDeezerChartURL string = "https://api.deezer.com/chart"

// DeezerArtist is the artist object embedded in a chart track.
type DeezerArtist struct {
	ID   int     `json:"id"`
	Name *string `json:"name"`
}

// DeezerTrack is a track object from the chart response.
//
// Required fields are pointers so that absence can be told apart from an empty string.
type DeezerTrack struct {
	ID       int           `json:"id"`
	Title    *string       `json:"title"`
	Link     *string       `json:"link"`
	Position int           `json:"position"`
	Artist   *DeezerArtist `json:"artist"`
}

// DeezerError is the error object Deezer returns with a 200 status.
type DeezerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type deezerChart struct {
	Tracks *struct {
		Data  *[]DeezerTrack `json:"data"`
		Total int            `json:"total"`
	} `json:"tracks"`
	Error *DeezerError `json:"error"`
}

// DeezerService implements [ChartFetcher] for the Deezer chart API.
type DeezerService struct {
	api *APIService
}

// NewDeezerService creates a chart fetcher for baseURL (default https://api.deezer.com/chart).
func NewDeezerService(baseURL string, client *http.Client) *DeezerService {
	if baseURL == "" {
		baseURL = defaultDeezerChartURL
	}
	return &DeezerService{api: NewAPIService(baseURL, client)}
}

// FetchChart retrieves the ranked chart for genre.
//
// Calls GET {base}/{genre}?limit={limit}&index={offset}.
func (d *DeezerService) FetchChart(ctx context.Context, genre models.GenreID, limit, offset int) ([]models.Track, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("index", strconv.Itoa(offset))

	resp, err := d.api.GetOK(ctx, fmt.Sprintf("/%d", genre), query)
	if err != nil {
		return nil, err
	}

	var chart deezerChart
	if err := json.Unmarshal(resp.Body, &chart); err != nil {
		return nil, fmt.Errorf("%w: failed to decode chart: %v", shared.ErrSchema, err)
	}

	if chart.Error != nil {
		return nil, fmt.Errorf("%w: deezer API error %d (%s): %s", shared.ErrFetch, chart.Error.Code, chart.Error.Type, chart.Error.Message)
	}
	if chart.Tracks == nil || chart.Tracks.Data == nil {
		return nil, fmt.Errorf("%w: chart response has no tracks.data", shared.ErrSchema)
	}

	data := *chart.Tracks.Data
	tracks := make([]models.Track, 0, len(data))
	for i, dt := range data {
		track, err := dt.toTrack()
		if err != nil {
			return nil, fmt.Errorf("%w: track %d: %v", shared.ErrSchema, i, err)
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

func (dt DeezerTrack) toTrack() (models.Track, error) {
	switch {
	case dt.Title == nil:
		return models.Track{}, fmt.Errorf("missing title")
	case dt.Artist == nil || dt.Artist.Name == nil:
		return models.Track{}, fmt.Errorf("missing artist.name")
	case dt.Link == nil:
		return models.Track{}, fmt.Errorf("missing link")
	}

	return models.Track{
		Title:     *dt.Title,
		Artist:    *dt.Artist.Name,
		SourceURL: *dt.Link,
	}, nil
}
