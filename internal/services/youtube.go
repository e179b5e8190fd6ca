// YouTube search [Resolver] implementation
//
// Reads the public results page and decodes the ytInitialData blob embedded in it,
// the same data the page's own scripts render from.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

const (
	defaultYTSearchURL string = "https://www.youtube.com/results"
	defaultVideoHost   string = "www.youtube.com"
)

var initialDataMarker = []byte("ytInitialData")

// YouTubeVideo is a video entry from the search results.
type YouTubeVideo struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
	NavigationEndpoint struct {
		CommandMetadata struct {
			WebCommandMetadata struct {
				URL string `json:"url"`
			} `json:"webCommandMetadata"`
		} `json:"commandMetadata"`
	} `json:"navigationEndpoint"`
}

// URLSuffix returns the watch path of the video ("/watch?v=...").
func (v YouTubeVideo) URLSuffix() string {
	if u := v.NavigationEndpoint.CommandMetadata.WebCommandMetadata.URL; u != "" {
		return u
	}
	if v.VideoID != "" {
		return "/watch?v=" + v.VideoID
	}
	return ""
}

type youtubeInitialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer *struct {
							Contents []struct {
								VideoRenderer *YouTubeVideo `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

// videos returns the video renderers in page order, stopping after max (all when max <= 0).
func (d *youtubeInitialData) videos(max int) []YouTubeVideo {
	var out []YouTubeVideo
	for _, section := range d.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, item := range section.ItemSectionRenderer.Contents {
			if item.VideoRenderer == nil {
				continue
			}
			out = append(out, *item.VideoRenderer)
			if max > 0 && len(out) == max {
				return out
			}
		}
	}
	return out
}

// YouTubeSearchResolver implements [Resolver] by scraping the YouTube search results page.
type YouTubeSearchResolver struct {
	api       *APIService
	videoHost string
}

// NewYouTubeSearchResolver creates a resolver that searches searchURL and builds URLs on videoHost.
func NewYouTubeSearchResolver(searchURL, videoHost string, client *http.Client) *YouTubeSearchResolver {
	if searchURL == "" {
		searchURL = defaultYTSearchURL
	}
	if videoHost == "" {
		videoHost = defaultVideoHost
	}

	return &YouTubeSearchResolver{
		api:       NewAPIService(searchURL, client),
		videoHost: videoHost,
	}
}

// Name returns the lookup backend name.
func (y *YouTubeSearchResolver) Name() string {
	return "YouTube"
}

// Search returns up to max videos for query, in result order.
func (y *YouTubeSearchResolver) Search(ctx context.Context, query string, max int) ([]YouTubeVideo, error) {
	resp, err := y.api.GetOK(ctx, "", url.Values{"search_query": {query}})
	if err != nil {
		return nil, err
	}

	data, err := parseInitialData(resp.Body)
	if err != nil {
		return nil, err
	}

	return data.videos(max), nil
}

// Resolve searches for "{title} {artist}" and returns the watch URL of the first video.
func (y *YouTubeSearchResolver) Resolve(ctx context.Context, track models.Track) (*models.ResolvedTrack, error) {
	videos, err := y.Search(ctx, SearchQuery(track), 1)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: '%s' by '%s'", shared.ErrNoResults, track.Title, track.Artist)
	}

	suffix := videos[0].URLSuffix()
	if suffix == "" {
		return nil, fmt.Errorf("%w: first result has no watch URL", shared.ErrSchema)
	}

	return &models.ResolvedTrack{
		Title:       track.Title,
		Artist:      track.Artist,
		DownloadURL: WatchURL(y.videoHost, suffix),
	}, nil
}

// WatchURL joins a video host and a URL suffix into https://{host}/{suffix}.
func WatchURL(host, suffix string) string {
	return "https://" + host + "/" + strings.TrimPrefix(suffix, "/")
}

// parseInitialData finds the ytInitialData assignment in page and decodes the object that follows it.
func parseInitialData(page []byte) (*youtubeInitialData, error) {
	idx := bytes.Index(page, initialDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: results page has no ytInitialData", shared.ErrSchema)
	}

	rest := page[idx+len(initialDataMarker):]
	start := bytes.IndexByte(rest, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: ytInitialData has no object", shared.ErrSchema)
	}

	var data youtubeInitialData
	if err := json.NewDecoder(bytes.NewReader(rest[start:])).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode ytInitialData: %v", shared.ErrSchema, err)
	}
	return &data, nil
}
