// YouTube Music proxy [Resolver] implementation
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi Python library.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

const defaultProxyURL string = "http://127.0.0.1:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ProxySearchResult is one entry of the proxy's /api/search response.
type ProxySearchResult struct {
	VideoID  string          `json:"videoId"`
	Title    string          `json:"title"`
	Artists  []YouTubeArtist `json:"artists"`
	Duration string          `json:"duration"`
}

// ProxyResolver implements [Resolver] through the ytmusicapi proxy.
type ProxyResolver struct {
	api       *APIService
	videoHost string
}

// NewProxyResolver creates a resolver for the proxy at baseURL.
func NewProxyResolver(baseURL, videoHost string, client *http.Client) *ProxyResolver {
	if baseURL == "" {
		baseURL = defaultProxyURL
	}
	if videoHost == "" {
		videoHost = defaultVideoHost
	}

	return &ProxyResolver{
		api:       NewAPIService(baseURL, client),
		videoHost: videoHost,
	}
}

// Name returns the lookup backend name.
func (p *ProxyResolver) Name() string {
	return "YouTube Music proxy"
}

// Resolve looks up the track and builds the watch URL of the first song result.
//
// Calls GET /api/search?q={title} {artist}&filter=songs&limit=1 on the proxy.
func (p *ProxyResolver) Resolve(ctx context.Context, track models.Track) (*models.ResolvedTrack, error) {
	query := url.Values{}
	query.Set("q", SearchQuery(track))
	query.Set("filter", "songs")
	query.Set("limit", "1")

	resp, err := p.api.Get(ctx, "/api/search", query)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(resp.Body, &errResp); err == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("%w: youtube music proxy error (status %d): %s", shared.ErrFetch, resp.StatusCode, errResp.Detail)
		}
		return nil, fmt.Errorf("%w: youtube music proxy error: status %d", shared.ErrFetch, resp.StatusCode)
	}

	var results []ProxySearchResult
	if err := json.Unmarshal(resp.Body, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search results: %v", shared.ErrSchema, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: '%s' by '%s'", shared.ErrNoResults, track.Title, track.Artist)
	}
	if results[0].VideoID == "" {
		return nil, fmt.Errorf("%w: first result has no videoId", shared.ErrSchema)
	}

	return &models.ResolvedTrack{
		Title:       track.Title,
		Artist:      track.Artist,
		DownloadURL: WatchURL(p.videoHost, "watch?v="+url.QueryEscape(results[0].VideoID)),
	}, nil
}

// NewResolver builds the [Resolver] selected by cfg.Backend.
func NewResolver(cfg shared.ResolverConfig) (Resolver, error) {
	client := NewHTTPClient(cfg.Timeout())

	switch cfg.Backend {
	case shared.BackendYouTube:
		return NewYouTubeSearchResolver(cfg.SearchURL, cfg.VideoHost, client), nil
	case shared.BackendProxy:
		return NewProxyResolver(cfg.ProxyURL, cfg.VideoHost, client), nil
	default:
		return nil, fmt.Errorf("%w: unknown resolver backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}
