package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

func TestProxyResolver(t *testing.T) {
	track := models.Track{Title: "Song B", Artist: "Artist Y"}

	t.Run("Resolve", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/search" {
				t.Errorf("expected path /api/search, got %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("q") != "Song B Artist Y" {
				t.Errorf("expected q 'Song B Artist Y', got %q", q.Get("q"))
			}
			if q.Get("filter") != "songs" || q.Get("limit") != "1" {
				t.Errorf("unexpected query %v", q)
			}
			w.Write([]byte(`[{"videoId": "vid1", "title": "Song B", "artists": [{"name": "Artist Y", "id": "a1"}], "duration": "3:12"}]`))
		}))
		defer server.Close()

		resolved, err := NewProxyResolver(server.URL, "www.youtube.com", nil).Resolve(context.Background(), track)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolved.DownloadURL != "https://www.youtube.com/watch?v=vid1" {
			t.Errorf("unexpected URL %s", resolved.DownloadURL)
		}
		if resolved.Title != "Song B" || resolved.Artist != "Artist Y" {
			t.Errorf("identity not preserved: %+v", resolved)
		}
	})

	errorCases := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "empty results", status: http.StatusOK, body: `[]`, wantErr: shared.ErrNoResults},
		{name: "missing video id", status: http.StatusOK, body: `[{"title": "x"}]`, wantErr: shared.ErrSchema},
		{name: "invalid json", status: http.StatusOK, body: `{"oops"`, wantErr: shared.ErrSchema},
		{
			name:    "error detail",
			status:  http.StatusUnauthorized,
			body:    `{"detail": "Not authenticated"}`,
			wantErr: shared.ErrFetch,
			wantMsg: "Not authenticated",
		},
		{name: "plain error", status: http.StatusBadGateway, body: `bad gateway`, wantErr: shared.ErrFetch, wantMsg: "502"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewProxyResolver(server.URL, "", nil).Resolve(context.Background(), track)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected %q in error, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestNewResolver(t *testing.T) {
	t.Run("youtube", func(t *testing.T) {
		r, err := NewResolver(shared.ResolverConfig{Backend: shared.BackendYouTube, TimeoutSeconds: 5})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		yt, ok := r.(*YouTubeSearchResolver)
		if !ok {
			t.Fatalf("expected *YouTubeSearchResolver, got %T", r)
		}
		if yt.api.httpClient.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", yt.api.httpClient.Timeout)
		}
	})

	t.Run("proxy", func(t *testing.T) {
		r, err := NewResolver(shared.ResolverConfig{Backend: shared.BackendProxy, ProxyURL: "http://localhost:9999"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := r.(*ProxyResolver); !ok {
			t.Fatalf("expected *ProxyResolver, got %T", r)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewResolver(shared.ResolverConfig{Backend: "bing"}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
