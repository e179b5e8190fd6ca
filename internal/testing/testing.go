// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/musicarr/internal/models"
)

// MockChartFetcher is a test double for [services.ChartFetcher]
type MockChartFetcher struct {
	Tracks []models.Track
	Err    error
	Calls  []ChartCall
}

// ChartCall records the arguments of one FetchChart call
type ChartCall struct {
	Genre         models.GenreID
	Limit, Offset int
}

func (m *MockChartFetcher) FetchChart(ctx context.Context, genre models.GenreID, limit, offset int) ([]models.Track, error) {
	m.Calls = append(m.Calls, ChartCall{Genre: genre, Limit: limit, Offset: offset})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks, nil
}

// MockResolver is a test double for [services.Resolver]
//
// Tracks whose key is in Failures return that error; everything else resolves to
// https://www.youtube.com/watch?v={title}.
type MockResolver struct {
	Failures map[models.TrackKey]error
	Queries  []models.Track
}

func (m *MockResolver) Resolve(ctx context.Context, track models.Track) (*models.ResolvedTrack, error) {
	m.Queries = append(m.Queries, track)
	if err, ok := m.Failures[track.Key()]; ok {
		return nil, err
	}
	return &models.ResolvedTrack{
		Title:       track.Title,
		Artist:      track.Artist,
		DownloadURL: "https://www.youtube.com/watch?v=" + track.Title,
	}, nil
}

func (m *MockResolver) Name() string { return "mock" }

// MockDownloader is a test double for [download.Downloader]
type MockDownloader struct {
	Failures map[string]error
	URLs     []string
}

func (m *MockDownloader) Download(ctx context.Context, track models.ResolvedTrack) error {
	m.URLs = append(m.URLs, track.DownloadURL)
	if err, ok := m.Failures[track.DownloadURL]; ok {
		return err
	}
	return nil
}

// MockHistoryStore is an in-memory [repositories.HistoryStore]
type MockHistoryStore struct {
	Records []models.HistoryRecord
	LoadErr error
	SaveErr error
	Saves   [][]models.HistoryRecord
}

func (m *MockHistoryStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]models.HistoryRecord(nil), m.Records...), nil
}

func (m *MockHistoryStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves = append(m.Saves, records)
	m.Records = append(append([]models.HistoryRecord(nil), records...), m.Records...)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
