// package models defines the data model for the discovery pipeline
package models

// TrackKey is the identity of a track: exact title and artist strings.
type TrackKey struct {
	Title  string
	Artist string
}

// Track is a ranked entry from a genre chart.
type Track struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	SourceURL string `json:"url"` // Canonical catalog link
}

// Key returns the identity key of the track.
func (t Track) Key() TrackKey {
	return TrackKey{Title: t.Title, Artist: t.Artist}
}

// ToRecord converts the track to its persisted form.
func (t Track) ToRecord() HistoryRecord {
	return HistoryRecord{Title: t.Title, Artist: t.Artist, URL: t.SourceURL}
}

// ResolvedTrack is a track with the media URL the downloader fetches.
type ResolvedTrack struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	DownloadURL string `json:"url"`
}

// Key returns the identity key of the resolved track.
func (r ResolvedTrack) Key() TrackKey {
	return TrackKey{Title: r.Title, Artist: r.Artist}
}

// HistoryRecord is one entry of the download history.
type HistoryRecord struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
}

// Key returns the identity key of the record.
func (h HistoryRecord) Key() TrackKey {
	return TrackKey{Title: h.Title, Artist: h.Artist}
}

// RecordsFromTracks converts tracks to history records, preserving order.
func RecordsFromTracks(tracks []Track) []HistoryRecord {
	records := make([]HistoryRecord, len(tracks))
	for i, t := range tracks {
		records[i] = t.ToRecord()
	}
	return records
}

// GenreID is the catalog's numeric genre identifier used to select a chart.
type GenreID int
