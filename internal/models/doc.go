// Package models defines the data carried through a discovery run.
//
//   - [Track] : a chart entry from the catalog service
//   - [ResolvedTrack] : a track mapped to a downloadable media URL
//   - [HistoryRecord] : the persisted form of a track selected by an earlier run
//
// Tracks and history records share one identity, the [TrackKey] (title, artist), compared by exact string equality.
package models
