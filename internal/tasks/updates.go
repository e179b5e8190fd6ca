package tasks

import (
	"fmt"

	"github.com/desertthunder/musicarr/internal/models"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SelectGenre Phase = iota
	FetchChart
	LoadHistory
	FilterTracks
	PersistHistory
	ResolveTracks
	DownloadTracks
	Complete
)

func (p Phase) String() string {
	switch p {
	case SelectGenre:
		return "select_genre"
	case FetchChart:
		return "fetch_chart"
	case LoadHistory:
		return "load_history"
	case FilterTracks:
		return "filter_tracks"
	case PersistHistory:
		return "persist_history"
	case ResolveTracks:
		return "resolve_tracks"
	case DownloadTracks:
		return "download_tracks"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func selectGenreUpdate(genre models.GenreID) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectGenre,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Genre of the day: %s (%d)", GenreName(genre), genre),
		Data:    genre,
	}
}

func fetchChartUpdate(genre models.GenreID, limit int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchChart,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching top %d %s tracks from Deezer...", limit, GenreName(genre)),
	}
}

func loadHistoryUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d history records", count),
	}
}

func filterTracksUpdate(selected, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Selected %d new tracks out of %d", selected, fetched),
	}
}

func persistHistoryUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded %d tracks in history", count),
	}
}

func resolveTrackUpdate(step, total int, tr *models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func downloadTrackUpdate(step, total int, tr *models.ResolvedTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s - %s", step, total, tr.Artist, tr.Title),
		Data:    tr,
	}
}

func completeUpdate(report *RunReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d downloaded, %d unresolved, %d failed", report.Downloaded, report.Unresolved, report.Failed),
		Data:    report,
	}
}
