package tasks

import (
	"time"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/repositories"
)

// OutcomeStatus is the final state of a selected track.
type OutcomeStatus int

const (
	OutcomePending    OutcomeStatus = iota // Not yet processed
	OutcomeResolved                        // Resolved, download not attempted (dry run)
	OutcomeDownloaded                      // Downloader exited successfully
	OutcomeUnresolved                      // Lookup failed, skipped
	OutcomeFailed                          // Downloader failed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeResolved:
		return "resolved"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

// TrackOutcome is what happened to one selected track.
type TrackOutcome struct {
	Track    models.Track          // Track as selected from the chart
	Resolved *models.ResolvedTrack // nil when the lookup failed
	Status   OutcomeStatus
	Err      error // Cause for unresolved and failed tracks
}

// RunReport contains everything a run did.
type RunReport struct {
	RunID      string
	Day        time.Weekday
	Genre      models.GenreID
	Fetched    int            // Chart entries received
	Selected   int            // Chart entries not already in history
	Outcomes   []TrackOutcome // One per selected track, chart order
	Resolved   int
	Downloaded int
	Unresolved int
	Failed     int
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Tally recomputes the counters from Outcomes.
func (r *RunReport) Tally() {
	r.Resolved, r.Downloaded, r.Unresolved, r.Failed = 0, 0, 0, 0
	for _, o := range r.Outcomes {
		if o.Resolved != nil {
			r.Resolved++
		}
		switch o.Status {
		case OutcomeDownloaded:
			r.Downloaded++
		case OutcomeUnresolved:
			r.Unresolved++
		case OutcomeFailed:
			r.Failed++
		}
	}
}

// ResolvedTracks returns the resolved tracks in chart order.
func (r *RunReport) ResolvedTracks() []models.ResolvedTrack {
	var out []models.ResolvedTrack
	for _, o := range r.Outcomes {
		if o.Resolved != nil {
			out = append(out, *o.Resolved)
		}
	}
	return out
}

// DownloadedTracks returns the chart tracks whose download succeeded.
func (r *RunReport) DownloadedTracks() []models.Track {
	var out []models.Track
	for _, o := range r.Outcomes {
		if o.Status == OutcomeDownloaded {
			out = append(out, o.Track)
		}
	}
	return out
}

// Summary converts the report to its persisted form.
func (r *RunReport) Summary() repositories.RunSummary {
	return repositories.RunSummary{
		ID:         r.RunID,
		GenreID:    int(r.Genre),
		Fetched:    r.Fetched,
		Selected:   r.Selected,
		Downloaded: r.Downloaded,
		Unresolved: r.Unresolved,
		Failed:     r.Failed,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
