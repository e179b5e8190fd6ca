package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/musicarr/internal/tasks"
)

const rule = "═══════════════════════════════════════"

// OutcomeView is the JSON form of a [tasks.TrackOutcome].
type OutcomeView struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	SourceURL   string `json:"source_url"`
	DownloadURL string `json:"download_url,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// ReportView is the JSON form of a [tasks.RunReport].
type ReportView struct {
	RunID      string        `json:"run_id"`
	Day        string        `json:"day"`
	GenreID    int           `json:"genre_id"`
	Genre      string        `json:"genre"`
	Fetched    int           `json:"fetched"`
	Selected   int           `json:"selected"`
	Resolved   int           `json:"resolved"`
	Downloaded int           `json:"downloaded"`
	Unresolved int           `json:"unresolved"`
	Failed     int           `json:"failed"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tracks     []OutcomeView `json:"tracks"`
}

// NewReportView converts a report for JSON output.
func NewReportView(r *tasks.RunReport) ReportView {
	view := ReportView{
		RunID:      r.RunID,
		Day:        r.Day.String(),
		GenreID:    int(r.Genre),
		Genre:      tasks.GenreName(r.Genre),
		Fetched:    r.Fetched,
		Selected:   r.Selected,
		Resolved:   r.Resolved,
		Downloaded: r.Downloaded,
		Unresolved: r.Unresolved,
		Failed:     r.Failed,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Tracks:     make([]OutcomeView, 0, len(r.Outcomes)),
	}

	for _, o := range r.Outcomes {
		ov := OutcomeView{
			Title:     o.Track.Title,
			Artist:    o.Track.Artist,
			SourceURL: o.Track.SourceURL,
			Status:    o.Status.String(),
		}
		if o.Resolved != nil {
			ov.DownloadURL = o.Resolved.DownloadURL
		}
		if o.Err != nil {
			ov.Error = o.Err.Error()
		}
		view.Tracks = append(view.Tracks, ov)
	}
	return view
}

// RunSummary renders the end-of-run summary. Colors are applied only when styled is set.
func RunSummary(r *tasks.RunReport, styled bool) string {
	var b strings.Builder

	title := "Run Complete!"
	if r.DryRun {
		title = "Dry Run Complete!"
	}

	b.WriteString(rule + "\n")
	b.WriteString(paint(styles.title, title, styled) + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Genre: %s (%d) for %s\n", tasks.GenreName(r.Genre), r.Genre, r.Day)
	fmt.Fprintf(&b, "Chart: %d tracks, %d new\n", r.Fetched, r.Selected)

	if r.DryRun {
		fmt.Fprintf(&b, "Resolved: %d/%d\n", r.Resolved, r.Selected)
	} else {
		fmt.Fprintf(&b, "Downloaded: %s\n", paint(styles.ok, fmt.Sprintf("%d/%d", r.Downloaded, r.Selected), styled))
	}

	if r.Selected == 0 {
		b.WriteString(paint(styles.help, "\nNothing new on the chart today.", styled) + "\n")
		return b.String()
	}

	b.WriteString("\n")
	for i, o := range r.Outcomes {
		line := fmt.Sprintf("%2d. %s - %s", i+1, o.Track.Artist, o.Track.Title)
		switch o.Status {
		case tasks.OutcomeDownloaded:
			b.WriteString(paint(styles.ok, "  ✓ ", styled) + line + "\n")
		case tasks.OutcomeResolved:
			b.WriteString("  • " + line + " → " + o.Resolved.DownloadURL + "\n")
		case tasks.OutcomeUnresolved:
			b.WriteString(paint(styles.warn, "  ? ", styled) + line + paint(styles.help, " (not found)", styled) + "\n")
		case tasks.OutcomeFailed:
			b.WriteString(paint(styles.err, "  ✗ ", styled) + line + paint(styles.help, " (download failed)", styled) + "\n")
		default:
			b.WriteString("    " + line + "\n")
		}
	}

	if r.Unresolved > 0 || r.Failed > 0 {
		fmt.Fprintf(&b, "\n%s\n", paint(styles.warn, fmt.Sprintf("%d not found, %d failed", r.Unresolved, r.Failed), styled))
	}
	return b.String()
}
