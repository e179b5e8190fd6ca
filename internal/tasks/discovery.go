package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/musicarr/internal/download"
	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/repositories"
	"github.com/desertthunder/musicarr/internal/services"
	"github.com/desertthunder/musicarr/internal/shared"
)

const (
	defaultLimit      int = 10
	defaultChartLimit int = 50
)

// RunRecorder persists run summaries (repositories.RunRepository).
type RunRecorder interface {
	Create(ctx context.Context, run repositories.RunSummary) error
}

// EngineOpts contains the collaborators of a [DiscoveryEngine].
type EngineOpts struct {
	Genres     *GenreSelector
	Charts     services.ChartFetcher
	History    repositories.HistoryStore // May be nil when history is disabled
	Resolver   services.Resolver
	Downloader download.Downloader
	RateLimit  float64     // Lookups per second, 0 for no pacing
	Recorder   RunRecorder // Optional
	Logger     *log.Logger
	Clock      func() time.Time // Defaults to time.Now
}

// RunOpts parameterizes a single run.
type RunOpts struct {
	Limit          int    // Max new tracks (default 10)
	ChartLimit     int    // Chart entries requested (default 50)
	Offset         int    // Chart index to start from
	Day            string // Weekday name overriding the clock
	PersistHistory bool   // Filter against and write to the history store
	Record         string // shared.RecordSelected or shared.RecordDownloaded
	DryRun         bool   // Resolve only: no downloads, no history write
}

// DiscoveryEngine runs the genre → chart → history → lookup → download pipeline.
type DiscoveryEngine struct {
	genres     *GenreSelector
	charts     services.ChartFetcher
	history    repositories.HistoryStore
	resolver   services.Resolver
	downloader download.Downloader
	limiter    *rate.Limiter
	recorder   RunRecorder
	logger     *log.Logger
	now        func() time.Time
}

// NewDiscoveryEngine creates a new DiscoveryEngine with the provided collaborators.
func NewDiscoveryEngine(opts EngineOpts) *DiscoveryEngine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &DiscoveryEngine{
		genres:     opts.Genres,
		charts:     opts.Charts,
		history:    opts.History,
		resolver:   opts.Resolver,
		downloader: opts.Downloader,
		limiter:    limiter,
		recorder:   opts.Recorder,
		logger:     logger,
		now:        now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *DiscoveryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs one discovery pass and returns its report.
//
// A non-nil error means the run aborted (genre, chart or history failure, or cancellation);
// per-track lookup and download failures are only recorded in the report.
func (e *DiscoveryEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunReport, error) {
	if err := e.check(opts); err != nil {
		return nil, err
	}
	if opts.Limit == 0 {
		opts.Limit = defaultLimit
	}
	if opts.ChartLimit <= 0 {
		opts.ChartLimit = defaultChartLimit
	}
	if opts.Record == "" {
		opts.Record = shared.RecordSelected
	}

	report := &RunReport{
		RunID:     shared.GenerateID(),
		DryRun:    opts.DryRun,
		StartedAt: e.now(),
	}
	logger := shared.WithLogger(e.logger, "run", report.RunID)
	if tagger, ok := e.history.(repositories.RunTagger); ok {
		tagger.TagRun(report.RunID)
	}

	report.Day = report.StartedAt.Weekday()
	if opts.Day != "" {
		day, err := ParseWeekday(opts.Day)
		if err != nil {
			return nil, err
		}
		report.Day = day
	}

	genre, err := e.genres.For(report.Day)
	if err != nil {
		return nil, err
	}
	report.Genre = genre
	e.sendProgress(progress, selectGenreUpdate(genre))
	logger.Info("selected genre", "day", report.Day, "genre", genre, "name", GenreName(genre))

	e.sendProgress(progress, fetchChartUpdate(genre, opts.ChartLimit))
	chart, err := e.charts.FetchChart(ctx, genre, opts.ChartLimit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for genre %d: %w", genre, err)
	}
	report.Fetched = len(chart)

	var history []models.HistoryRecord
	if opts.PersistHistory {
		history, err = e.history.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		e.sendProgress(progress, loadHistoryUpdate(len(history)))
	}

	selected := FilterNew(chart, history, opts.Limit)
	report.Selected = len(selected)
	e.sendProgress(progress, filterTracksUpdate(len(selected), len(chart)))
	logger.Info("filtered chart", "fetched", len(chart), "history", len(history), "selected", len(selected))

	persist := opts.PersistHistory && !opts.DryRun
	if persist && opts.Record == shared.RecordSelected {
		if err := e.persist(ctx, progress, logger, selected); err != nil {
			return nil, err
		}
	}

	report.Outcomes = make([]TrackOutcome, len(selected))
	for i, track := range selected {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("run canceled during lookup: %w", err)
		}

		e.sendProgress(progress, resolveTrackUpdate(i+1, len(selected), &track))
		report.Outcomes[i] = e.resolve(ctx, logger, track)
	}

	if !opts.DryRun {
		e.downloadAll(ctx, progress, logger, report)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled during download: %w", err)
		}
	}

	report.Tally()

	if persist && opts.Record == shared.RecordDownloaded {
		if err := e.persist(ctx, progress, logger, report.DownloadedTracks()); err != nil {
			return nil, err
		}
	}

	report.FinishedAt = e.now()
	if e.recorder != nil && !opts.DryRun {
		if err := e.recorder.Create(ctx, report.Summary()); err != nil {
			logger.Warn("failed to record run summary", "error", err)
		}
	}

	e.sendProgress(progress, completeUpdate(report))
	logger.Info("run complete",
		"downloaded", report.Downloaded,
		"unresolved", report.Unresolved,
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)
	return report, nil
}

func (e *DiscoveryEngine) check(opts RunOpts) error {
	switch {
	case e.genres == nil:
		return fmt.Errorf("%w: genre selector not initialized", shared.ErrServiceUnavailable)
	case e.charts == nil:
		return fmt.Errorf("%w: chart service not initialized", shared.ErrServiceUnavailable)
	case e.resolver == nil:
		return fmt.Errorf("%w: lookup service not initialized", shared.ErrServiceUnavailable)
	case e.downloader == nil && !opts.DryRun:
		return fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	case e.history == nil && opts.PersistHistory:
		return fmt.Errorf("%w: history store not initialized", shared.ErrServiceUnavailable)
	case opts.Limit < 0:
		return fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidInput)
	case opts.Offset < 0:
		return fmt.Errorf("%w: offset must not be negative", shared.ErrInvalidInput)
	}

	switch opts.Record {
	case "", shared.RecordSelected, shared.RecordDownloaded:
		return nil
	default:
		return fmt.Errorf("%w: unknown record mode %q", shared.ErrInvalidInput, opts.Record)
	}
}

func (e *DiscoveryEngine) persist(ctx context.Context, progress chan<- ProgressUpdate, logger *log.Logger, tracks []models.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	if err := e.history.Save(ctx, models.RecordsFromTracks(tracks)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	e.sendProgress(progress, persistHistoryUpdate(len(tracks)))
	logger.Debug("saved history", "records", len(tracks))
	return nil
}

func (e *DiscoveryEngine) resolve(ctx context.Context, logger *log.Logger, track models.Track) TrackOutcome {
	resolved, err := e.resolver.Resolve(ctx, track)
	if err != nil {
		logger.Warn("skipping track: lookup failed", "title", track.Title, "artist", track.Artist, "error", err)
		return TrackOutcome{Track: track, Status: OutcomeUnresolved, Err: err}
	}

	logger.Debug("resolved track", "title", track.Title, "artist", track.Artist, "url", resolved.DownloadURL)
	return TrackOutcome{Track: track, Resolved: resolved, Status: OutcomeResolved}
}

func (e *DiscoveryEngine) downloadAll(ctx context.Context, progress chan<- ProgressUpdate, logger *log.Logger, report *RunReport) {
	total := 0
	for _, o := range report.Outcomes {
		if o.Resolved != nil {
			total++
		}
	}

	step := 0
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		if o.Resolved == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		step++
		e.sendProgress(progress, downloadTrackUpdate(step, total, o.Resolved))

		if err := e.downloader.Download(ctx, *o.Resolved); err != nil {
			logger.Error("download failed", "url", o.Resolved.DownloadURL, "title", o.Track.Title, "error", err)
			o.Status, o.Err = OutcomeFailed, err
			continue
		}
		o.Status = OutcomeDownloaded
		logger.Info("downloaded track", "title", o.Track.Title, "artist", o.Track.Artist)
	}
}
