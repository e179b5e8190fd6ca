package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/musicarr/internal/formatter"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/desertthunder/musicarr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// runOpts merges the run flags over the configured defaults.
func (r *Runner) runOpts(cmd *cli.Command) tasks.RunOpts {
	opts := tasks.RunOpts{
		Limit:          r.config.Run.Limit,
		ChartLimit:     r.config.Chart.Limit,
		Offset:         r.config.Chart.Offset,
		Day:            cmd.String("day"),
		PersistHistory: r.config.History.Enabled && !cmd.Bool("no-history"),
		Record:         r.config.History.Record,
		DryRun:         cmd.Bool("dry-run"),
	}

	if cmd.IsSet("limit") {
		opts.Limit = cmd.Int("limit")
	}
	if cmd.IsSet("chart-limit") {
		opts.ChartLimit = cmd.Int("chart-limit")
	}
	if cmd.IsSet("offset") {
		opts.Offset = cmd.Int("offset")
	}
	return opts
}

// Discover runs the discovery pipeline once and prints the report.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: discovery engine not initialized", shared.ErrServiceUnavailable)
	}

	opts := r.runOpts(cmd)
	asJSON := cmd.Bool("json")

	r.logger.Info("starting run", "limit", opts.Limit, "history", opts.PersistHistory, "dry_run", opts.DryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON {
				continue
			}
			switch update.Phase {
			case tasks.SelectGenre, tasks.FetchChart:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FilterTracks:
				r.writePlain("🔎 %s\n", update.Message)
			case tasks.ResolveTracks, tasks.DownloadTracks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	report, err := r.engine.Run(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(formatter.NewReportView(report), cmd.Bool("pretty"))
	}
	return r.writePlain("\n%s", formatter.RunSummary(report, r.styled))
}

// Genre prints the genre of the day, or the whole weekly schedule.
func (r *Runner) Genre(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		for d := time.Monday; d <= time.Saturday+1; d++ {
			day := d % 7
			id, err := r.genres.For(day)
			if err != nil {
				return err
			}
			r.writePlain("%-10s %-8s (%d)\n", day, tasks.GenreName(id), id)
		}
		return nil
	}

	day := time.Now().Weekday()
	if name := cmd.String("day"); name != "" {
		parsed, err := tasks.ParseWeekday(name)
		if err != nil {
			return err
		}
		day = parsed
	}

	id, err := r.genres.For(day)
	if err != nil {
		return err
	}
	return r.writePlain("%s: %s (%d)\n", day, tasks.GenreName(id), id)
}
