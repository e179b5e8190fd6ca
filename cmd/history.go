package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicarr/internal/formatter"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints the most recent history records.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: history store not initialized", shared.ErrServiceUnavailable)
	}

	records, err := r.history.Load(ctx)
	if err != nil {
		return err
	}

	total := len(records)
	if limit := cmd.Int("limit"); limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if total == 0 {
		return r.writePlain("History is empty.\n")
	}

	for i, rec := range records {
		r.writePlain("%3d. %s - %s\n", i+1, rec.Artist, rec.Title)
	}
	if total > len(records) {
		r.writePlainln("Showing %d of %d records", len(records), total)
	}
	return nil
}

// HistoryExport writes the whole history in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: history store not initialized", shared.ErrServiceUnavailable)
	}

	records, err := r.history.Load(ctx)
	if err != nil {
		return err
	}

	path, err := formatter.WriteHistoryExport(records, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "records", len(records))
	return r.writePlain("✓ Exported %d records to %s\n", len(records), path)
}

// HistoryRuns prints the recorded run summaries.
func (r *Runner) HistoryRuns(ctx context.Context, cmd *cli.Command) error {
	if r.runs == nil {
		return fmt.Errorf("%w: run summaries are only kept with history.driver = %q", shared.ErrServiceUnavailable, shared.DriverSQLite)
	}

	runs, err := r.runs.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.RunsToText(runs))
}
