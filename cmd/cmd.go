// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// runCommand performs one discovery run
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Download today's new chart tracks for the genre of the day",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of new tracks (default from run.limit)",
			},
			&cli.IntFlag{
				Name:  "chart-limit",
				Usage: "Number of chart entries to request (default from chart.limit)",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Chart index to start from (default from chart.offset)",
			},
			&cli.StringFlag{
				Name:    "day",
				Aliases: []string{"d"},
				Usage:   "Use this weekday's genre instead of today's (e.g. friday)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Resolve tracks without downloading or writing history",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Ignore the download history for this run",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run report as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Discover,
	}
}

// genreCommand shows the genre schedule
func genreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genre",
		Usage: "Show the genre of the day",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "day",
				Aliases: []string{"d"},
				Usage:   "Weekday to look up (default today)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Show the whole week",
			},
		},
		Action: r.Genre,
	}
}

// historyCommand handles download history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Download history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded tracks, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to show (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export the history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default download_history.{ext})",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "runs",
				Usage: "List recorded runs (sqlite history driver only)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show (0 for all)",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryRuns,
			},
		},
	}
}

// setupCommand initializes configuration and storage
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file (default MUSICARR_CONFIG or config.toml)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the SQLite database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recently applied migration",
				Action: r.SetupRollback,
			},
		},
	}
}
