package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/repositories"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/desertthunder/musicarr/internal/tasks"
	tu "github.com/desertthunder/musicarr/internal/testing"
	"github.com/urfave/cli/v3"
)

type testDeps struct {
	charts     *tu.MockChartFetcher
	history    *tu.MockHistoryStore
	resolver   *tu.MockResolver
	downloader *tu.MockDownloader
	output     *bytes.Buffer
}

func newTestRunner(t *testing.T, config *shared.Config) (*Runner, *testDeps) {
	t.Helper()

	deps := &testDeps{
		charts: &tu.MockChartFetcher{Tracks: []models.Track{
			{Title: "A", Artist: "X", SourceURL: "https://www.deezer.com/track/1"},
			{Title: "B", Artist: "Y", SourceURL: "https://www.deezer.com/track/2"},
		}},
		history:    &tu.MockHistoryStore{},
		resolver:   &tu.MockResolver{},
		downloader: &tu.MockDownloader{},
		output:     &bytes.Buffer{},
	}

	genres, err := tasks.NewGenreSelector(nil)
	if err != nil {
		t.Fatalf("NewGenreSelector() error = %v", err)
	}

	logger := shared.NewLogger(&bytes.Buffer{})
	engine := tasks.NewDiscoveryEngine(tasks.EngineOpts{
		Genres:     genres,
		Charts:     deps.charts,
		History:    deps.history,
		Resolver:   deps.resolver,
		Downloader: deps.downloader,
		Logger:     logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Engine:  engine,
		Genres:  genres,
		History: deps.history,
		Logger:  logger,
		Output:  deps.output,
	})
	return runner, deps
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "musicarr",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"musicarr"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			history := &tu.MockHistoryStore{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				History:    history,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.history != history {
				t.Error("expected history to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.styled {
				t.Error("expected plain output for a custom writer")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.genres == nil {
				t.Error("expected default genre selector to be set")
			}
			if runner.output != os.Stdout || !runner.styled {
				t.Error("expected output to default to styled os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		want := []string{"run", "genre", "history", "setup"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command %d = %v, want %s", i, cmd, want[i])
			}
		}
	})
}

func TestDiscoverCommand(t *testing.T) {
	t.Run("prints summary", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "run", "--day", "monday"); err != nil {
			t.Fatalf("run error = %v", err)
		}

		output := deps.output.String()
		for _, want := range []string{"Genre of the day: Pop (132)", "Run Complete!", "Downloaded: 2/2"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
		if len(deps.history.Saves) != 1 {
			t.Errorf("expected history to be written once, got %d", len(deps.history.Saves))
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Run.Limit = 10
		runner, deps := newTestRunner(t, config)

		err := runApp(t, runner, "run", "--day", "sunday", "--limit", "1", "--chart-limit", "20", "--offset", "3", "--no-history", "--json")
		if err != nil {
			t.Fatalf("run error = %v", err)
		}

		call := deps.charts.Calls[0]
		if call.Genre != 106 || call.Limit != 20 || call.Offset != 3 {
			t.Errorf("unexpected chart call %+v", call)
		}
		if len(deps.history.Saves) != 0 {
			t.Error("expected --no-history to skip history writes")
		}

		var view map[string]any
		if err := json.Unmarshal(deps.output.Bytes(), &view); err != nil {
			t.Fatalf("expected JSON output only, got %q: %v", deps.output.String(), err)
		}
		if view["selected"] != float64(1) || view["genre"] != "Electro" {
			t.Errorf("unexpected report %v", view)
		}
	})

	t.Run("history disabled in config", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.History.Enabled = false
		runner, deps := newTestRunner(t, config)

		if err := runApp(t, runner, "run", "--day", "friday"); err != nil {
			t.Fatalf("run error = %v", err)
		}
		if len(deps.history.Saves) != 0 {
			t.Error("expected no history writes")
		}
	})

	t.Run("dry run", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "run", "--day", "monday", "--dry-run"); err != nil {
			t.Fatalf("run error = %v", err)
		}
		if len(deps.downloader.URLs) != 0 || len(deps.history.Saves) != 0 {
			t.Error("dry run must not download or write history")
		}
		if !strings.Contains(deps.output.String(), "Dry Run Complete!") {
			t.Errorf("unexpected output:\n%s", deps.output.String())
		}
	})

	t.Run("fatal errors are returned", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		deps.charts.Err = shared.ErrFetch

		if err := runApp(t, runner, "run", "--day", "monday"); !errors.Is(err, shared.ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
	})

	t.Run("unknown day", func(t *testing.T) {
		runner, _ := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "run", "--day", "lundi"); !errors.Is(err, shared.ErrUnmappedGenre) {
			t.Errorf("expected ErrUnmappedGenre, got %v", err)
		}
	})

	t.Run("without engine", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		if err := runApp(t, runner, "run"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestGenreCommand(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "genre", "--day", "Thursday"); err != nil {
			t.Fatalf("genre error = %v", err)
		}
		if got := deps.output.String(); got != "Thursday: Jazz (129)\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("whole week", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "genre", "--all"); err != nil {
			t.Fatalf("genre error = %v", err)
		}

		lines := strings.Split(strings.TrimSpace(deps.output.String()), "\n")
		if len(lines) != 7 {
			t.Fatalf("expected 7 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Monday") || !strings.HasPrefix(lines[6], "Sunday") {
			t.Errorf("expected Monday first and Sunday last, got %v", lines)
		}
		if !strings.Contains(lines[5], "K-Pop") || !strings.Contains(lines[5], "(197)") {
			t.Errorf("unexpected Saturday line %q", lines[5])
		}
	})
}

func TestHistoryCommands(t *testing.T) {
	records := []models.HistoryRecord{
		{Title: "A", Artist: "X", URL: "https://www.deezer.com/track/1"},
		{Title: "B", Artist: "Y", URL: "https://www.deezer.com/track/2"},
		{Title: "C", Artist: "Z", URL: "https://www.deezer.com/track/3"},
	}

	t.Run("list", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		deps.history.Records = records

		if err := runApp(t, runner, "history", "list", "--limit", "2"); err != nil {
			t.Fatalf("history list error = %v", err)
		}

		output := deps.output.String()
		if !strings.Contains(output, "1. X - A") || !strings.Contains(output, "2. Y - B") {
			t.Errorf("unexpected output:\n%s", output)
		}
		if strings.Contains(output, "Z - C") || !strings.Contains(output, "Showing 2 of 3 records") {
			t.Errorf("expected list to be truncated:\n%s", output)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "history", "list"); err != nil {
			t.Fatalf("history list error = %v", err)
		}
		if deps.output.String() != "History is empty.\n" {
			t.Errorf("unexpected output %q", deps.output.String())
		}
	})

	t.Run("list json", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		deps.history.Records = records

		if err := runApp(t, runner, "history", "list", "--json"); err != nil {
			t.Fatalf("history list error = %v", err)
		}

		var got []models.HistoryRecord
		if err := json.Unmarshal(deps.output.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 3 || got[0] != records[0] {
			t.Errorf("unexpected records %v", got)
		}
	})

	t.Run("export", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		deps.history.Records = records
		path := filepath.Join(t.TempDir(), "history.csv")

		if err := runApp(t, runner, "history", "export", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("history export error = %v", err)
		}

		content := tu.MustReadFile(t, path)
		if !strings.HasPrefix(content, "Title,Artist,URL\n") || strings.Count(content, "\n") != 4 {
			t.Errorf("unexpected CSV:\n%s", content)
		}
		if !strings.Contains(deps.output.String(), "Exported 3 records") {
			t.Errorf("unexpected output %q", deps.output.String())
		}
	})

	t.Run("export unknown format", func(t *testing.T) {
		runner, _ := newTestRunner(t, shared.DefaultConfig())

		err := runApp(t, runner, "history", "export", "--format", "xml", "--output", filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("history load error", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		deps.history.LoadErr = shared.ErrHistory

		if err := runApp(t, runner, "history", "list"); !errors.Is(err, shared.ErrHistory) {
			t.Errorf("expected ErrHistory, got %v", err)
		}
	})

	t.Run("runs require sqlite", func(t *testing.T) {
		runner, _ := newTestRunner(t, shared.DefaultConfig())

		if err := runApp(t, runner, "history", "runs"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("runs", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.History.Driver = shared.DriverSQLite
		config.Database.Path = filepath.Join(t.TempDir(), "musicarr.db")

		stores, err := repositories.OpenStores(config)
		if err != nil {
			t.Fatalf("OpenStores() error = %v", err)
		}
		defer stores.Close()

		ctx := context.Background()
		if err := stores.Runs.Create(ctx, repositories.RunSummary{
			ID:         "run-1",
			GenreID:    132,
			Selected:   2,
			Downloaded: 2,
			StartedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 1, 1, 9, 1, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, History: stores.History, Runs: stores.Runs, Output: output})

		if err := runApp(t, runner, "history", "runs"); err != nil {
			t.Fatalf("history runs error = %v", err)
		}
		if !strings.Contains(output.String(), "2/2 downloaded") || !strings.Contains(output.String(), "(run-1)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner, deps := newTestRunner(t, shared.DefaultConfig())
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runApp(t, runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("setup config error = %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config does not load: %v", err)
		}
		if !strings.Contains(deps.output.String(), "Configuration written to") {
			t.Errorf("unexpected output %q", deps.output.String())
		}

		if err := runApp(t, runner, "setup", "config", "--config", path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for existing file, got %v", err)
		}
		if err := runApp(t, runner, "setup", "config", "--config", path, "--force"); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})

	t.Run("config defaults to the runner's path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "musicarr.toml")
		runner := NewRunner(RunnerOpts{ConfigPath: path, Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := runApp(t, runner, "setup", "config"); err != nil {
			t.Fatalf("setup config error = %v", err)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("database", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "data", "musicarr.db")
		runner, deps := newTestRunner(t, config)

		if err := runApp(t, runner, "setup", "database"); err != nil {
			t.Fatalf("setup database error = %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(deps.output.String(), "(0 history records)") {
			t.Errorf("unexpected output %q", deps.output.String())
		}

		if err := runApp(t, runner, "setup", "rollback"); err != nil {
			t.Fatalf("setup rollback error = %v", err)
		}
		if !strings.Contains(deps.output.String(), "Rolled back the latest migration") {
			t.Errorf("unexpected output %q", deps.output.String())
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		config, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if config.Run.Limit != shared.DefaultConfig().Run.Limit {
			t.Errorf("expected default run limit, got %d", config.Run.Limit)
		}
	})

	t.Run("file and environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[run]\nlimit = 3\n\n[history]\npath = \"from-file.json\"\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := loadConfig(path, &shared.EnvOverrides{HistoryPath: "from-env.json"})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if config.Run.Limit != 3 {
			t.Errorf("expected limit from file, got %d", config.Run.Limit)
		}
		if config.History.Path != "from-env.json" {
			t.Errorf("expected environment to win, got %s", config.History.Path)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), &shared.EnvOverrides{HistoryDriver: "csv"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestBuildRunnerOpts(t *testing.T) {
	config := shared.DefaultConfig()
	config.History.Driver = shared.DriverSQLite
	config.Database.Path = filepath.Join(t.TempDir(), "musicarr.db")

	opts, stores, err := buildRunnerOpts(config, shared.NewLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("buildRunnerOpts() error = %v", err)
	}
	defer stores.Close()

	if opts.Engine == nil || opts.Genres == nil || opts.History == nil || opts.Runs == nil {
		t.Errorf("expected all dependencies to be wired, got %+v", opts)
	}
}
