package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicarr/internal/download"
	"github.com/desertthunder/musicarr/internal/repositories"
	"github.com/desertthunder/musicarr/internal/services"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/desertthunder/musicarr/internal/tasks"
)

// loadConfig reads path (when present) over the defaults, then applies MUSICARR_* overrides and validates.
func loadConfig(path string, env *shared.EnvOverrides) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if env != nil {
		env.Apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// buildRunnerOpts wires the services, stores and engine described by config.
//
// The returned stores must be closed by the caller.
func buildRunnerOpts(config *shared.Config, logger *log.Logger) (RunnerOpts, *repositories.Stores, error) {
	genres, err := tasks.NewGenreSelector(config.Genres)
	if err != nil {
		return RunnerOpts{}, nil, err
	}

	resolver, err := services.NewResolver(config.Resolver)
	if err != nil {
		return RunnerOpts{}, nil, err
	}

	stores, err := repositories.OpenStores(config)
	if err != nil {
		return RunnerOpts{}, nil, fmt.Errorf("failed to open history: %w", err)
	}

	var recorder tasks.RunRecorder
	if stores.Runs != nil {
		recorder = stores.Runs
	}

	engine := tasks.NewDiscoveryEngine(tasks.EngineOpts{
		Genres:     genres,
		Charts:     services.NewDeezerService(config.Chart.BaseURL, services.NewHTTPClient(config.Chart.Timeout())),
		History:    stores.History,
		Resolver:   resolver,
		Downloader: download.NewYTDLPDownloader(config.Download, logger),
		RateLimit:  config.Resolver.RateLimit,
		Recorder:   recorder,
		Logger:     logger,
	})

	logger.Debug("wired dependencies",
		"history", config.History.Driver,
		"resolver", resolver.Name(),
		"executable", config.Download.Executable,
	)

	return RunnerOpts{
		Config:  config,
		Engine:  engine,
		Genres:  genres,
		History: stores.History,
		Runs:    stores.Runs,
		Logger:  logger,
	}, stores, nil
}
