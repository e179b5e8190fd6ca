package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	shared.LoadDotEnv()
	env, err := shared.ReadEnvOverrides()
	if err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}

	configPath := defaultConfigPath
	if env.ConfigPath != "" {
		configPath = env.ConfigPath
	}

	config, err := loadConfig(configPath, env)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	opts, stores, err := buildRunnerOpts(config, logger)
	if err != nil {
		logger.Fatalf("startup error: %v", err)
	}
	opts.ConfigPath = configPath

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "musicarr",
		Usage:    "Download the day's new chart tracks for a weekday genre",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, os.Args)
	stop()

	if closeErr := stores.Close(); closeErr != nil {
		logger.Warn("failed to close database", "error", closeErr)
	}

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
