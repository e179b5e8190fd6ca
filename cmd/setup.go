package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/musicarr/internal/repositories"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidInput, configPath)
		}
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Adjust history, resolver and download settings in %s\n", configPath)
	r.writePlain("2. Run 'musicarr run --dry-run' to check chart and lookup access\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewSQLiteHistoryStore(db).Count(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	if r.config.History.Driver != shared.DriverSQLite {
		r.logger.Warn("history.driver is not sqlite; the database will not be used", "driver", r.config.History.Driver)
	}
	return r.writePlain("✓ Database ready at %s (%d history records)\n", r.config.Database.Path, count)
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	r.logger.Info("rolled back migration", "path", r.config.Database.Path)
	return r.writePlain("✓ Rolled back the latest migration in %s\n", r.config.Database.Path)
}
