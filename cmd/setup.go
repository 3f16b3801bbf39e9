package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
//
// With --status it only reports migrations; with --rollback it reverts the latest one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("status") && cmd.Bool("rollback") {
		return fmt.Errorf("%w: cannot combine --status and --rollback", shared.ErrInvalidFlag)
	}

	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	switch {
	case cmd.Bool("status"):
		statuses, err := shared.MigrationStatuses(db)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		if cmd.Bool("json") {
			return r.writeJSON(statuses, true)
		}
		r.writePlainHeader("Migrations")
		for _, s := range statuses {
			applied := "pending"
			if s.Applied && s.AppliedAt != nil {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			r.writePlain("%03d  %-32s  %s\n", s.Version, s.Name, applied)
		}
		return nil
	case cmd.Bool("rollback"):
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back latest migration\n")
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if cmd.Bool("seed") {
		if err := r.seedIfEmpty(ctx); err != nil {
			return err
		}
	}

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s\n", path)
}

// SetupConfig writes the bundled example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Edit %s (database.path, server.port, library.user_id)\n", path)
	r.writePlain("2. Run 'tempo setup database --seed' to create and seed the library\n")
	return nil
}
