package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/migrate"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply and manage the console database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default: embedded migrations)")

	withDB := func(fn func(ctx context.Context, sqlDB *sql.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return runWithDB(cmd.Context(), cmd.Name(), fn)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				return migrate.Run(ctx, sqlDB, dir, "up")
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				return migrate.Run(ctx, sqlDB, dir, "down")
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				return migrate.Run(ctx, sqlDB, dir, "status")
			}),
		},
		&cobra.Command{
			Use:   "to VERSION",
			Short: "Migrate up or down to VERSION (YYYYMMDDHHMMSS)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWithDB(cmd.Context(), cmd.Name(), func(ctx context.Context, sqlDB *sql.DB) error {
					return migrate.MigrateToVersion(ctx, sqlDB, dir, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Write a new empty SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target := dir
				if target == "" {
					target = migrate.DefaultDir
				}
				path, err := migrate.CreateSQLMigration(target, args[0])
				if err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check migration filenames and goose headers",
			RunE: func(cmd *cobra.Command, _ []string) error {
				target := dir
				if target == "" {
					target = migrate.DefaultDir
				}
				if err := migrate.ValidateDir(target); err != nil {
					return fmt.Errorf("migration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
				return nil
			},
		},
	)
	return root
}

func runWithDB(ctx context.Context, command string, fn func(ctx context.Context, sqlDB *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": command})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "resource not working: database", err)
		return err
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate ready")
	if err := fn(ctx, sqlDB); err != nil {
		logg.Error(ctx, "migrate failed", err)
		return err
	}
	logg.Info(ctx, "migrate done")
	return nil
}
