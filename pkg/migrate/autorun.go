package migrate

import (
	"context"
	"fmt"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

// MaybeRunDev applies the embedded migrations when running in dev with
// HF_AUTO_MIGRATE enabled. Non-postgres drivers are skipped.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
	if cfg.DB.Driver != "" && cfg.DB.Driver != "postgres" {
		logg.Warn(ctx, "auto-migrate skipped for non-postgres driver")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate.auto_run.start")
	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.auto_run.done")
	return nil
}
