package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/atelier-storefront/pkg/config"
	"github.com/angelmondragon/atelier-storefront/pkg/db"
	"github.com/angelmondragon/atelier-storefront/pkg/db/models"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

// MaybeRunDev migrates the catalog schema automatically when the app runs in dev mode with the
// auto-migrate flag. Postgres goes through goose; sqlite uses GORM's AutoMigrate because the SQL
// migrations are written for Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "running GORM auto-migrate (dev sqlite)")
		if err := AutoMigrateModels(ctx, client); err != nil {
			return err
		}
		logg.Info(ctx, "GORM auto-migrate completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, client.Dialect(), EmbeddedDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates the catalog tables from the GORM models.
func AutoMigrateModels(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.CustomizationOption{},
		&models.CustomizationOptionValue{},
	); err != nil {
		return fmt.Errorf("auto-migrate catalog models: %w", err)
	}
	return nil
}
