package migrate

import (
	"context"

	"github.com/veritrace/qrbatch-backend/pkg/config"
	"github.com/veritrace/qrbatch-backend/pkg/db"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// MaybeRunDev applies migrations at boot when autorun is enabled. Production
// deploys run cmd/migrate explicitly instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.Migrate.AutoRun {
		return nil
	}
	if cfg.App.IsProd() {
		if logg != nil {
			logg.Warn(ctx, "migrate autorun ignored in prod")
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "running migrations (autorun)")
	}
	return Up(ctx, sqlDB)
}
