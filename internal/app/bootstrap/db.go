// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/texthub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the app depends on. The unique
// indexes here back the duplicate detection in the stores, so this
// must succeed before the handler is built.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.Ensure(ctx, deps.TextHubMongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	logger.Info("database indexes ensured")
	return nil
}
