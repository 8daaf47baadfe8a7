package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/pkg/config"
	"github.com/noah-isme/training-hours-api/pkg/database"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// OpenStore connects the row store selected by cfg.Store.Driver. The returned
// closer releases the underlying connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (rowstore.Store, func(), error) {
	noop := func() {}
	if logr == nil {
		logr = zap.NewNop()
	}

	switch cfg.Store.Driver {
	case config.StoreDriverXLSX, "":
		store, err := rowstore.NewXLSXStore(cfg.Store.XLSXPath)
		if err != nil {
			return nil, noop, err
		}
		logr.Info("row store ready", zap.String("driver", config.StoreDriverXLSX), zap.String("path", cfg.Store.XLSXPath))
		return store, noop, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		store := rowstore.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logr.Info("row store ready", zap.String("driver", config.StoreDriverPostgres), zap.String("database", cfg.Database.Name))
		return store, func() { _ = db.Close() }, nil
	case config.StoreDriverRedis:
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		logr.Info("row store ready", zap.String("driver", config.StoreDriverRedis), zap.String("prefix", cfg.Redis.KeyPrefix))
		return rowstore.NewRedisStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	case config.StoreDriverMemory:
		logr.Warn("using in-memory row store; data is lost on restart")
		return rowstore.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
