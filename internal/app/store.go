package app

import (
	"context"
	"fmt"
	"todoTracker/internal/config"
	"todoTracker/internal/logger"
	"todoTracker/internal/store"
	"todoTracker/internal/store/badgerdb"
	"todoTracker/internal/store/inmemory"
	"todoTracker/internal/store/postgres"
	"todoTracker/internal/store/sqlite"

	"go.uber.org/zap"
)

// OpenStore открывает хранилище документов по repository.type
func OpenStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	logger.Info("App: Открытие хранилища", zap.String("type", cfg.Repository.Type))

	switch cfg.Repository.Type {
	case config.RepoInMemory:
		return inmemory.New(), nil

	case config.RepoPostgres:
		if cfg.Database.Migrate {
			if err := postgres.Migrate(cfg.Database.URL); err != nil {
				return nil, fmt.Errorf("миграции postgres: %w", err)
			}
		}
		s, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
			MaxConnections: int32(cfg.Database.MaxConnections),
			MinConnections: int32(cfg.Database.MinConnections),
			IdleTimeout:    cfg.Database.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		return s, nil

	case config.RepoBadger:
		badgerCfg := badgerdb.DefaultConfig(cfg.Badger.Path)
		if cfg.Badger.InMemory {
			badgerCfg = badgerdb.InMemoryConfig()
		}
		s, err := badgerdb.Open(badgerCfg)
		if err != nil {
			return nil, fmt.Errorf("открытие badger: %w", err)
		}
		return s, nil

	case config.RepoSQLite:
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("открытие sqlite: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %q", cfg.Repository.Type)
	}
}
