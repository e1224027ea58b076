// Package store opens the todo repository selected by configuration.
package store

import (
	"context"
	"fmt"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/repository/memory"
	"todo_webapp/internal/repository/mongodb"
	"todo_webapp/internal/repository/sqlite"
)

// Open connects to the configured backend and runs its migrations.
func Open(ctx context.Context, cfg *config.Config) (repository.TodoRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("store opened", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return s, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		logger.Info("store opened", "driver", cfg.StoreDriver)
		return repository.NewPgTodoRepository(pool), nil
	case config.DriverMongo:
		s, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		logger.Info("store opened", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return s, nil
	case config.DriverMemory:
		logger.Warn("using in-memory store; todos are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
