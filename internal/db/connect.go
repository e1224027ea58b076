package db

import (
	"context"
	"fmt"
	"time"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a Postgres pool, pings it and brings the schema up to date.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := ApplyPostgres(ctx, pool, migrations.Postgres()); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected", "driver", "postgres")
	return pool, nil
}
