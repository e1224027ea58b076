package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		migs    []db.Migration
		applied []string
		err     error
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		migs, err = db.LoadMigrations(migrations.Postgres())
		if err != nil || !*apply {
			break
		}
		pool, perr := pgxpool.New(ctx, cfg.DatabaseURL)
		if perr != nil {
			logger.Fatal("connect postgres", "error", perr)
		}
		defer pool.Close()
		applied, err = db.ApplyPostgres(ctx, pool, migrations.Postgres())
	case config.DriverSQLite:
		migs, err = db.LoadMigrations(migrations.SQLite())
		if err != nil || !*apply {
			break
		}
		sqlDB, serr := sql.Open("sqlite", cfg.SQLitePath)
		if serr != nil {
			logger.Fatal("open sqlite", "error", serr)
		}
		defer sqlDB.Close()
		applied, err = db.ApplySQLite(sqlDB, migrations.SQLite())
	default:
		logger.Fatal("driver has no SQL migrations", "driver", cfg.StoreDriver)
	}
	if err != nil {
		logger.Fatal("migrations failed", "driver", cfg.StoreDriver, "error", err)
	}

	if !*apply {
		for _, m := range migs {
			fmt.Println(m.Name)
		}
		return
	}

	ran := make(map[string]bool, len(applied))
	for _, name := range applied {
		ran[name] = true
	}
	for _, m := range migs {
		if ran[m.Name] {
			fmt.Printf("applied %s\n", m.Name)
		} else {
			fmt.Printf("up to date: %s\n", m.Name)
		}
	}
}
