package store

import (
	"context"
	"path/filepath"
	"testing"

	"todo_webapp/internal/config"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository/memory"
	"todo_webapp/internal/repository/sqlite"
)

func TestOpenMemory(t *testing.T) {
	repo, err := Open(context.Background(), &config.Config{StoreDriver: config.DriverMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()
	if _, ok := repo.(*memory.Store); !ok {
		t.Fatalf("got %T, want *memory.Store", repo)
	}
}

func TestOpenSQLitePersists(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "todos.db")}

	repo, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := repo.(*sqlite.Store); !ok {
		t.Fatalf("got %T, want *sqlite.Store", repo)
	}
	td, err := domain.NewTodo("persist me", "", domain.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, td); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	repo, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	got, err := repo.GetByID(ctx, td.ID)
	if err != nil {
		t.Fatalf("GetByID after reopen: %v", err)
	}
	if got.Title != "persist me" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{StoreDriver: "etcd"}); err == nil {
		t.Fatal("expected error")
	}
}
