package repository_test

import (
	"context"
	"os"
	"testing"

	"todo_webapp/internal/db"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/repository/repotest"
)

// Integration-style test: runs only if DATABASE_URL env is set.
func TestPgTodoRepositoryContract(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	repotest.Run(t, func(t *testing.T) repository.TodoRepository {
		if _, err := pool.Exec(context.Background(), `TRUNCATE todos RESTART IDENTITY`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return repository.NewPgTodoRepository(pool)
	}, "999999999")
}

func TestParseIntID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"64f1c2a9e4b0a1b2c3d4e5f6", 0, false},
		{"+1", 0, false},
		{"01", 0, false},
		{" 1", 0, false},
	}
	for _, tc := range cases {
		got, ok := repository.ParseIntID(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseIntID(%q) = %d,%v; want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
	if repository.FormatIntID(7) != "7" {
		t.Fatal("FormatIntID(7) != 7")
	}
}
