// Package sqlite provides a SQLite-backed todo store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"todo_webapp/internal/db"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/migrations"
	"todo_webapp/internal/repository"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const todoColumns = `id, title, description, completed, created_at, updated_at`

// Store persists todos in the todos table of a SQLite file.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the database at path and applies embedded migrations.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ApplySQLite(sqlDB, migrations.SQLite()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// DB exposes the underlying handle for tooling.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

func (s *Store) List(ctx context.Context) ([]*domain.Todo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	n, ok := repository.ParseIntID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, n)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t *domain.Todo) error {
	if t.Title == "" {
		return domain.ErrTitleRequired
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO todos (title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Completed, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrTitleRequired
		}
		return fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.ID = repository.FormatIntID(id)
	return nil
}

func (s *Store) Update(ctx context.Context, t *domain.Todo) error {
	n, ok := repository.ParseIntID(t.ID)
	if !ok {
		return repository.ErrNotFound
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Completed, toMillis(t.UpdatedAt), n,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrTitleRequired
		}
		return fmt.Errorf("update todo: %w", err)
	}
	return requireOneRow(res)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, ok := repository.ParseIntID(id)
	if !ok {
		return repository.ErrNotFound
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireOneRow(res)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		t                    domain.Todo
		id                   int64
		completed            int64
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.ID = repository.FormatIntID(id)
	t.Completed = completed != 0
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return &t, nil
}

func isCheckViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
	}
	return false
}
