package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgTodoColumns = `id, title, description, completed, created_at, updated_at`

// PgTodoRepository stores todos in Postgres.
type PgTodoRepository struct {
	db *pgxpool.Pool
}

func NewPgTodoRepository(db *pgxpool.Pool) *PgTodoRepository {
	return &PgTodoRepository{db: db}
}

func (r *PgTodoRepository) List(ctx context.Context) ([]*domain.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pgTodoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Todo, 0)
	for rows.Next() {
		t, err := scanPgTodo(rows)
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

func (r *PgTodoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	n, ok := ParseIntID(id)
	if !ok {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+pgTodoColumns+` FROM todos WHERE id = $1`, n)
	t, err := scanPgTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (r *PgTodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	if t.Title == "" {
		return domain.ErrTitleRequired
	}

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO todos (title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.ID = FormatIntID(id)
	return nil
}

func (r *PgTodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	n, ok := ParseIntID(t.ID)
	if !ok {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET title = $1, description = $2, completed = $3, updated_at = $4 WHERE id = $5`,
		t.Title, t.Description, t.Completed, t.UpdatedAt, n,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgTodoRepository) Delete(ctx context.Context, id string) error {
	n, ok := ParseIntID(id)
	if !ok {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgTodoRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PgTodoRepository) Close() error {
	r.db.Close()
	return nil
}

func scanPgTodo(row pgx.Row) (*domain.Todo, error) {
	var (
		t  domain.Todo
		id int64
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = FormatIntID(id)
	t.CreatedAt = domain.Timestamp(t.CreatedAt)
	t.UpdatedAt = domain.Timestamp(t.UpdatedAt)
	return &t, nil
}
