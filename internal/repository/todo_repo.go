package repository

import (
	"context"
	"errors"
	"strconv"

	"todo_webapp/internal/domain"
)

var ErrNotFound = errors.New("todo not found")

// TodoRepository is the storage contract every backend implements.
type TodoRepository interface {
	// List returns every todo, newest first.
	List(ctx context.Context) ([]*domain.Todo, error)
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	// Create inserts t and sets t.ID.
	Create(ctx context.Context, t *domain.Todo) error
	// Update overwrites the mutable fields of the stored todo with t.ID.
	Update(ctx context.Context, t *domain.Todo) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// ParseIntID parses a relational row id. Only the canonical decimal form names a
// row; "+1", "01" and non-positive values are rejected, so callers report ErrNotFound.
func ParseIntID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 || FormatIntID(n) != id {
		return 0, false
	}
	return n, true
}

// FormatIntID is the inverse of ParseIntID.
func FormatIntID(id int64) string {
	return strconv.FormatInt(id, 10)
}
