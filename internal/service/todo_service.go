package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/events"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = repository.ErrNotFound
)

var todoOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todo_operations_total",
		Help: "Todo service operations by outcome",
	},
	[]string{"operation", "result"},
)

func init() {
	prometheus.MustRegister(todoOperations)
}

// TodoService holds the todo lifecycle rules on top of a TodoRepository.
type TodoService struct {
	repo   repository.TodoRepository
	events events.Publisher
	now    func() time.Time
}

// NewTodoService wires a service to its store. A nil publisher discards events.
func NewTodoService(repo repository.TodoRepository, pub events.Publisher) *TodoService {
	if pub == nil {
		pub = events.Discard{}
	}
	return &TodoService{repo: repo, events: pub, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

// Ping reports whether the underlying store is reachable.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// List returns all todos, newest first.
func (s *TodoService) List(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.repo.List(ctx)
	observe("list", err)
	return todos, err
}

// Get returns one todo or ErrNotFound.
func (s *TodoService) Get(ctx context.Context, id string) (*domain.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	observe("get", err)
	return t, err
}

// Create validates and stores a new todo.
func (s *TodoService) Create(ctx context.Context, title, description string) (*domain.Todo, error) {
	t, err := domain.NewTodo(title, description, s.now())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrValidation, err)
		observe("create", err)
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			err = fmt.Errorf("%w: %w", ErrValidation, err)
		}
		observe("create", err)
		return nil, err
	}
	observe("create", nil)

	s.publish(ctx, events.Created(t))
	return t, nil
}

// Update applies the supplied fields to an existing todo.
// The read and the write are separate store calls; concurrent updates of one
// todo may overwrite each other.
func (s *TodoService) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		observe("update", err)
		return nil, err
	}

	if patch.Empty() {
		logger.WithContext(ctx).Debug("empty todo update; only updatedAt changes", "id", id)
	}
	if err := t.Apply(patch, s.now()); err != nil {
		err = fmt.Errorf("%w: %w", ErrValidation, err)
		observe("update", err)
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		observe("update", err)
		return nil, err
	}
	observe("update", nil)

	s.publish(ctx, events.Updated(t))
	return t, nil
}

// Delete removes a todo and returns its id.
func (s *TodoService) Delete(ctx context.Context, id string) (string, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		observe("delete", err)
		return "", err
	}
	observe("delete", nil)

	s.publish(ctx, events.Deleted(id, domain.Timestamp(s.now())))
	return id, nil
}

func (s *TodoService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		logger.WithContext(ctx).Warn("failed to publish todo event", "type", e.Type, "id", e.ID, "error", err)
	}
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		result = "invalid"
	case errors.Is(err, repository.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	todoOperations.WithLabelValues(op, result).Inc()
}
