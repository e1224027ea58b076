// Package memory keeps todos in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"
)

// Store is a map-backed TodoRepository. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]domain.Todo
}

func New() *Store {
	return &Store{items: make(map[int64]domain.Todo)}
}

func (s *Store) List(ctx context.Context) ([]*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.items[ids[i]], s.items[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return ids[i] > ids[j]
	})

	res := make([]*domain.Todo, 0, len(ids))
	for _, id := range ids {
		t := s.items[id]
		res = append(res, &t)
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, ok := repository.ParseIntID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.items[n]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Store) Create(ctx context.Context, t *domain.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.Title == "" {
		return domain.ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = repository.FormatIntID(s.seq)
	s.items[s.seq] = *t
	return nil
}

func (s *Store) Update(ctx context.Context, t *domain.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, ok := repository.ParseIntID(t.ID)
	if !ok {
		return repository.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[n]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = t.Title
	cur.Description = t.Description
	cur.Completed = t.Completed
	cur.UpdatedAt = t.UpdatedAt
	s.items[n] = cur
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, ok := repository.ParseIntID(id)
	if !ok {
		return repository.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[n]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, n)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
