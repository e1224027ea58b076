// Package repotest is a contract suite run against every TodoRepository backend.
package repotest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) repository.TodoRepository

// Run exercises the storage contract against repositories built by newRepo.
// missingID must be a well-formed id that no created todo will ever get.
func Run(t *testing.T, newRepo Factory, missingID string) {
	t.Helper()

	t.Run("CreateAssignsID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		td := mustNew(t, "first", "desc", time.Now())
		if err := repo.Create(ctx, td); err != nil {
			t.Fatalf("create: %v", err)
		}
		if td.ID == "" {
			t.Fatal("create did not assign an id")
		}

		got, err := repo.GetByID(ctx, td.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		assertEqual(t, td, got)
	})

	t.Run("CreateRejectsEmptyTitle", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		now := domain.Now()
		err := repo.Create(ctx, &domain.Todo{CreatedAt: now, UpdatedAt: now})
		if !errors.Is(err, domain.ErrTitleRequired) {
			t.Fatalf("err = %v; want ErrTitleRequired", err)
		}
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected no todos, got %d", len(list))
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now()
		a := mustNew(t, "A", "", base)
		b := mustNew(t, "B", "", base.Add(time.Second))
		// same timestamp as b: insertion order breaks the tie
		c := mustNew(t, "C", "", base.Add(time.Second))
		for _, td := range []*domain.Todo{a, b, c} {
			if err := repo.Create(ctx, td); err != nil {
				t.Fatalf("create %s: %v", td.Title, err)
			}
		}

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d; want 3", len(list))
		}
		if list[0].Title != "C" || list[1].Title != "B" || list[2].Title != "A" {
			t.Fatalf("order = %s,%s,%s; want C,B,A", list[0].Title, list[1].Title, list[2].Title)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		repo := newRepo(t)
		list, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Fatalf("list = %#v; want empty non-nil slice", list)
		}
	})

	t.Run("UpdateOverwrites", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		now := time.Now()
		td := mustNew(t, "before", "d", now)
		if err := repo.Create(ctx, td); err != nil {
			t.Fatalf("create: %v", err)
		}

		done := true
		title := "after"
		if err := td.Apply(domain.TodoPatch{Title: &title, Completed: &done}, now.Add(2*time.Second)); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if err := repo.Update(ctx, td); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.GetByID(ctx, td.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		assertEqual(t, td, got)
		if !got.UpdatedAt.After(got.CreatedAt) {
			t.Fatalf("updatedAt %v not after createdAt %v", got.UpdatedAt, got.CreatedAt)
		}
	})

	t.Run("DeleteRemoves", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		td := mustNew(t, "doomed", "", time.Now())
		if err := repo.Create(ctx, td); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, td.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, td.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("get after delete err = %v; want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, td.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second delete err = %v; want ErrNotFound", err)
		}
	})

	t.Run("MissingIDsAreNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{missingID, "", "not-an-id", "-1", "+1", "01"} {
			if _, err := repo.GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("GetByID(%q) err = %v; want ErrNotFound", id, err)
			}
			if err := repo.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("Delete(%q) err = %v; want ErrNotFound", id, err)
			}
			now := domain.Now()
			ghost := &domain.Todo{ID: id, Title: "ghost", CreatedAt: now, UpdatedAt: now}
			if err := repo.Update(ctx, ghost); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("Update(%q) err = %v; want ErrNotFound", id, err)
			}
		}
	})

	t.Run("OtherSpellingsOfAnIDAreNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		td := mustNew(t, "kept", "", time.Now())
		if err := repo.Create(ctx, td); err != nil {
			t.Fatalf("create: %v", err)
		}

		aliases := []string{"+" + td.ID, "0" + td.ID, "00" + td.ID, " " + td.ID, td.ID + " "}
		if upper := strings.ToUpper(td.ID); upper != td.ID {
			aliases = append(aliases, upper)
		}
		for _, id := range aliases {
			if _, err := repo.GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("GetByID(%q) err = %v; want ErrNotFound", id, err)
			}
			alias := *td
			alias.ID = id
			alias.Title = "renamed"
			if err := repo.Update(ctx, &alias); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("Update(%q) err = %v; want ErrNotFound", id, err)
			}
			if err := repo.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("Delete(%q) err = %v; want ErrNotFound", id, err)
			}
		}

		got, err := repo.GetByID(ctx, td.ID)
		if err != nil {
			t.Fatalf("todo gone after alias calls: %v", err)
		}
		if got.Title != "kept" {
			t.Fatalf("title = %q; want kept", got.Title)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func mustNew(t *testing.T, title, desc string, now time.Time) *domain.Todo {
	t.Helper()
	td, err := domain.NewTodo(title, desc, now)
	if err != nil {
		t.Fatalf("NewTodo: %v", err)
	}
	return td
}

func assertEqual(t *testing.T, want, got *domain.Todo) {
	t.Helper()
	if got.ID != want.ID || got.Title != want.Title || got.Description != want.Description || got.Completed != want.Completed {
		t.Fatalf("got %+v; want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamps got (%v, %v); want (%v, %v)", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
}
