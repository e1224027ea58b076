package main

import (
	"context"
	"flag"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
	"todo_webapp/internal/store"
)

var samples = []struct {
	title       string
	description string
}{
	{"Read the README", "Find out how to run the app locally"},
	{"Pick a store driver", "sqlite, postgres, mongo or memory"},
	{"Open two browser tabs", "Watch changes arrive over the websocket"},
}

func main() {
	complete := flag.Bool("complete-first", false, "mark the first sample todo as completed")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer repo.Close()

	todos := service.NewTodoService(repo, nil)

	existing, err := todos.List(ctx)
	if err != nil {
		logger.Fatal("list todos", "error", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.Title] = true
	}

	for i, s := range samples {
		if seen[s.title] {
			logger.Info("todo already exists", "title", s.title)
			continue
		}
		t, err := todos.Create(ctx, s.title, s.description)
		if err != nil {
			logger.Fatal("create todo failed", "title", s.title, "error", err)
		}
		if i == 0 && *complete {
			done := true
			updated, err := todos.Update(ctx, t.ID, domain.TodoPatch{Completed: &done})
			if err != nil {
				logger.Fatal("complete todo failed", "id", t.ID, "error", err)
			}
			t = updated
		}
		logger.Info("todo created", "id", t.ID, "title", t.Title)
	}
}
