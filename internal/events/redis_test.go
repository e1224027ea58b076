package events

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"todo_webapp/internal/domain"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisBrokerRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer client.Close()

	sink := &recordingSink{}
	broker := NewRedisBroker(client, fmt.Sprintf("todos:test:%d", time.Now().UnixNano()), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- broker.Run(ctx, ready) }()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("run: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription not ready")
	}

	td, _ := domain.NewTodo("over redis", "", time.Now())
	td.ID = "1"
	if err := broker.Publish(ctx, Updated(td)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(sink.all()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event not forwarded to sink")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}
}
