package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"todo_webapp/internal/domain"
)

type recordingSink struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (s *recordingSink) Broadcast(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *recordingSink) all() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.msgs...)
}

func TestLocalPublishEncodesEvent(t *testing.T) {
	sink := &recordingSink{}
	pub := NewLocal(sink)

	td, _ := domain.NewTodo("hello", "", time.Now())
	td.ID = "7"
	if err := pub.Publish(context.Background(), Created(td)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msgs := sink.all()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	var frame struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Todo struct {
			Title string `json:"title"`
		} `json:"todo"`
	}
	if err := json.Unmarshal(msgs[0], &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Type != TypeCreated || frame.ID != "7" || frame.Todo.Title != "hello" {
		t.Fatalf("unexpected frame: %s", msgs[0])
	}
}

func TestDeletedOmitsTodo(t *testing.T) {
	b, err := Encode(Deleted("3", time.Now()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["todo"]; ok {
		t.Fatalf("deleted event should not carry a todo: %s", b)
	}
	if m["type"] != TypeDeleted || m["id"] != "3" {
		t.Fatalf("unexpected frame: %s", b)
	}
}

func TestDiscard(t *testing.T) {
	if err := (Discard{}).Publish(context.Background(), Deleted("1", time.Now())); err != nil {
		t.Fatalf("discard: %v", err)
	}
}
