// Package events carries todo change notifications from the service to
// connected live-update clients, optionally across instances through Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"todo_webapp/internal/domain"
)

const (
	TypeCreated = "todo.created"
	TypeUpdated = "todo.updated"
	TypeDeleted = "todo.deleted"
)

// Event is one successful mutation.
type Event struct {
	Type string       `json:"type"`
	Todo *domain.Todo `json:"todo,omitempty"`
	ID   string       `json:"id,omitempty"`
	At   time.Time    `json:"at"`
}

func Created(t *domain.Todo) Event {
	return Event{Type: TypeCreated, Todo: t, ID: t.ID, At: t.UpdatedAt}
}

func Updated(t *domain.Todo) Event {
	return Event{Type: TypeUpdated, Todo: t, ID: t.ID, At: t.UpdatedAt}
}

func Deleted(id string, at time.Time) Event {
	return Event{Type: TypeDeleted, ID: id, At: at}
}

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Sink receives encoded events. ws.Hub is the production sink.
type Sink interface {
	Broadcast(msg []byte)
}

// Encode serializes e as a websocket frame.
func Encode(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}

// Local delivers events straight to an in-process sink.
type Local struct {
	sink Sink
}

func NewLocal(sink Sink) *Local {
	return &Local{sink: sink}
}

func (l *Local) Publish(_ context.Context, e Event) error {
	b, err := Encode(e)
	if err != nil {
		return err
	}
	l.sink.Broadcast(b)
	return nil
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
