package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrTitleRequired = errors.New("title is required")

// Todo is a single to-do item.
type Todo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TodoPatch carries the fields of a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Now returns the current time at the precision every store keeps.
func Now() time.Time {
	return Timestamp(time.Now())
}

// Timestamp normalizes t to UTC milliseconds.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NormalizeTitle trims the title and rejects a blank one.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	return trimmed, nil
}

// NewTodo builds a fresh, not yet persisted todo with all defaults applied.
func NewTodo(title, description string, now time.Time) (*Todo, error) {
	t, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	now = Timestamp(now)
	return &Todo{
		Title:       t,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply copies the supplied fields of p onto t and refreshes UpdatedAt.
// UpdatedAt always moves forward, even when now does not.
func (t *Todo) Apply(p TodoPatch, now time.Time) error {
	title := t.Title
	if p.Title != nil {
		normalized, err := NormalizeTitle(*p.Title)
		if err != nil {
			return err
		}
		title = normalized
	}

	t.Title = title
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}

	now = Timestamp(now)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = now
	return nil
}
