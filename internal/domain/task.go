package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is a single todo item bound to a calendar date. The focus engine
// only reads ID and Title; the task list owns the rest.
type Task struct {
	ID          string
	Title       string
	Completed   bool
	CreatedDate string // YYYY-MM-DD key of the list the task belongs to
	Position    int    // order within its date's list, 0 = top
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks that the task has a usable title and date key.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if _, err := ParseDateKey(t.CreatedDate); err != nil {
		return fmt.Errorf("task date: %w", err)
	}
	return nil
}

// Toggle flips the completed flag.
func (t *Task) Toggle(now time.Time) {
	t.Completed = !t.Completed
	t.UpdatedAt = now
}

// MarkDone sets the task completed. Idempotent.
func (t *Task) MarkDone(now time.Time) {
	if t.Completed {
		return
	}
	t.Completed = true
	t.UpdatedAt = now
}

// Reopen clears the completed flag. Idempotent.
func (t *Task) Reopen(now time.Time) {
	if !t.Completed {
		return
	}
	t.Completed = false
	t.UpdatedAt = now
}

// Rename replaces the title after trimming; empty titles are rejected.
func (t *Task) Rename(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("task title is required")
	}
	t.Title = title
	t.UpdatedAt = now
	return nil
}

// DisplayID returns a short identifier for list output.
func (t *Task) DisplayID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}
