package testutil

import (
	"time"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/google/uuid"
)

// Task options
type TaskOption func(*domain.Task)

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.Completed = true
	}
}

func WithDate(dateKey string) TaskOption {
	return func(t *domain.Task) {
		t.CreatedDate = dateKey
	}
}

func WithPosition(pos int) TaskOption {
	return func(t *domain.Task) {
		t.Position = pos
	}
}

// NewTestTask builds a task for today with sensible defaults.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		CreatedDate: domain.DateKey(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// NewTestConfig builds a normalized session config.
func NewTestConfig(minutes int, soundID string) domain.SessionConfig {
	cfg := domain.SessionConfig{
		DurationMinutes: minutes,
		SoundID:         soundID,
		Volume:          domain.DefaultVolume,
	}
	cfg.Normalize()
	return cfg
}
