package service

import (
	"context"

	"github.com/alexanderramin/doone/internal/audio"
	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/session"
)

type TaskService interface {
	Add(ctx context.Context, title, dateKey string) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// Resolve accepts a full task ID or a unique prefix of one.
	Resolve(ctx context.Context, ref string) (*domain.Task, error)
	ListByDate(ctx context.Context, dateKey string) ([]*domain.Task, error)
	ListAll(ctx context.Context) ([]*domain.Task, error)
	Toggle(ctx context.Context, id string) (*domain.Task, error)
	Rename(ctx context.Context, id, title string) (*domain.Task, error)
	Remove(ctx context.Context, id string) error
	MoveToTop(ctx context.Context, id string) error
	MoveToBottom(ctx context.Context, id string) error
	MoveToIndex(ctx context.Context, id string, index int) error
	RemainingCount(ctx context.Context, dateKey string) (int, error)
}

// FocusOutcome reports what a finished session changed. Partial failures
// are joined into Err; the fields reflect what actually took effect.
type FocusOutcome struct {
	MarkedDone   bool
	MinutesAdded int
	DayTotal     int
	Streak       int
	Err          error
}

type FocusService interface {
	// DefaultConfig builds a session config from the persisted defaults.
	DefaultConfig(ctx context.Context) domain.SessionConfig
	// NewMachine returns a fresh session machine wired to the app's audio
	// and notification backends.
	NewMachine() *session.Machine
	Sounds() []audio.Sound
	SoundLabel(id string) string
	// Finish applies a session result: mark-done and streak update first,
	// then the minutes credit for the task's date.
	Finish(ctx context.Context, task domain.Task, result domain.SessionResult) FocusOutcome
}

// DayStat is one row of the per-day focus history.
type DayStat struct {
	DateKey string
	Minutes int
	// Intensity is minutes over the daily target, clamped to [0,1].
	Intensity float64
}

// StatsReport aggregates the ledger, streak and target for display.
type StatsReport struct {
	Today   int
	Week    int
	AllTime int
	Target  int
	Streak  int
	Days    []DayStat
	Quote   string
}

type StatsService interface {
	Report(ctx context.Context) (*StatsReport, error)
	// Subscribe registers fn for ledger and target changes; the returned
	// func unsubscribes.
	Subscribe(fn func()) func()
}
