package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/doone/internal/audio"
	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/ledger"
	"github.com/alexanderramin/doone/internal/notify"
	"github.com/alexanderramin/doone/internal/repository"
	"github.com/alexanderramin/doone/internal/session"
	"github.com/alexanderramin/doone/internal/settings"
	"github.com/alexanderramin/doone/internal/streak"
)

type focusService struct {
	tasks    repository.TaskRepo
	settings *settings.Store
	minutes  *ledger.Ledger
	streaks  *streak.Tracker
	catalog  *audio.Catalog
	audio    session.Audio
	notifier notify.Dispatcher
	logger   *slog.Logger
	observer UseCaseObserver
}

// FocusDeps bundles the collaborators a FocusService needs.
type FocusDeps struct {
	Tasks    repository.TaskRepo
	Settings *settings.Store
	Minutes  *ledger.Ledger
	Streaks  *streak.Tracker
	Catalog  *audio.Catalog
	Audio    session.Audio
	Notifier notify.Dispatcher
	Logger   *slog.Logger
}

func NewFocusService(deps FocusDeps, observers ...UseCaseObserver) FocusService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &focusService{
		tasks:    deps.Tasks,
		settings: deps.Settings,
		minutes:  deps.Minutes,
		streaks:  deps.Streaks,
		catalog:  deps.Catalog,
		audio:    deps.Audio,
		notifier: deps.Notifier,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *focusService) DefaultConfig(ctx context.Context) domain.SessionConfig {
	cfg := domain.SessionConfig{
		DurationMinutes: s.settings.DefaultFocusMinutes(ctx),
		SoundID:         s.settings.DefaultSound(ctx),
		Volume:          domain.DefaultVolume,
	}
	cfg.Normalize()
	return cfg
}

func (s *focusService) NewMachine() *session.Machine {
	return session.New(s.audio, s.notifier, session.Options{Logger: s.logger})
}

func (s *focusService) Sounds() []audio.Sound {
	return s.catalog.Sounds()
}

func (s *focusService) SoundLabel(id string) string {
	return s.catalog.Label(id)
}

// Finish applies a session's result. Each effect is attempted even when an
// earlier one failed; a minutes-ledger failure never undoes the mark-done.
func (s *focusService) Finish(ctx context.Context, task domain.Task, result domain.SessionResult) FocusOutcome {
	startedAt := time.Now().UTC()
	var outcome FocusOutcome
	var errs []error

	if result.MarkDone && task.ID != "" {
		if err := s.markDone(ctx, task.ID); err != nil {
			s.logger.Warn("focus: marking task done failed", "task_id", task.ID, "error", err)
			errs = append(errs, fmt.Errorf("marking task done: %w", err))
		} else {
			outcome.MarkedDone = true
			count, err := s.streaks.Update(ctx)
			if err != nil {
				s.logger.Warn("focus: streak update failed", "error", err)
				errs = append(errs, fmt.Errorf("updating streak: %w", err))
			} else {
				outcome.Streak = count
			}
		}
	}

	if result.ElapsedMinutes > 0 {
		dateKey := task.CreatedDate
		if dateKey == "" {
			dateKey = domain.DateKey(time.Now())
		}
		total, err := s.minutes.AddMinutes(ctx, dateKey, float64(result.ElapsedMinutes))
		if err != nil {
			s.logger.Warn("focus: crediting minutes failed", "date", dateKey, "error", err)
			errs = append(errs, fmt.Errorf("crediting minutes: %w", err))
		} else {
			outcome.MinutesAdded = result.ElapsedMinutes
			outcome.DayTotal = total
		}
	}

	outcome.Err = errors.Join(errs...)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "focus-finish",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   outcome.Err == nil,
		Err:       outcome.Err,
		Fields: map[string]any{
			"task_id":     task.ID,
			"mark_done":   result.MarkDone,
			"minutes":     result.ElapsedMinutes,
			"streak":      outcome.Streak,
		},
	})
	return outcome
}

func (s *focusService) markDone(ctx context.Context, id string) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	task.MarkDone(time.Now().UTC())
	return s.tasks.Update(ctx, task)
}
