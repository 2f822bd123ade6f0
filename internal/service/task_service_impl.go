package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/doone/internal/db"
	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Add inserts a new task at the top of its date's list.
func (s *taskService) Add(ctx context.Context, title, dateKey string) (task *domain.Task, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "task-add",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"date": dateKey},
		})
	}()

	if _, parseErr := domain.ParseDateKey(dateKey); parseErr != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateKey, parseErr)
	}
	now := time.Now().UTC()
	task = &domain.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		CreatedDate: dateKey,
		Position:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = task.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.ShiftPositions(ctx, dateKey, 0, 1); err != nil {
			return err
		}
		return txTasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Resolve matches ref against task IDs, exact first, then as a unique
// prefix.
func (s *taskService) Resolve(ctx context.Context, ref string) (*domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty task reference: %w", repository.ErrNotFound)
	}
	if task, err := s.tasks.GetByID(ctx, ref); err == nil {
		return task, nil
	}

	all, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Task
	for _, task := range all {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task %q: %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func (s *taskService) ListByDate(ctx context.Context, dateKey string) ([]*domain.Task, error) {
	return s.tasks.ListByDate(ctx, dateKey)
}

func (s *taskService) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListAll(ctx)
}

func (s *taskService) Toggle(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Toggle(time.Now().UTC())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Rename(ctx context.Context, id, title string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Rename(title, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Remove deletes the task and closes the position gap it leaves.
func (s *taskService) Remove(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		return txTasks.ShiftPositions(ctx, task.CreatedDate, task.Position+1, -1)
	})
}

func (s *taskService) MoveToTop(ctx context.Context, id string) error {
	return s.reorder(ctx, id, func(tasks []*domain.Task, target *domain.Task) []*domain.Task {
		return append([]*domain.Task{target}, tasks...)
	})
}

func (s *taskService) MoveToBottom(ctx context.Context, id string) error {
	return s.reorder(ctx, id, func(tasks []*domain.Task, target *domain.Task) []*domain.Task {
		return append(tasks, target)
	})
}

// MoveToIndex places the task at the given zero-based position within
// its day, clamping out-of-range indexes to the ends.
func (s *taskService) MoveToIndex(ctx context.Context, id string, index int) error {
	return s.reorder(ctx, id, func(tasks []*domain.Task, target *domain.Task) []*domain.Task {
		if index < 0 {
			index = 0
		}
		if index > len(tasks) {
			index = len(tasks)
		}
		out := make([]*domain.Task, 0, len(tasks)+1)
		out = append(out, tasks[:index]...)
		out = append(out, target)
		return append(out, tasks[index:]...)
	})
}

// reorder renumbers the whole date list after place has re-inserted the
// target task.
func (s *taskService) reorder(ctx context.Context, id string, place func(tasks []*domain.Task, target *domain.Task) []*domain.Task) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		target, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		siblings, err := txTasks.ListByDate(ctx, target.CreatedDate)
		if err != nil {
			return err
		}
		rest := make([]*domain.Task, 0, len(siblings))
		for _, task := range siblings {
			if task.ID != id {
				rest = append(rest, task)
			}
		}
		now := time.Now().UTC()
		for pos, task := range place(rest, target) {
			if task.Position == pos {
				continue
			}
			task.Position = pos
			task.UpdatedAt = now
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *taskService) RemainingCount(ctx context.Context, dateKey string) (int, error) {
	tasks, err := s.tasks.ListByDate(ctx, dateKey)
	if err != nil {
		return 0, err
	}
	var remaining int
	for _, task := range tasks {
		if !task.Completed {
			remaining++
		}
	}
	return remaining, nil
}
