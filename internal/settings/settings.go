// Package settings persists user-facing defaults for new focus sessions.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/repository"
)

const (
	timeKey  = "settings_default_focus_time"
	soundKey = "settings_default_sound"
)

// TargetStore is the single source of truth for the daily minutes target.
// Satisfied by *ledger.Ledger.
type TargetStore interface {
	GetTarget(ctx context.Context) int
	SetTarget(ctx context.Context, minutes int) (int, error)
}

// Store reads and writes session defaults. Target changes fan out to
// registered subscribers.
type Store struct {
	kv      repository.KVStore
	targets TargetStore
	logger  *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func(target int)
	nextSub int
}

// New creates a settings Store backed by kv, delegating the daily target
// to targets.
func New(kv repository.KVStore, targets TargetStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, targets: targets, logger: logger, subs: make(map[int]func(int))}
}

// DefaultFocusMinutes returns the stored default session length, or the
// built-in default when unset or unreadable.
func (s *Store) DefaultFocusMinutes(ctx context.Context) int {
	raw := s.readString(ctx, timeKey)
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return domain.DefaultSessionMinutes
	}
	return domain.ClampMinutes(minutes)
}

// SetDefaultFocusMinutes stores a clamped default session length and
// returns the value actually saved.
func (s *Store) SetDefaultFocusMinutes(ctx context.Context, minutes int) (int, error) {
	minutes = domain.ClampMinutes(minutes)
	if err := s.kv.Set(ctx, timeKey, strconv.Itoa(minutes)); err != nil {
		return 0, fmt.Errorf("saving default focus time: %w", err)
	}
	return minutes, nil
}

// DefaultSound returns the stored default sound id, "none" when unset.
func (s *Store) DefaultSound(ctx context.Context) string {
	raw := s.readString(ctx, soundKey)
	if raw == "" {
		return domain.SoundNone
	}
	return raw
}

// SetDefaultSound stores the default sound id.
func (s *Store) SetDefaultSound(ctx context.Context, soundID string) error {
	if soundID == "" {
		soundID = domain.SoundNone
	}
	if err := s.kv.Set(ctx, soundKey, soundID); err != nil {
		return fmt.Errorf("saving default sound: %w", err)
	}
	return nil
}

// DailyTarget returns the daily minutes target.
func (s *Store) DailyTarget(ctx context.Context) int {
	return s.targets.GetTarget(ctx)
}

// SetDailyTarget stores a clamped daily target and notifies subscribers
// with the saved value.
func (s *Store) SetDailyTarget(ctx context.Context, minutes int) (int, error) {
	saved, err := s.targets.SetTarget(ctx, minutes)
	if err != nil {
		return 0, err
	}
	s.notifyTarget(saved)
	return saved, nil
}

// SubscribeTarget registers fn for future target changes and returns an
// unsubscribe func.
func (s *Store) SubscribeTarget(fn func(target int)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notifyTarget(target int) {
	s.subMu.Lock()
	fns := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		s.safeNotify(fn, target)
	}
}

func (s *Store) safeNotify(fn func(int), target int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("settings: target subscriber panicked", "panic", r)
		}
	}()
	fn(target)
}

func (s *Store) readString(ctx context.Context, key string) string {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("settings: read failed", "key", key, "error", err)
		}
		return ""
	}
	return raw
}
