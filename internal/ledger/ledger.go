// Package ledger persists focused minutes per calendar date and fans out
// live updates to subscribers.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/repository"
)

// Fixed storage keys.
const (
	minutesKey = "focus_minutes_by_date"
	targetKey  = "focus_daily_target"
)

// Daily target bounds in minutes.
const (
	DefaultDailyTarget = 60
	MinDailyTarget     = 1
	MaxDailyTarget     = 1440
)

// Subscriber receives a fresh copy of the full date→minutes mapping after
// every successful mutation.
type Subscriber func(all map[string]int)

// Ledger is the date-keyed focused-minutes accumulator. Mutations are
// serialized by the ledger's own lock, so concurrent AddMinutes calls
// cannot lose updates to the read-modify-write cycle.
type Ledger struct {
	mu     sync.Mutex
	kv     repository.KVStore
	logger *slog.Logger
	now    func() time.Time

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

// New creates a Ledger over the given key-value store.
func New(kv repository.KVStore, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]Subscriber),
	}
}

// AddMinutes adds minutes to dateKey's total and persists the full
// mapping. Negative amounts clamp to zero and fractions round to the
// nearest whole minute, so a session can never decrease a day's total.
// Subscribers are notified after the write. Returns the day's new total.
func (l *Ledger) AddMinutes(ctx context.Context, dateKey string, minutes float64) (int, error) {
	add := int(math.Round(minutes))
	if add < 0 {
		add = 0
	}

	l.mu.Lock()
	all := l.readAll(ctx)
	all[dateKey] += add
	total := all[dateKey]
	err := l.writeAll(ctx, all)
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}

	l.notify(all)
	return total, nil
}

// GetForDate returns the minutes recorded for dateKey, 0 when absent.
func (l *Ledger) GetForDate(ctx context.Context, dateKey string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll(ctx)[dateKey]
}

// GetAll returns a snapshot of the full mapping.
func (l *Ledger) GetAll(ctx context.Context) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll(ctx)
}

// GetSum sums minutes over the last lastNDays calendar days inclusive of
// today; lastNDays <= 0 sums everything.
func (l *Ledger) GetSum(ctx context.Context, lastNDays int) int {
	l.mu.Lock()
	all := l.readAll(ctx)
	l.mu.Unlock()

	today := l.now()
	sum := 0
	for key, mins := range all {
		if lastNDays > 0 && !domain.WithinLastDays(key, lastNDays, today) {
			continue
		}
		sum += mins
	}
	return sum
}

// Subscribe registers a listener for ledger mutations and returns its
// teardown. A subscriber panic is recovered and logged; the remaining
// subscribers are still notified.
func (l *Ledger) Subscribe(fn Subscriber) (unsubscribe func()) {
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.subs, id)
		l.subMu.Unlock()
	}
}

// GetTarget returns the persisted daily target, defaulting when unset or
// unreadable.
func (l *Ledger) GetTarget(ctx context.Context) int {
	raw, err := l.kv.Get(ctx, targetKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			l.logger.Warn("ledger: reading daily target failed", "error", err)
		}
		return DefaultDailyTarget
	}
	target, err := strconv.Atoi(raw)
	if err != nil || target <= 0 {
		return DefaultDailyTarget
	}
	return target
}

// SetTarget persists the daily target, clamped into the valid range.
func (l *Ledger) SetTarget(ctx context.Context, minutes int) (int, error) {
	if minutes < MinDailyTarget {
		minutes = MinDailyTarget
	}
	if minutes > MaxDailyTarget {
		minutes = MaxDailyTarget
	}
	if err := l.kv.Set(ctx, targetKey, strconv.Itoa(minutes)); err != nil {
		return 0, fmt.Errorf("persisting daily target: %w", err)
	}
	return minutes, nil
}

// readAll loads the mapping, falling back to an empty one on storage
// failure so the app keeps working with an in-memory default.
func (l *Ledger) readAll(ctx context.Context) map[string]int {
	all := make(map[string]int)
	raw, err := l.kv.Get(ctx, minutesKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			l.logger.Warn("ledger: reading minutes failed", "error", err)
		}
		return all
	}
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		l.logger.Warn("ledger: corrupt minutes blob, starting empty", "error", err)
		return make(map[string]int)
	}
	return all
}

func (l *Ledger) writeAll(ctx context.Context, all map[string]int) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encoding minutes: %w", err)
	}
	if err := l.kv.Set(ctx, minutesKey, string(raw)); err != nil {
		return fmt.Errorf("persisting minutes: %w", err)
	}
	return nil
}

// notify delivers a fresh copy of the mapping to every subscriber.
func (l *Ledger) notify(all map[string]int) {
	l.subMu.Lock()
	subs := make([]Subscriber, 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()

	for _, fn := range subs {
		copied := make(map[string]int, len(all))
		for k, v := range all {
			copied[k] = v
		}
		l.safeNotify(fn, copied)
	}
}

func (l *Ledger) safeNotify(fn Subscriber, all map[string]int) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Warn("ledger: subscriber panicked", "panic", p)
		}
	}()
	fn(all)
}
