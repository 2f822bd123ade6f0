// Package streak derives the consecutive-day focus streak from the dates
// sessions were completed on.
package streak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/repository"
)

// Fixed storage keys.
const (
	countKey    = "focus_streak"
	lastDateKey = "last_focus_date"
)

// Tracker persists the streak count and the last active date.
type Tracker struct {
	kv     repository.KVStore
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Tracker over the given key-value store.
func New(kv repository.KVStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{kv: kv, logger: logger, now: time.Now}
}

// Update records a completed session for today and returns the new streak:
// unchanged if today already counted, incremented on a consecutive day,
// reset to 1 after any gap or on first use.
func (t *Tracker) Update(ctx context.Context) (int, error) {
	today := domain.DateKey(t.now())
	yesterday := domain.DateKey(t.now().AddDate(0, 0, -1))

	lastDate := t.readString(ctx, lastDateKey)
	count := t.Get(ctx)

	if lastDate == today {
		return count, nil
	}

	if lastDate == yesterday {
		count++
	} else {
		count = 1
	}

	if err := t.kv.Set(ctx, countKey, strconv.Itoa(count)); err != nil {
		return 0, fmt.Errorf("persisting streak count: %w", err)
	}
	if err := t.kv.Set(ctx, lastDateKey, today); err != nil {
		return 0, fmt.Errorf("persisting streak date: %w", err)
	}
	return count, nil
}

// Get returns the persisted streak count, 0 when unset.
func (t *Tracker) Get(ctx context.Context) int {
	raw := t.readString(ctx, countKey)
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

func (t *Tracker) readString(ctx context.Context, key string) string {
	raw, err := t.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			t.logger.Warn("streak: read failed", "key", key, "error", err)
		}
		return ""
	}
	return raw
}
