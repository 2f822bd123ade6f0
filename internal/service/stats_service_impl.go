package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/doone/internal/ledger"
	"github.com/alexanderramin/doone/internal/settings"
	"github.com/alexanderramin/doone/internal/streak"
)

type statsService struct {
	minutes  *ledger.Ledger
	streaks  *streak.Tracker
	settings *settings.Store
	now      func() time.Time
}

func NewStatsService(minutes *ledger.Ledger, streaks *streak.Tracker, store *settings.Store) StatsService {
	return &statsService{minutes: minutes, streaks: streaks, settings: store, now: time.Now}
}

func (s *statsService) Report(ctx context.Context) (*StatsReport, error) {
	target := s.settings.DailyTarget(ctx)
	all := s.minutes.GetAll(ctx)

	days := make([]DayStat, 0, len(all))
	for dateKey, mins := range all {
		days = append(days, DayStat{
			DateKey:   dateKey,
			Minutes:   mins,
			Intensity: intensity(mins, target),
		})
	}
	// Newest first; date keys sort lexically.
	sort.Slice(days, func(i, j int) bool { return days[i].DateKey > days[j].DateKey })

	return &StatsReport{
		Today:   s.minutes.GetSum(ctx, 1),
		Week:    s.minutes.GetSum(ctx, 7),
		AllTime: s.minutes.GetSum(ctx, 0),
		Target:  target,
		Streak:  s.streaks.Get(ctx),
		Days:    days,
		Quote:   dailyQuote(s.now()),
	}, nil
}

func (s *statsService) Subscribe(fn func()) func() {
	unsubMinutes := s.minutes.Subscribe(func(map[string]int) { fn() })
	unsubTarget := s.settings.SubscribeTarget(func(int) { fn() })
	return func() {
		unsubMinutes()
		unsubTarget()
	}
}
