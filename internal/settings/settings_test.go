package settings

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/ledger"
	"github.com/alexanderramin/doone/internal/repository"
	"github.com/alexanderramin/doone/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database := testutil.NewTestDB(t)
	kv := repository.NewSQLiteKVStore(database)
	return New(kv, ledger.New(kv, slog.Default()), slog.Default())
}

func TestDefaultFocusMinutes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, domain.DefaultSessionMinutes, s.DefaultFocusMinutes(ctx))

	saved, err := s.SetDefaultFocusMinutes(ctx, 45)
	require.NoError(t, err)
	assert.Equal(t, 45, saved)
	assert.Equal(t, 45, s.DefaultFocusMinutes(ctx))
}

func TestSetDefaultFocusMinutes_Clamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SetDefaultFocusMinutes(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSessionMinutes, saved, "non-positive input maps to the default")

	saved, err = s.SetDefaultFocusMinutes(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxSessionMinutes, saved)
}

func TestDefaultFocusMinutes_GarbageValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.kv.Set(ctx, timeKey, "soon"))
	assert.Equal(t, domain.DefaultSessionMinutes, s.DefaultFocusMinutes(ctx))
}

func TestDefaultSound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, domain.SoundNone, s.DefaultSound(ctx))

	require.NoError(t, s.SetDefaultSound(ctx, "rain"))
	assert.Equal(t, "rain", s.DefaultSound(ctx))

	require.NoError(t, s.SetDefaultSound(ctx, ""))
	assert.Equal(t, domain.SoundNone, s.DefaultSound(ctx))
}

func TestDailyTarget_DelegatesToLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, ledger.DefaultDailyTarget, s.DailyTarget(ctx))

	saved, err := s.SetDailyTarget(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, saved)
	assert.Equal(t, 90, s.DailyTarget(ctx))
}

func TestSetDailyTarget_NotifiesSubscribers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var got []int
	unsubscribe := s.SubscribeTarget(func(target int) { got = append(got, target) })

	_, err := s.SetDailyTarget(ctx, 120)
	require.NoError(t, err)
	require.Equal(t, []int{120}, got)

	unsubscribe()
	_, err = s.SetDailyTarget(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, []int{120}, got)
}

func TestSetDailyTarget_PanickingSubscriber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SubscribeTarget(func(int) { panic("boom") })
	var notified bool
	s.SubscribeTarget(func(int) { notified = true })

	_, err := s.SetDailyTarget(ctx, 75)
	require.NoError(t, err)
	assert.True(t, notified)
}
