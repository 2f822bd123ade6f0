package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAudio records calls made by the machine.
type fakeAudio struct {
	mu           sync.Mutex
	mainPlaying  bool
	mainStarts   int
	mainStops    int
	previewStops int
	stopAlls     int
	lastSound    string
	lastVolume   float64
}

func (a *fakeAudio) PlayMain(soundID string, volume float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mainPlaying = true
	a.mainStarts++
	a.lastSound = soundID
	a.lastVolume = volume
	return soundID != domain.SoundNone
}

func (a *fakeAudio) StopMain() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mainPlaying = false
	a.mainStops++
}

func (a *fakeAudio) Preview(string, float64, time.Duration) {}

func (a *fakeAudio) StopPreview() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.previewStops++
}

func (a *fakeAudio) SetVolume(volume float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastVolume = volume
}

func (a *fakeAudio) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mainPlaying = false
	a.stopAlls++
}

func (a *fakeAudio) snapshot() fakeAudio {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fakeAudio{
		mainPlaying:  a.mainPlaying,
		mainStarts:   a.mainStarts,
		mainStops:    a.mainStops,
		previewStops: a.previewStops,
		stopAlls:     a.stopAlls,
		lastSound:    a.lastSound,
		lastVolume:   a.lastVolume,
	}
}

// fakeNotifier counts dispatches and can fail.
type fakeNotifier struct {
	mu     sync.Mutex
	calls  int
	titles []string
	err    error
}

func (n *fakeNotifier) SessionEnded(title string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.titles = append(n.titles, title)
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// newTestMachine uses a huge tick interval so the real driver never fires;
// tests drive ticks by hand.
func newTestMachine(audio *fakeAudio, notifier *fakeNotifier) *Machine {
	var n = notifier
	opts := Options{TickInterval: time.Hour}
	if n == nil {
		return New(audio, nil, opts)
	}
	return New(audio, n, opts)
}

// driveTick delivers one tick of the current driver generation.
func driveTick(m *Machine) bool {
	m.mu.Lock()
	gen := m.runGen
	m.mu.Unlock()
	return m.tick(gen)
}

func startRunning(t *testing.T, m *Machine, minutes int) {
	t.Helper()
	task := domain.Task{ID: "t1", Title: "Deep work"}
	cfg := domain.SessionConfig{DurationMinutes: minutes, SoundID: "rain", Volume: 0.7}
	require.NoError(t, m.Start(task, cfg))
}

func TestNew_AssignsID(t *testing.T) {
	a := New(nil, nil, Options{})
	b := New(nil, nil, Options{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestStart_ArmsCountdown(t *testing.T) {
	for _, minutes := range []int{1, 25, 90, 480} {
		m := newTestMachine(&fakeAudio{}, nil)
		startRunning(t, m, minutes)

		state := m.State()
		assert.Equal(t, domain.PhaseRunning, state.Phase)
		assert.Equal(t, minutes*60, state.TotalSeconds)
		assert.Equal(t, minutes*60, state.RemainingSeconds)
		m.Exit(false)
	}
}

func TestStart_ClampsInvalidDuration(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 0)
	assert.Equal(t, 25*60, m.State().TotalSeconds, "invalid duration maps to the default")
	m.Exit(false)

	m = newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 9999)
	assert.Equal(t, 480*60, m.State().TotalSeconds)
	m.Exit(false)
}

func TestStart_StopsPreviewAndStartsMain(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestMachine(audio, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)

	snap := audio.snapshot()
	assert.Equal(t, 1, snap.previewStops)
	assert.Equal(t, 1, snap.mainStarts)
	assert.Equal(t, "rain", snap.lastSound)
	assert.Equal(t, 0.7, snap.lastVolume)
}

func TestStart_TwiceRejected(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)

	err := m.Start(domain.Task{}, domain.SessionConfig{DurationMinutes: 10})
	assert.Error(t, err)
}

func TestConfigure(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	require.NoError(t, m.Configure(90, "white"))

	cfg := m.Config()
	assert.Equal(t, 90, cfg.DurationMinutes)
	assert.Equal(t, "white", cfg.SoundID)

	// Clamp on configure too.
	require.NoError(t, m.Configure(-3, ""))
	cfg = m.Config()
	assert.Equal(t, 25, cfg.DurationMinutes)
	assert.Equal(t, "white", cfg.SoundID, "empty sound keeps the previous choice")

	startRunning(t, m, 25)
	defer m.Exit(false)
	assert.Error(t, m.Configure(10, ""), "configure is invalid once running")
}

func TestTick_DecrementsByOne(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 2)
	defer m.Exit(false)

	require.True(t, driveTick(m))
	assert.Equal(t, 119, m.State().RemainingSeconds)
	require.True(t, driveTick(m))
	assert.Equal(t, 118, m.State().RemainingSeconds)
}

func TestTick_NaturalCompletion(t *testing.T) {
	audio := &fakeAudio{}
	notifier := &fakeNotifier{}
	m := newTestMachine(audio, notifier)
	startRunning(t, m, 1)

	for i := 0; i < 59; i++ {
		require.True(t, driveTick(m))
	}
	assert.Equal(t, 1, m.State().RemainingSeconds)

	// Final tick ends the session and cancels the driver.
	assert.False(t, driveTick(m))
	state := m.State()
	assert.Equal(t, domain.PhaseEnded, state.Phase)
	assert.Equal(t, 0, state.RemainingSeconds)
	assert.Equal(t, 1, audio.snapshot().mainStops)

	assert.Eventually(t, func() bool { return notifier.callCount() == 1 },
		time.Second, 5*time.Millisecond, "end notification fires exactly once")

	// A stale tick from the cancelled driver must not mutate state.
	assert.False(t, driveTick(m))
	assert.Equal(t, 0, m.State().RemainingSeconds)
	assert.Equal(t, domain.PhaseEnded, m.State().Phase)
	m.Exit(false)
}

func TestTick_StaleGenerationDiscarded(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)

	m.mu.Lock()
	staleGen := m.runGen
	m.mu.Unlock()

	require.NoError(t, m.Pause())
	require.NoError(t, m.Resume())

	before := m.State().RemainingSeconds
	assert.False(t, m.tick(staleGen), "tick from a cancelled driver is discarded")
	assert.Equal(t, before, m.State().RemainingSeconds)
}

func TestPauseResume_RoundTrip(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestMachine(audio, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)

	require.True(t, driveTick(m))
	require.True(t, driveTick(m))
	before := m.State().RemainingSeconds

	require.NoError(t, m.Pause())
	assert.Equal(t, domain.PhasePaused, m.State().Phase)
	assert.Equal(t, 1, audio.snapshot().stopAlls, "pause stops main and preview")

	require.NoError(t, m.Resume())
	state := m.State()
	assert.Equal(t, domain.PhaseRunning, state.Phase)
	assert.Equal(t, before, state.RemainingSeconds, "resume does not reset progress")
	assert.Equal(t, 2, audio.snapshot().mainStarts, "resume restarts main playback")
}

func TestPause_InvalidOutsideRunning(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	assert.Error(t, m.Pause())
	assert.Error(t, m.Resume())
}

func TestProlong_IsAdditive(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 1)

	for driveTick(m) {
	}
	require.Equal(t, domain.PhaseEnded, m.State().Phase)
	previousTotal := m.State().TotalSeconds

	require.NoError(t, m.Prolong(10))
	state := m.State()
	assert.Equal(t, domain.PhaseRunning, state.Phase)
	assert.Equal(t, previousTotal+600, state.TotalSeconds)
	assert.Equal(t, 600, state.RemainingSeconds)
	m.Exit(false)
}

func TestProlong_OnlyFromEnded(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)
	assert.Error(t, m.Prolong(10))
}

func TestProlong_ElapsedSpansCombinedSession(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 1)

	for driveTick(m) {
	}
	require.NoError(t, m.Prolong(10))

	// Consume 2 more minutes of the extension.
	for i := 0; i < 120; i++ {
		require.True(t, driveTick(m))
	}

	result := m.Exit(true)
	assert.Equal(t, 3, result.ElapsedMinutes, "1 min original + 2 min of the extension")
}

func TestExit_ElapsedMinutes(t *testing.T) {
	// Immediate exit: nothing elapsed.
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	result := m.Exit(false)
	assert.Equal(t, 0, result.ElapsedMinutes)

	// 1230 of 1500 seconds consumed rounds to 21.
	m = newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	m.mu.Lock()
	m.state.RemainingSeconds = 270
	m.mu.Unlock()
	result = m.Exit(true)
	assert.True(t, result.MarkDone)
	assert.Equal(t, 21, result.ElapsedMinutes)
}

func TestExit_StopsEverythingAndIsTerminal(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestMachine(audio, nil)
	startRunning(t, m, 25)

	first := m.Exit(true)
	assert.Equal(t, 1, audio.snapshot().stopAlls)

	// Repeat exits return the recorded result unchanged.
	second := m.Exit(false)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, audio.snapshot().stopAlls, "no duplicate teardown")

	assert.False(t, driveTick(m), "no tick after exit")
}

func TestExit_FromPausedAndEnded(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 25)
	require.NoError(t, m.Pause())
	result := m.Exit(false)
	assert.False(t, result.MarkDone)

	m = newTestMachine(&fakeAudio{}, nil)
	startRunning(t, m, 1)
	for driveTick(m) {
	}
	result = m.Exit(true)
	assert.Equal(t, 1, result.ElapsedMinutes)
}

func TestNotificationFailure_DoesNotBlockCompletion(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("permission denied")}
	m := newTestMachine(&fakeAudio{}, notifier)
	startRunning(t, m, 1)

	for driveTick(m) {
	}
	assert.Equal(t, domain.PhaseEnded, m.State().Phase,
		"session ends even when the notification fails")
	assert.Eventually(t, func() bool { return notifier.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	m.Exit(false)
}

func TestSetVolumeAndToggleMute(t *testing.T) {
	audio := &fakeAudio{}
	m := newTestMachine(audio, nil)
	startRunning(t, m, 25)
	defer m.Exit(false)

	m.SetVolume(0.4)
	assert.Equal(t, 0.4, audio.snapshot().lastVolume)

	assert.True(t, m.ToggleMute())
	assert.Equal(t, 0.0, audio.snapshot().lastVolume, "mute applies zero volume")

	assert.False(t, m.ToggleMute())
	assert.Equal(t, 0.4, audio.snapshot().lastVolume, "unmute restores the session volume")

	// Out-of-range volume clamps.
	m.SetVolume(4)
	assert.Equal(t, 1.0, m.Config().Volume)
}

func TestSubscribe_EventsAndCloseOnExit(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	events := m.Subscribe(16)
	startRunning(t, m, 25)

	event := <-events
	assert.Equal(t, EventPhaseChange, event.Type)
	assert.Equal(t, domain.PhaseRunning, event.Phase)

	require.True(t, driveTick(m))
	event = <-events
	assert.Equal(t, EventProgress, event.Type)
	assert.InDelta(t, 1.0/1500.0, event.Progress, 1e-9)

	m.Exit(false)
	_, open := <-events
	assert.False(t, open, "event channel closes on exit")
}

func TestNaturalCompletion_EmitsCompletedOnce(t *testing.T) {
	m := newTestMachine(&fakeAudio{}, nil)
	events := m.Subscribe(128)
	startRunning(t, m, 1)

	for driveTick(m) {
	}
	m.Exit(false)

	completed := 0
	for event := range events {
		if event.Type == EventCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}
