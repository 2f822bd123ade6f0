package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandle records playback calls.
type fakeHandle struct {
	mu      sync.Mutex
	playing bool
	stops   int
	volume  float64
}

func (h *fakeHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
}

func (h *fakeHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	h.stops++
}

func (h *fakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = v
}

func (h *fakeHandle) isPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *fakeHandle) stopCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}

// fakePlayer hands out fakeHandles and can be made to fail.
type fakePlayer struct {
	mu      sync.Mutex
	handles []*fakeHandle
	fail    bool
}

func (p *fakePlayer) Load(path string, loop bool) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errors.New("decode failed")
	}
	h := &fakeHandle{}
	p.handles = append(p.handles, h)
	return h, nil
}

func (p *fakePlayer) handle(i int) *fakeHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handles[i]
}

func (p *fakePlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// newTestCatalog creates a sounds dir with real (empty) files for the free
// sounds so Resolve succeeds.
func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, id := range []string{"rain", "white", "birds"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".mp3"), nil, 0644))
	}
	return NewCatalog(dir)
}

func newTestManager(t *testing.T) (*Manager, *fakePlayer) {
	t.Helper()
	player := &fakePlayer{}
	return NewManager(player, newTestCatalog(t), nil), player
}

func TestCatalogResolve(t *testing.T) {
	catalog := newTestCatalog(t)

	_, ok := catalog.Resolve("none")
	assert.False(t, ok, "silence resolves to nothing")

	_, ok = catalog.Resolve("unknown")
	assert.False(t, ok)

	path, ok := catalog.Resolve("rain")
	require.True(t, ok)
	assert.Contains(t, path, "rain.mp3")

	// Known id with no file on disk.
	_, ok = catalog.Resolve("gong")
	assert.False(t, ok)
}

func TestPlayMain_AtMostOne(t *testing.T) {
	m, player := newTestManager(t)

	assert.True(t, m.PlayMain("rain", 0.7))
	assert.True(t, m.PlayMain("white", 0.7))

	require.Equal(t, 2, player.count())
	first, second := player.handle(0), player.handle(1)
	assert.False(t, first.isPlaying(), "first main loop must be stopped before the second starts")
	assert.True(t, second.isPlaying())
}

func TestPlayMain_SilenceStopsCurrent(t *testing.T) {
	m, player := newTestManager(t)

	require.True(t, m.PlayMain("rain", 0.7))
	assert.False(t, m.PlayMain("none", 0.7))

	assert.False(t, player.handle(0).isPlaying())
	assert.Equal(t, 1, player.count(), "silence loads nothing")
}

func TestPlayMain_LoadFailureIsSwallowed(t *testing.T) {
	player := &fakePlayer{fail: true}
	m := NewManager(player, newTestCatalog(t), nil)

	assert.NotPanics(t, func() {
		assert.False(t, m.PlayMain("rain", 0.7))
	})
	// Manager still usable afterwards.
	player.fail = false
	assert.True(t, m.PlayMain("rain", 0.7))
}

func TestStopMain_Idempotent(t *testing.T) {
	m, player := newTestManager(t)

	m.StopMain()

	require.True(t, m.PlayMain("rain", 0.7))
	m.StopMain()
	m.StopMain()
	assert.Equal(t, 1, player.handle(0).stopCount(), "stop is released exactly once")
}

func TestPreview_InterruptsPrevious(t *testing.T) {
	m, player := newTestManager(t)

	m.Preview("rain", 0.7, time.Hour)
	m.Preview("white", 0.7, time.Hour)

	require.Equal(t, 2, player.count())
	assert.False(t, player.handle(0).isPlaying())
	assert.True(t, player.handle(1).isPlaying())
}

func TestPreview_AutoStopOwnership(t *testing.T) {
	m, player := newTestManager(t)

	// Short auto-stop on the first preview.
	m.Preview("rain", 0.7, 20*time.Millisecond)
	// Replace it before the auto-stop fires.
	m.Preview("white", 0.7, time.Hour)

	time.Sleep(80 * time.Millisecond)

	assert.True(t, player.handle(1).isPlaying(),
		"stale auto-stop must not stop the newer preview")
	assert.Equal(t, 1, player.handle(0).stopCount(),
		"replaced preview is stopped exactly once")
}

func TestPreview_AutoStopFires(t *testing.T) {
	m, player := newTestManager(t)

	m.Preview("rain", 0.7, 20*time.Millisecond)
	require.True(t, player.handle(0).isPlaying())

	assert.Eventually(t, func() bool {
		return !player.handle(0).isPlaying()
	}, time.Second, 5*time.Millisecond)
}

func TestSetVolume_AppliesToActiveChannels(t *testing.T) {
	m, player := newTestManager(t)

	// No active playback: silently ignored.
	m.SetVolume(0.5)

	m.PlayMain("rain", 0.7)
	m.Preview("white", 0.7, time.Hour)
	m.SetVolume(0.2)

	assert.Equal(t, 0.2, player.handle(0).volume)
	assert.Equal(t, 0.2, player.handle(1).volume)
}

func TestStopAll(t *testing.T) {
	m, player := newTestManager(t)

	m.PlayMain("rain", 0.7)
	m.Preview("white", 0.7, time.Hour)
	m.StopAll()

	assert.False(t, player.handle(0).isPlaying())
	assert.False(t, player.handle(1).isPlaying())

	// Clean restart after StopAll.
	assert.True(t, m.PlayMain("birds", 0.7))
}
