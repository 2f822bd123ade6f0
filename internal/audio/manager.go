package audio

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultPreviewDuration is how long a one-shot sound preview plays before
// it stops itself.
const DefaultPreviewDuration = 5 * time.Second

// Handle is one live playback. Stop must be safe to call more than once.
type Handle interface {
	Play()
	Stop()
	SetVolume(v float64)
}

// Player turns a catalog file into a playback handle. Implementations:
// the beep-backed player and the silent player.
type Player interface {
	Load(path string, loop bool) (Handle, error)
}

// Manager owns at most one looping "main" playback and one one-shot
// "preview" playback. Load and play failures are logged and swallowed so
// a session can always proceed silently.
type Manager struct {
	mu      sync.Mutex
	player  Player
	catalog *Catalog
	logger  *slog.Logger

	main    Handle
	preview Handle
	// previewGen identifies the current preview; a scheduled auto-stop
	// that does not match it no-ops instead of stopping a newer sound.
	previewGen   uint64
	previewTimer *time.Timer
}

// NewManager creates a Manager over the given player and catalog.
func NewManager(player Player, catalog *Catalog, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{player: player, catalog: catalog, logger: logger}
}

// PlayMain resolves soundID and starts a looping playback at the given
// volume, stopping any previous main loop first. The silence identifier
// (or an unresolvable one) just stops the current loop. Returns whether a
// new loop is playing.
func (m *Manager) PlayMain(soundID string, volume float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopMainLocked()

	path, ok := m.catalog.Resolve(soundID)
	if !ok {
		return false
	}

	handle, err := m.player.Load(path, true)
	if err != nil {
		m.logger.Warn("audio: loading main sound failed", "sound", soundID, "error", err)
		return false
	}
	handle.SetVolume(volume)
	handle.Play()
	m.main = handle
	return true
}

// StopMain stops the main loop if one is playing. Idempotent.
func (m *Manager) StopMain() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMainLocked()
}

// Preview plays a non-looping sample of soundID for the given duration,
// interrupting and releasing any preview already playing. Durations <= 0
// use the default.
func (m *Manager) Preview(soundID string, volume float64, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultPreviewDuration
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopPreviewLocked()

	path, ok := m.catalog.Resolve(soundID)
	if !ok {
		return
	}

	handle, err := m.player.Load(path, false)
	if err != nil {
		m.logger.Warn("audio: loading preview failed", "sound", soundID, "error", err)
		return
	}
	handle.SetVolume(volume)
	handle.Play()
	m.preview = handle

	m.previewGen++
	gen := m.previewGen
	m.previewTimer = time.AfterFunc(duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A newer preview or an explicit stop already owns the slot.
		if m.previewGen != gen || m.preview == nil {
			return
		}
		m.preview.Stop()
		m.preview = nil
		m.previewTimer = nil
	})
}

// StopPreview stops the active preview, if any. Idempotent.
func (m *Manager) StopPreview() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopPreviewLocked()
}

// SetVolume applies the volume to whichever of main/preview are active.
func (m *Manager) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.main != nil {
		m.main.SetVolume(volume)
	}
	if m.preview != nil {
		m.preview.SetVolume(volume)
	}
}

// StopAll stops both channels. Always safe; the manager is ready for new
// playback afterwards.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMainLocked()
	m.stopPreviewLocked()
}

func (m *Manager) stopMainLocked() {
	if m.main == nil {
		return
	}
	m.main.Stop()
	m.main = nil
}

func (m *Manager) stopPreviewLocked() {
	if m.previewTimer != nil {
		m.previewTimer.Stop()
		m.previewTimer = nil
	}
	if m.preview == nil {
		return
	}
	m.preview.Stop()
	m.preview = nil
	// Invalidate any auto-stop already in flight.
	m.previewGen++
}
