// Package session implements the focus session state machine: the
// countdown, pause/resume, prolong and exit lifecycle, coordinating
// ambient-sound playback and the end-of-session notification around it.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/notify"
)

// Audio is the playback surface the machine drives. *audio.Manager
// satisfies it.
type Audio interface {
	PlayMain(soundID string, volume float64) bool
	StopMain()
	Preview(soundID string, volume float64, duration time.Duration)
	StopPreview()
	SetVolume(volume float64)
	StopAll()
}

// Options contains runtime options for a Machine.
type Options struct {
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Machine drives one focus session from configuration to exit. A machine
// is single-use: after Exit it only ever returns the recorded result.
type Machine struct {
	mu      sync.Mutex
	id      string
	options Options

	task   domain.Task
	config domain.SessionConfig
	state  domain.SessionState

	audio    Audio
	notifier notify.Dispatcher
	logger   *slog.Logger

	events []chan Event

	// stopCh belongs to the current countdown driver; runGen invalidates
	// ticks from a driver that was cancelled after its timer fired.
	stopCh chan struct{}
	runGen uint64

	exited bool
	result domain.SessionResult
}

// New creates a Machine in the configuring phase. A nil audio or notifier
// degrades to silence / no notification.
func New(audio Audio, notifier notify.Dispatcher, options Options) *Machine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}

	id := uuid.New().String()
	m := &Machine{
		id:       id,
		options:  options,
		audio:    audio,
		notifier: notifier,
		logger:   logger.With("session", id[:8]),
		config: domain.SessionConfig{
			DurationMinutes: domain.DefaultSessionMinutes,
			SoundID:         domain.SoundNone,
			Volume:          domain.DefaultVolume,
		},
		state: domain.SessionState{Phase: domain.PhaseConfiguring},
	}
	return m
}

// ID identifies this session in logs and telemetry.
func (m *Machine) ID() string {
	return m.id
}

// Subscribe registers a new observer channel. Channels are closed when the
// session exits; sends never block.
func (m *Machine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	m.mu.Lock()
	m.events = append(m.events, ch)
	m.mu.Unlock()
	return ch
}

// State returns a snapshot of the countdown state.
func (m *Machine) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Config returns a snapshot of the session configuration.
func (m *Machine) Config() domain.SessionConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Task returns the task this session focuses on.
func (m *Machine) Task() domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task
}

// Configure sets duration and sound before the session starts. Duration is
// clamped into the valid range; invalid input maps to the default.
func (m *Machine) Configure(durationMinutes int, soundID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != domain.PhaseIdle && m.state.Phase != domain.PhaseConfiguring {
		return fmt.Errorf("configure: session already %s", m.state.Phase)
	}
	m.state.Phase = domain.PhaseConfiguring
	m.config.DurationMinutes = domain.ClampMinutes(durationMinutes)
	if soundID != "" {
		m.config.SoundID = soundID
	}
	return nil
}

// PreviewSound plays a short sample of the given sound without affecting
// session state.
func (m *Machine) PreviewSound(soundID string) {
	m.mu.Lock()
	volume := m.config.EffectiveVolume()
	audio := m.audio
	m.mu.Unlock()
	if audio != nil {
		audio.Preview(soundID, volume, 0)
	}
}

// Start transitions to Running: the countdown is armed at the configured
// duration, any preview is stopped, and main playback begins.
func (m *Machine) Start(task domain.Task, config domain.SessionConfig) error {
	config.Normalize()

	m.mu.Lock()
	if m.state.Phase != domain.PhaseIdle && m.state.Phase != domain.PhaseConfiguring {
		m.mu.Unlock()
		return fmt.Errorf("start: session already %s", m.state.Phase)
	}
	m.task = task
	m.config = config
	total := config.DurationMinutes * 60
	m.state = domain.SessionState{
		Phase:            domain.PhaseRunning,
		TotalSeconds:     total,
		RemainingSeconds: total,
	}
	m.startDriverLocked()
	audio := m.audio
	m.mu.Unlock()

	if audio != nil {
		audio.StopPreview()
		audio.PlayMain(config.SoundID, config.EffectiveVolume())
	}

	m.emit(EventPhaseChange)
	return nil
}

// Pause freezes the countdown and stops all playback.
func (m *Machine) Pause() error {
	m.mu.Lock()
	if m.state.Phase != domain.PhaseRunning {
		m.mu.Unlock()
		return fmt.Errorf("pause: session is %s", m.state.Phase)
	}
	m.stopDriverLocked()
	m.state.Phase = domain.PhasePaused
	audio := m.audio
	m.mu.Unlock()

	if audio != nil {
		audio.StopAll()
	}
	m.emit(EventPhaseChange)
	return nil
}

// Resume restarts the countdown from the current remaining seconds and
// main playback at the current effective volume. Progress is preserved.
func (m *Machine) Resume() error {
	m.mu.Lock()
	if m.state.Phase != domain.PhasePaused {
		m.mu.Unlock()
		return fmt.Errorf("resume: session is %s", m.state.Phase)
	}
	m.state.Phase = domain.PhaseRunning
	m.startDriverLocked()
	audio := m.audio
	config := m.config
	m.mu.Unlock()

	if audio != nil {
		audio.PlayMain(config.SoundID, config.EffectiveVolume())
	}
	m.emit(EventPhaseChange)
	return nil
}

// Prolong extends an ended session by extraMinutes (default 10) and
// returns it to Running. The extension is additive: elapsed-time
// accounting spans the combined session.
func (m *Machine) Prolong(extraMinutes int) error {
	if extraMinutes <= 0 {
		extraMinutes = domain.DefaultProlongMinutes
	}

	m.mu.Lock()
	if m.state.Phase != domain.PhaseEnded {
		m.mu.Unlock()
		return fmt.Errorf("prolong: session is %s", m.state.Phase)
	}
	extra := extraMinutes * 60
	m.state.TotalSeconds += extra
	m.state.RemainingSeconds += extra
	m.state.Phase = domain.PhaseRunning
	m.startDriverLocked()
	audio := m.audio
	config := m.config
	m.mu.Unlock()

	if audio != nil {
		audio.PlayMain(config.SoundID, config.EffectiveVolume())
	}
	m.emit(EventPhaseChange)
	return nil
}

// SetVolume adjusts the session volume and reapplies it to any active
// playback. Valid in every phase.
func (m *Machine) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	m.mu.Lock()
	m.config.Volume = volume
	effective := m.config.EffectiveVolume()
	audio := m.audio
	m.mu.Unlock()

	if audio != nil {
		audio.SetVolume(effective)
	}
}

// ToggleMute flips the mute flag and reapplies the effective volume.
// Returns the new muted state.
func (m *Machine) ToggleMute() bool {
	m.mu.Lock()
	m.config.Muted = !m.config.Muted
	muted := m.config.Muted
	effective := m.config.EffectiveVolume()
	audio := m.audio
	m.mu.Unlock()

	if audio != nil {
		audio.SetVolume(effective)
	}
	return muted
}

// Exit terminates the session from any phase: the countdown driver is
// cancelled, playback stops, and the elapsed minutes are computed from the
// combined session. Repeat calls return the recorded result unchanged.
func (m *Machine) Exit(markDone bool) domain.SessionResult {
	m.mu.Lock()
	if m.exited {
		result := m.result
		m.mu.Unlock()
		return result
	}
	m.exited = true
	m.stopDriverLocked()
	m.state.Phase = domain.PhaseIdle
	m.result = domain.SessionResult{
		MarkDone:       markDone,
		ElapsedMinutes: m.state.ElapsedMinutes(),
	}
	result := m.result
	audio := m.audio
	events := m.events
	m.events = nil
	m.mu.Unlock()

	if audio != nil {
		audio.StopAll()
	}
	for _, ch := range events {
		close(ch)
	}
	return result
}

func (m *Machine) startDriverLocked() {
	m.stopDriverLocked()
	m.stopCh = make(chan struct{})
	go m.run(m.runGen, m.stopCh)
}

// stopDriverLocked cancels the active countdown driver and invalidates any
// tick of it that already fired but has not yet taken the lock.
func (m *Machine) stopDriverLocked() {
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	m.runGen++
}

func (m *Machine) run(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(m.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !m.tick(gen) {
				return
			}
		}
	}
}

// tick consumes one second of the countdown. It reports whether the driver
// should keep running; a stale generation is discarded without touching
// state.
func (m *Machine) tick(gen uint64) bool {
	m.mu.Lock()

	if gen != m.runGen || m.state.Phase != domain.PhaseRunning {
		m.mu.Unlock()
		return false
	}

	if m.state.RemainingSeconds > 0 {
		m.state.RemainingSeconds--
	}
	if m.state.RemainingSeconds > 0 {
		m.emitLocked(EventProgress)
		m.mu.Unlock()
		return true
	}

	// Natural completion: cancel the driver before the phase changes so no
	// further tick can fire.
	m.stopDriverLocked()
	m.state.Phase = domain.PhaseEnded
	audio := m.audio
	taskTitle := m.task.Title
	m.emitLocked(EventCompleted)
	m.mu.Unlock()

	if audio != nil {
		audio.StopMain()
	}
	go func() {
		if err := m.notifier.SessionEnded(taskTitle); err != nil {
			m.logger.Warn("session: end notification failed", "error", err)
		}
	}()
	return false
}

func (m *Machine) emit(eventType EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitLocked(eventType)
}

func (m *Machine) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Phase:    m.state.Phase,
		State:    m.state,
		Progress: m.state.Progress(),
		At:       time.Now(),
	}
	for _, ch := range m.events {
		select {
		case ch <- event:
		default:
		}
	}
}
