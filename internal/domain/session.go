package domain

import "math"

// Phase is the lifecycle state of a focus session.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseConfiguring Phase = "configuring"
	PhaseRunning     Phase = "running"
	PhasePaused      Phase = "paused"
	PhaseEnded       Phase = "ended"
)

// Session duration bounds in minutes.
const (
	MinSessionMinutes     = 1
	MaxSessionMinutes     = 480
	DefaultSessionMinutes = 25
)

// DefaultProlongMinutes is added per prolong of an ended session.
const DefaultProlongMinutes = 10

// SoundNone is the silence identifier; selecting it plays nothing.
const SoundNone = "none"

// DefaultVolume is the starting playback volume for new sessions.
const DefaultVolume = 0.7

// SessionConfig is the configuration a focus session starts with.
// Duration and sound are fixed for the session; volume and mute may
// change while it runs.
type SessionConfig struct {
	DurationMinutes int
	SoundID         string
	Volume          float64
	Muted           bool
}

// Normalize clamps the config into valid ranges. Out-of-range or zero
// durations fall back to the default; volume is clamped to [0,1] and an
// empty sound becomes the silence identifier.
func (c *SessionConfig) Normalize() {
	c.DurationMinutes = ClampMinutes(c.DurationMinutes)
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 1 {
		c.Volume = 1
	}
	if c.SoundID == "" {
		c.SoundID = SoundNone
	}
}

// EffectiveVolume is the volume to apply to playback, honoring mute.
func (c SessionConfig) EffectiveVolume() float64 {
	if c.Muted {
		return 0
	}
	return c.Volume
}

// ClampMinutes forces a session duration into [MinSessionMinutes,
// MaxSessionMinutes]. Non-positive input maps to the default.
func ClampMinutes(minutes int) int {
	if minutes <= 0 {
		minutes = DefaultSessionMinutes
	}
	if minutes < MinSessionMinutes {
		return MinSessionMinutes
	}
	if minutes > MaxSessionMinutes {
		return MaxSessionMinutes
	}
	return minutes
}

// SessionState is the externally visible countdown state.
type SessionState struct {
	Phase            Phase
	TotalSeconds     int
	RemainingSeconds int
}

// Progress returns the completed fraction in [0,1], recomputed from the
// authoritative counters.
func (s SessionState) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	p := float64(s.TotalSeconds-s.RemainingSeconds) / float64(s.TotalSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ElapsedMinutes is the consumed session time rounded to whole minutes,
// never negative.
func (s SessionState) ElapsedMinutes() int {
	elapsed := s.TotalSeconds - s.RemainingSeconds
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(elapsed) / 60.0))
}

// SessionResult is emitted once when a session exits.
type SessionResult struct {
	MarkDone       bool
	ElapsedMinutes int
}
