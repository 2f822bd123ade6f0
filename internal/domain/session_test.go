package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampMinutes(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero maps to default", 0, 25},
		{"negative maps to default", -5, 25},
		{"below range", 1, 1},
		{"in range", 90, 90},
		{"upper bound", 480, 480},
		{"above range", 481, 480},
		{"far above range", 100000, 480},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampMinutes(tc.in))
		})
	}
}

func TestSessionConfigNormalize(t *testing.T) {
	c := SessionConfig{DurationMinutes: 900, SoundID: "", Volume: 1.7}
	c.Normalize()
	assert.Equal(t, 480, c.DurationMinutes)
	assert.Equal(t, SoundNone, c.SoundID)
	assert.Equal(t, 1.0, c.Volume)

	c = SessionConfig{DurationMinutes: -1, SoundID: "rain", Volume: -0.2}
	c.Normalize()
	assert.Equal(t, 25, c.DurationMinutes)
	assert.Equal(t, "rain", c.SoundID)
	assert.Equal(t, 0.0, c.Volume)
}

func TestEffectiveVolume(t *testing.T) {
	c := SessionConfig{Volume: 0.7}
	assert.Equal(t, 0.7, c.EffectiveVolume())
	c.Muted = true
	assert.Equal(t, 0.0, c.EffectiveVolume())
}

func TestSessionStateProgress(t *testing.T) {
	s := SessionState{TotalSeconds: 1500, RemainingSeconds: 1500}
	assert.Equal(t, 0.0, s.Progress())

	s.RemainingSeconds = 750
	assert.InDelta(t, 0.5, s.Progress(), 1e-9)

	s.RemainingSeconds = 0
	assert.Equal(t, 1.0, s.Progress())

	// Degenerate totals never divide by zero.
	assert.Equal(t, 0.0, SessionState{}.Progress())
}

func TestElapsedMinutes(t *testing.T) {
	// Fresh session: nothing elapsed.
	s := SessionState{TotalSeconds: 1500, RemainingSeconds: 1500}
	assert.Equal(t, 0, s.ElapsedMinutes())

	// 1230s consumed rounds to 21 minutes.
	s.RemainingSeconds = 270
	assert.Equal(t, 21, s.ElapsedMinutes())

	// 90s consumed rounds up to 2 minutes.
	s = SessionState{TotalSeconds: 1500, RemainingSeconds: 1410}
	assert.Equal(t, 2, s.ElapsedMinutes())

	// Remaining beyond total clamps to zero, never negative.
	s = SessionState{TotalSeconds: 60, RemainingSeconds: 120}
	assert.Equal(t, 0, s.ElapsedMinutes())
}
