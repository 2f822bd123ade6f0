package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress_Bounds(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{"zero", 0, "  0%"},
		{"half", 0.5, " 50%"},
		{"full", 1, "100%"},
		{"below range", -0.3, "  0%"},
		{"above range", 1.7, "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, 10)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestRenderProgress_FillCount(t *testing.T) {
	got := RenderProgress(0.5, 10)
	assert.Equal(t, 5, strings.Count(got, filledBlock))
	assert.Equal(t, 5, strings.Count(got, emptyBlock))
}

func TestRenderIntensity_NoPercentage(t *testing.T) {
	got := RenderIntensity(0.25, 8)
	assert.Equal(t, 2, strings.Count(got, filledBlock))
	assert.NotContains(t, got, "%")
}

func TestClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1499, "24:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Clock(tt.seconds))
	}
}
