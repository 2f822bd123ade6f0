package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45%.
// The bar is colored by completion: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	bar, style := progressBar(pct, width)
	pctStr := fmt.Sprintf("%3.0f%%", clamp01(pct)*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// RenderIntensity renders a bare intensity bar without the percentage,
// used for the per-day rows on the stats view.
func RenderIntensity(intensity float64, width int) string {
	bar, style := progressBar(intensity, width)
	return style.Render(bar)
}

func progressBar(pct float64, width int) (string, lipgloss.Style) {
	pct = clamp01(pct)
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	s := StyleGreen
	if pct < 0.33 {
		s = StyleRed
	} else if pct < 0.66 {
		s = StyleYellow
	}
	return bar, s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clock formats remaining whole seconds as MM:SS, rolling over to
// H:MM:SS past an hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
