package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/service"
)

const intensityBarWidth = 12

// FormatStats renders the stats report: quote, totals, streak and the
// per-day history with intensity bars.
func FormatStats(report *service.StatsReport) string {
	var b strings.Builder

	b.WriteString(Header("Focus Stats"))
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("“" + report.Quote + "”"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s  %s\n",
		Bold(fmt.Sprintf("Today    %d/%dm", report.Today, report.Target)),
		RenderProgress(intensityValue(report.Today, report.Target), intensityBarWidth)))
	b.WriteString(fmt.Sprintf("%s\n", StyleFg.Render(fmt.Sprintf("7 days   %dm", report.Week))))
	b.WriteString(fmt.Sprintf("%s\n", StyleFg.Render(fmt.Sprintf("All time %dm", report.AllTime))))

	if report.Streak > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("Streak   %d day(s) 🔥", report.Streak)))
		b.WriteString("\n")
	}

	if len(report.Days) > 0 {
		now := time.Now()
		b.WriteString("\n")
		b.WriteString(Dim("History"))
		b.WriteString("\n")
		for _, day := range report.Days {
			b.WriteString(fmt.Sprintf("  %s  %s %s\n",
				StyleFg.Render(fmt.Sprintf("%-10s", RelativeDay(day.DateKey, now))),
				RenderIntensity(day.Intensity, intensityBarWidth),
				Dim(fmt.Sprintf("%dm", day.Minutes))))
		}
	}

	return b.String()
}

// FormatStreak renders the standalone streak line.
func FormatStreak(days int) string {
	if days <= 0 {
		return Dim("No streak yet. Finish a focus session to start one.")
	}
	return StyleYellow.Render(fmt.Sprintf("🔥 %d day streak", days))
}

// dayLabel renders a date key like "Tue Mar 10", falling back to the raw
// key when it does not parse.
func dayLabel(dateKey string) string {
	t, err := domain.ParseDateKey(dateKey)
	if err != nil {
		return dateKey
	}
	return t.Format("Mon Jan 2")
}

func intensityValue(minutes, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(minutes) / float64(target)
}

// RelativeDay renders Today/Yesterday for recent keys, otherwise the
// weekday label.
func RelativeDay(dateKey string, now time.Time) string {
	switch dateKey {
	case domain.DateKey(now):
		return "Today"
	case domain.DateKey(now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return dayLabel(dateKey)
	}
}
