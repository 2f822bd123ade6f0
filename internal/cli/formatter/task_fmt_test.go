package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/service"
	"github.com/alexanderramin/doone/internal/testutil"
)

func TestFormatTaskLine(t *testing.T) {
	task := testutil.NewTestTask("Write the report")

	line := FormatTaskLine(task)
	assert.Contains(t, line, "[ ]")
	assert.Contains(t, line, "Write the report")
	assert.Contains(t, line, task.DisplayID())

	task.Completed = true
	assert.Contains(t, FormatTaskLine(task), "[✓]")
}

func TestFormatTaskList_Empty(t *testing.T) {
	out := FormatTaskList("2026-03-10", nil)
	assert.Contains(t, out, "TASKS 2026-03-10")
	assert.Contains(t, out, "No tasks yet")
}

func TestFormatTaskList_RemainingFooter(t *testing.T) {
	a := testutil.NewTestTask("a")
	b := testutil.NewTestTask("b", testutil.WithCompleted())

	out := FormatTaskList("2026-03-10", []*domain.Task{a, b})
	assert.Contains(t, out, "1 of 2 remaining")
}

func TestFormatStats(t *testing.T) {
	report := &service.StatsReport{
		Today:   30,
		Week:    90,
		AllTime: 240,
		Target:  60,
		Streak:  3,
		Days: []service.DayStat{
			{DateKey: "2026-03-10", Minutes: 30, Intensity: 0.5},
		},
		Quote: "Deep focus beats long hours.",
	}

	out := FormatStats(report)
	assert.Contains(t, out, "FOCUS STATS")
	assert.Contains(t, out, "Deep focus beats long hours.")
	assert.Contains(t, out, "30/60m")
	assert.Contains(t, out, "7 days   90m")
	assert.Contains(t, out, "All time 240m")
	assert.Contains(t, out, "3 day(s)")
	assert.Contains(t, out, "Tue Mar 10")
}

func TestFormatStreak(t *testing.T) {
	assert.Contains(t, FormatStreak(0), "No streak yet")
	assert.Contains(t, FormatStreak(4), "4 day streak")
}
