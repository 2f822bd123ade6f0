package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/doone/internal/domain"
)

// FormatTaskLine renders one task row: checkbox, title, dimmed short ID.
func FormatTaskLine(task *domain.Task) string {
	box := StyleDim.Render("[ ]")
	title := StyleFg.Render(task.Title)
	if task.Completed {
		box = StyleGreen.Render("[✓]")
		title = StyleDim.Render(task.Title)
	}
	return fmt.Sprintf("%s %s %s", box, title, StyleDim.Render(task.DisplayID()))
}

// FormatTaskList renders a date's task list with a header and a remaining
// count footer. An empty list renders a dimmed placeholder.
func FormatTaskList(dateKey string, tasks []*domain.Task) string {
	var b strings.Builder
	b.WriteString(Header("Tasks " + dateKey))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(Dim("No tasks yet. Add one with: doone task add \"...\""))
		b.WriteString("\n")
		return b.String()
	}

	var remaining int
	for _, task := range tasks {
		if !task.Completed {
			remaining++
		}
		b.WriteString(FormatTaskLine(task))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if remaining == 0 {
		b.WriteString(StyleGreen.Render("All done ✨"))
	} else {
		b.WriteString(Dim(fmt.Sprintf("%d of %d remaining", remaining, len(tasks))))
	}
	b.WriteString("\n")
	return b.String()
}
