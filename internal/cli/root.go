package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/service"
	"github.com/alexanderramin/doone/internal/settings"
)

// App holds references to the services used by CLI commands.
type App struct {
	Tasks    service.TaskService
	Focus    service.FocusService
	Stats    service.StatsService
	Settings *settings.Store

	// IsInteractive reports whether stdin is a terminal; the focus view
	// refuses to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "doone" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "doone",
		Short: "Daily tasks, focus sessions and streaks",
	}

	root.AddCommand(
		newTaskCmd(app),
		newFocusCmd(app),
		newStatsCmd(app),
		newStreakCmd(app),
		newSettingsCmd(app),
		newSoundsCmd(app),
	)

	return root
}
