package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/cli/formatter"
	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/session"
)

func newFocusCmd(app *App) *cobra.Command {
	var minutes int
	var soundID string
	var now bool

	cmd := &cobra.Command{
		Use:   "focus [task]",
		Short: "Run a focus session, optionally against a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("focus needs an interactive terminal")
			}
			ctx := context.Background()

			var task domain.Task
			if len(args) == 1 {
				resolved, err := app.Tasks.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				task = *resolved
			}

			config := app.Focus.DefaultConfig(ctx)
			if cmd.Flags().Changed("minutes") {
				config.DurationMinutes = domain.ClampMinutes(minutes)
			}
			if cmd.Flags().Changed("sound") {
				config.SoundID = soundID
			}

			machine := app.Focus.NewMachine()
			if !now {
				var err error
				config, err = runConfigureForm(app, machine, config)
				if err != nil {
					return err
				}
			}

			events := machine.Subscribe(64)
			if err := machine.Start(task, config); err != nil {
				return err
			}

			model := newFocusModel(app, machine, task, events)
			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if err != nil {
				machine.Exit(false)
				return err
			}

			if m, ok := final.(focusModel); ok {
				printFocusSummary(app, m)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session length in minutes")
	cmd.Flags().StringVar(&soundID, "sound", "", "Ambient sound id (see: doone sounds)")
	cmd.Flags().BoolVar(&now, "now", false, "Skip the configure form and start immediately")
	return cmd
}

// runConfigureForm collects duration and sound, then plays a short sample
// of the chosen sound while the session is still in the configuring phase.
func runConfigureForm(app *App, machine *session.Machine, config domain.SessionConfig) (domain.SessionConfig, error) {
	duration := strconv.Itoa(config.DurationMinutes)
	sound := config.SoundID

	options := make([]huh.Option[string], 0, len(app.Focus.Sounds()))
	for _, s := range app.Focus.Sounds() {
		label := s.Label
		if !s.Free {
			label += " ◆"
		}
		options = append(options, huh.NewOption(label, s.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Duration (minutes)").
				Placeholder(strconv.Itoa(domain.DefaultSessionMinutes)).
				Value(&duration).
				Validate(validateDuration),
			huh.NewSelect[string]().
				Title("Ambient sound").
				Options(options...).
				Value(&sound),
		),
	).WithTheme(doOneHuhTheme()).WithShowHelp(true)

	if err := form.Run(); err != nil {
		return config, err
	}

	config.DurationMinutes = parseMinutes(duration, config.DurationMinutes)
	config.SoundID = sound
	if err := machine.Configure(config.DurationMinutes, config.SoundID); err != nil {
		return config, err
	}
	if sound != domain.SoundNone {
		machine.PreviewSound(sound)
	}
	return config, nil
}

func printFocusSummary(app *App, m focusModel) {
	if m.outcome == nil {
		return
	}
	out := *m.outcome
	if out.MarkedDone {
		fmt.Println(formatter.StyleGreen.Render(fmt.Sprintf("✓ %s done", m.task.Title)))
	}
	if out.MinutesAdded > 0 {
		fmt.Println(formatter.StyleFg.Render(fmt.Sprintf("+%dm focused (%dm today)", out.MinutesAdded, out.DayTotal)))
	}
	if out.Streak > 0 {
		fmt.Println(formatter.FormatStreak(out.Streak))
	}
	if out.Err != nil {
		fmt.Println(formatter.StyleRed.Render("some updates failed: " + out.Err.Error()))
	}
}
