package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/cli/formatter"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change session defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fmt.Println(formatter.Header("Settings"))
			fmt.Printf("%s %d\n", formatter.Dim("default focus minutes"), app.Settings.DefaultFocusMinutes(ctx))
			fmt.Printf("%s %s\n", formatter.Dim("default sound        "), app.Focus.SoundLabel(app.Settings.DefaultSound(ctx)))
			fmt.Printf("%s %d\n", formatter.Dim("daily target minutes "), app.Settings.DailyTarget(ctx))
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetCmd(app))
	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var focusMinutes, target int
	var sound string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			changed := false

			if cmd.Flags().Changed("focus-minutes") {
				saved, err := app.Settings.SetDefaultFocusMinutes(ctx, focusMinutes)
				if err != nil {
					return err
				}
				fmt.Printf("default focus minutes → %d\n", saved)
				changed = true
			}
			if cmd.Flags().Changed("sound") {
				if !soundKnown(app, sound) {
					return fmt.Errorf("unknown sound %q (see: doone sounds)", sound)
				}
				if err := app.Settings.SetDefaultSound(ctx, sound); err != nil {
					return err
				}
				fmt.Printf("default sound → %s\n", app.Focus.SoundLabel(sound))
				changed = true
			}
			if cmd.Flags().Changed("target") {
				saved, err := app.Settings.SetDailyTarget(ctx, target)
				if err != nil {
					return err
				}
				fmt.Printf("daily target → %dm\n", saved)
				changed = true
			}

			if !changed {
				return fmt.Errorf("nothing to change, pass --focus-minutes, --sound or --target")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&focusMinutes, "focus-minutes", 0, "Default session length in minutes")
	cmd.Flags().StringVar(&sound, "sound", "", "Default ambient sound id")
	cmd.Flags().IntVar(&target, "target", 0, "Daily focus target in minutes")
	return cmd
}

func soundKnown(app *App, id string) bool {
	for _, s := range app.Focus.Sounds() {
		if s.ID == id {
			return true
		}
	}
	return false
}
