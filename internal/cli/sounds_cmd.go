package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/audio"
	"github.com/alexanderramin/doone/internal/cli/formatter"
	"github.com/alexanderramin/doone/internal/domain"
)

func newSoundsCmd(app *App) *cobra.Command {
	var preview string

	cmd := &cobra.Command{
		Use:   "sounds",
		Short: "List ambient sounds, optionally previewing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if preview != "" {
				return previewSound(app, preview)
			}

			fmt.Println(formatter.Header("Sounds"))
			for _, s := range app.Focus.Sounds() {
				marker := formatter.StyleGreen.Render("●")
				if !s.Free {
					marker = formatter.StylePurple.Render("◆")
				}
				fmt.Printf("%s %-12s %s\n", marker, s.ID, formatter.Dim(s.Label))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&preview, "preview", "", "Play a short sample of the given sound id")
	return cmd
}

// previewSound plays a sample through a throwaway configuring session, so
// the playback path is the same one a real session uses.
func previewSound(app *App, id string) error {
	if id == domain.SoundNone {
		return fmt.Errorf("nothing to preview for %q: it plays silence", domain.SoundNone)
	}
	if !soundKnown(app, id) {
		return fmt.Errorf("unknown sound %q", id)
	}

	machine := app.Focus.NewMachine()
	defer machine.Exit(false)

	machine.PreviewSound(id)
	fmt.Printf("Previewing %s...\n", app.Focus.SoundLabel(id))
	time.Sleep(audio.DefaultPreviewDuration)
	return nil
}
