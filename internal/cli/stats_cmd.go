package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/cli/formatter"
)

func newStatsCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus minutes, target progress and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			render := func() error {
				report, err := app.Stats.Report(ctx)
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatStats(report))
				return nil
			}

			if err := render(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			// Re-render on every ledger or target change until interrupted.
			updates := make(chan struct{}, 1)
			unsubscribe := app.Stats.Subscribe(func() {
				select {
				case updates <- struct{}{}:
				default:
				}
			})
			defer unsubscribe()

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println(formatter.Dim("\nwatching for changes, ctrl+c to stop"))
			for {
				select {
				case <-sigCtx.Done():
					return nil
				case <-updates:
					fmt.Println()
					if err := render(); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep the view open and refresh on changes")
	return cmd
}
