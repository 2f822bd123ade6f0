package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/cli/formatter"
)

func newStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the consecutive-day focus streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Stats.Report(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatStreak(report.Streak))
			return nil
		},
	}
}
