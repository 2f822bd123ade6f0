package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/doone/internal/cli/formatter"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the daily task list",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
		newTaskRenameCmd(app),
		newTaskRemoveCmd(app),
		newTaskMoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	date := &dateValue{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the top of a day's list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			task, err := app.Tasks.Add(ctx, strings.Join(args, " "), date.Key())
			if err != nil {
				return err
			}

			fmt.Printf("Added %s (%s)\n", task.Title, task.DisplayID())
			return nil
		},
	}

	cmd.Flags().Var(date, "date", "Day to add to (YYYY-MM-DD, today, yesterday, tomorrow)")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	date := &dateValue{}
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if all {
				tasks, err := app.Tasks.ListAll(ctx)
				if err != nil {
					return err
				}
				for _, task := range tasks {
					fmt.Printf("%s %s\n", formatter.Dim(task.CreatedDate), formatter.FormatTaskLine(task))
				}
				return nil
			}

			dateKey := date.Key()
			tasks, err := app.Tasks.ListByDate(ctx, dateKey)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskList(dateKey, tasks))
			return nil
		},
	}

	cmd.Flags().Var(date, "date", "Day to list (YYYY-MM-DD, today, yesterday, tomorrow)")
	cmd.Flags().BoolVar(&all, "all", false, "List every task across days")
	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			task, err := app.Tasks.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			task, err = app.Tasks.Toggle(ctx, task.ID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatTaskLine(task))
			if remaining, err := app.Tasks.RemainingCount(ctx, task.CreatedDate); err == nil {
				if remaining == 0 {
					fmt.Println(formatter.Dim("All done for " + task.CreatedDate))
				} else {
					fmt.Println(formatter.Dim(fmt.Sprintf("%d remaining on %s", remaining, task.CreatedDate)))
				}
			}
			return nil
		},
	}
}

func newTaskRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <task> <title>",
		Short: "Rename a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			task, err := app.Tasks.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			task, err = app.Tasks.Rename(ctx, task.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Renamed to %s\n", task.Title)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			task, err := app.Tasks.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Remove(ctx, task.ID); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", task.Title)
			return nil
		},
	}
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "mv <task> <top|bottom|N>",
		Aliases: []string{"move"},
		Short:   "Move a task within its day",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			task, err := app.Tasks.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			where := strings.ToLower(args[1])
			switch {
			case where == "top":
				err = app.Tasks.MoveToTop(ctx, task.ID)
			case where == "bottom":
				err = app.Tasks.MoveToBottom(ctx, task.ID)
			default:
				index, convErr := strconv.Atoi(where)
				if convErr != nil {
					return fmt.Errorf("unknown position %q (want top, bottom, or a number)", args[1])
				}
				err = app.Tasks.MoveToIndex(ctx, task.ID, index)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Moved %s to %s\n", task.Title, where)
			return nil
		},
	}
}
