package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MKhiriev/go-task-sync/models"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	GroupID: "tasks",
	Short:   "Add, edit and list tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a task",
	Example: `  tasksync task add "Buy milk" --due tomorrow --tag Home
  tasksync task add "Call Ann" --due "friday 5pm" --importance 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := taskInputFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		input.Title = &args[0]

		var task models.Task
		err = app.Mutate(cmd.Context(), func(ctx context.Context) error {
			task, err = app.Services().TaskService.AddTask(ctx, input)
			return err
		})
		if err != nil {
			return err
		}

		ui.Success("Added task #%d %q", task.ID, task.Title)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the fields of a task",
	Long:  "Change the fields of a task. Only the flags given are changed and pushed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseLocalID(args[0])
		if err != nil {
			return err
		}
		input, err := taskInputFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			input.Title = &title
		}

		var task models.Task
		err = app.Mutate(cmd.Context(), func(ctx context.Context) error {
			task, err = app.Services().TaskService.EditTask(ctx, id, input)
			return err
		})
		if err != nil {
			return err
		}

		ui.Success("Updated task #%d %q", task.ID, task.Title)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseLocalID(args[0])
		if err != nil {
			return err
		}

		var task models.Task
		err = app.Mutate(cmd.Context(), func(ctx context.Context) error {
			task, err = app.Services().TaskService.CompleteTask(ctx, id)
			return err
		})
		if err != nil {
			return err
		}

		ui.Success("Completed task #%d %q", task.ID, task.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List local tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		all, _ := cmd.Flags().GetBool("all")

		tasks, err := app.Services().TaskService.ListTasks(cmd.Context(), tag, all)
		if err != nil {
			return err
		}

		title := "Tasks"
		if tag != "" {
			title = "Tasks #" + tag
		}
		ui.Tasks(title, tasks)
		return nil
	},
}

var taskPushCmd = &cobra.Command{
	Use:   "push ID",
	Short: "Push every field and tag of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseLocalID(args[0])
		if err != nil {
			return err
		}
		if err = app.Services().SyncService.PushTaskByID(cmd.Context(), id); err != nil {
			return err
		}

		ui.Success("Pushed task #%d", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().String("due", "", `due date, e.g. "2026-06-02", "tomorrow" or "friday 5pm"`)
		c.Flags().String("notes", "", "task notes")
		c.Flags().Int("importance", models.ImportanceNone, "0 must do, 1 high, 2 should do, 3 none")
		c.Flags().StringSlice("tag", nil, "tag name, repeatable")
		c.Flags().String("repeat", "", "recurrence rule")
	}
	taskEditCmd.Flags().String("title", "", "new title")
	taskEditCmd.Flags().Bool("no-due", false, "clear the due date")

	taskListCmd.Flags().String("tag", "", "only tasks with this tag")
	taskListCmd.Flags().Bool("all", false, "include completed tasks")

	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskDoneCmd, taskListCmd, taskPushCmd)
	rootCmd.AddCommand(taskCmd)
}

// taskInputFromFlags fills only the fields whose flags were set, so edit
// produces a minimal change set.
func taskInputFromFlags(fs *pflag.FlagSet) (models.TaskInput, error) {
	var input models.TaskInput

	if fs.Changed("notes") {
		notes, _ := fs.GetString("notes")
		input.Notes = &notes
	}
	if fs.Changed("importance") {
		importance, _ := fs.GetInt("importance")
		input.Importance = &importance
	}
	if fs.Changed("repeat") {
		repeat, _ := fs.GetString("repeat")
		input.Recurrence = &repeat
	}
	if fs.Changed("tag") {
		tags, _ := fs.GetStringSlice("tag")
		input.Tags = append([]string{}, tags...)
	}

	if noDue, _ := fs.GetBool("no-due"); noDue {
		input.Due = &time.Time{}
	} else if fs.Changed("due") {
		text, _ := fs.GetString("due")
		due, hasTime, err := parseDue(text, time.Now())
		if err != nil {
			return models.TaskInput{}, err
		}
		input.Due = &due
		input.DueHasTime = hasTime
	}

	return input, nil
}

func parseLocalID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
