package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/models"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	GroupID: "tasks",
	Short:   "Comment on a task or a tag",
}

var commentAddCmd = &cobra.Command{
	Use:   "add MESSAGE",
	Short: "Add a comment",
	Example: `  tasksync comment add "on my way" --task 12
  tasksync comment add "who has the keys?" --tag Home`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, _ := cmd.Flags().GetInt64("task")
		tagName, _ := cmd.Flags().GetString("tag")
		if (taskID == 0) == (tagName == "") {
			return errors.New("exactly one of --task and --tag is required")
		}

		input := models.CommentInput{Message: args[0], TaskID: taskID}
		if tagName != "" {
			group, err := app.Services().TaskService.FindTagGroup(cmd.Context(), tagName)
			if err != nil {
				return err
			}
			input.TagGroupID = group.ID
		}

		var update models.Update
		err := app.Mutate(cmd.Context(), func(ctx context.Context) error {
			var err error
			update, err = app.Services().TaskService.AddComment(ctx, input)
			return err
		})
		if err != nil {
			return err
		}

		ui.Success("Added comment #%d", update.ID)
		return nil
	},
}

func init() {
	commentAddCmd.Flags().Int64("task", 0, "local task id")
	commentAddCmd.Flags().String("tag", "", "tag name")

	commentCmd.AddCommand(commentAddCmd)
	rootCmd.AddCommand(commentCmd)
}
