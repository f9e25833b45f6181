package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

const tagCommentLimit = 20

var tagCmd = &cobra.Command{
	Use:     "tag",
	GroupID: "tasks",
	Short:   "Manage shared tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a shared tag",
	Example: `  tasksync tag add Home --member ann@example.com --member "Bob <bob@example.com>"
  tasksync tag add Work --member 42 --notify`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringArray("member")
		notify, _ := cmd.Flags().GetBool("notify")

		members, err := parseMembers(raw)
		if err != nil {
			return err
		}

		var group models.TagGroup
		err = app.Mutate(cmd.Context(), func(ctx context.Context) error {
			group, err = app.Services().TaskService.AddTagGroup(ctx, models.TagGroupInput{
				Name:    args[0],
				Members: members,
				Notify:  notify,
			})
			return err
		})
		if err != nil {
			return err
		}

		ui.Success("Added tag #%s with %d member(s)", group.Name, len(group.Members))
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		groups, err := app.Services().TaskService.ListTagGroups(cmd.Context())
		if err != nil {
			return err
		}

		ui.TagGroups(groups)
		return nil
	},
}

var tagShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a tag with its members and recent comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services := app.Services()

		group, err := services.TaskService.FindTagGroup(ctx, args[0])
		if err != nil {
			return err
		}

		if _, err = services.AuthService.Session(ctx); err == nil {
			fresh, err := services.SyncService.FetchTagGroupDetails(ctx, group)
			if err != nil {
				ui.Error(fmt.Errorf("showing local copy: %w", err))
			} else {
				group = fresh
			}
		} else if !errors.Is(err, service.ErrNotAuthenticated) {
			return err
		}

		comments, err := services.TaskService.ListComments(ctx, group.ID, 0, tagCommentLimit)
		if err != nil {
			return err
		}

		ui.TagGroup(group, comments)
		return nil
	},
}

func init() {
	tagAddCmd.Flags().StringArray("member", nil, `member id, email or "Name <email>", repeatable`)
	tagAddCmd.Flags().Bool("notify", false, "report when the server has saved the tag")

	tagCmd.AddCommand(tagAddCmd, tagListCmd, tagShowCmd)
	rootCmd.AddCommand(tagCmd)
}

// parseMembers accepts a numeric user id, a bare email or "Name <email>".
func parseMembers(raw []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(raw))
	for _, value := range raw {
		if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
			members = append(members, models.Member{ID: id})
			continue
		}

		addr, err := mail.ParseAddress(value)
		if err != nil {
			return nil, fmt.Errorf("invalid member %q: %w", value, err)
		}
		members = append(members, models.Member{Name: addr.Name, Email: addr.Address})
	}
	return members, nil
}
