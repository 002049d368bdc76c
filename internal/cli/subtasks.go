package cli

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/views"
	"github.com/spf13/cobra"
)

func newSubCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage subtasks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task-id> <title>",
			Short: "Add a subtask to a task",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tr, err := a.loaded()
				if err != nil {
					return err
				}
				taskID := args[0]
				if ref, ok := tr.Find(taskID); ok && ref.IsSubtask {
					return fmt.Errorf("%w: %s is a subtask; subtasks cannot be nested", model.ErrInvalidArgument, taskID)
				}
				sub, found, err := tr.AddSubtask(cmd.Context(), taskID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if !found {
					return notFound(taskID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s  %s\n", sub.ID, views.SubtaskLabel(sub))
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <id> <title>",
			Short: "Rename a subtask",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tr, err := a.loaded()
				if err != nil {
					return err
				}
				sub, found, err := tr.UpdateSubtask(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if !found {
					return notFound(args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s  %s\n", sub.ID, views.SubtaskLabel(sub))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a subtask",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tr, err := a.loaded()
				if err != nil {
					return err
				}
				if ref, ok := tr.Find(args[0]); !ok || !ref.IsSubtask {
					return notFound(args[0])
				}
				return removeEntity(cmd, tr, args[0])
			},
		},
	)
	return cmd
}
