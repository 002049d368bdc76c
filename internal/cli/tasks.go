package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/storage"
	"github.com/sandeepkv93/tbetodo/internal/tracker"
	"github.com/sandeepkv93/tbetodo/internal/views"
	"github.com/spf13/cobra"
)

func notFound(id string) error {
	return fmt.Errorf("%w: no task or subtask with id %q", storage.ErrNotFound, id)
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print tasks and subtasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			tasks, err := tr.Tasks()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%s  %s\n", t.ID, views.TaskLabel(t))
				for _, sub := range t.Subtasks {
					fmt.Fprintf(out, "    %s  %s\n", sub.ID, views.SubtaskLabel(sub))
				}
			}
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var importance string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			task, err := tr.AddTask(cmd.Context(), strings.Join(args, " "), importance)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s  %s\n", task.ID, views.TaskLabel(task))
			return nil
		},
	}
	cmd.Flags().StringVarP(&importance, "importance", "i", "", "critical, high, medium, low or negligible (default medium)")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		title, importance string
		raise, lower      bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or importance of a task, or the title of a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			id := args[0]
			ref, ok := tr.Find(id)
			if !ok {
				return notFound(id)
			}
			titleSet := cmd.Flags().Changed("title")
			impSet := cmd.Flags().Changed("importance")
			if raise && lower {
				return fmt.Errorf("%w: --raise and --lower are exclusive", model.ErrInvalidArgument)
			}
			if !titleSet && !impSet && !raise && !lower {
				return fmt.Errorf("%w: nothing to change", model.ErrInvalidArgument)
			}
			out := cmd.OutOrStdout()

			if ref.IsSubtask {
				if impSet || raise || lower {
					return fmt.Errorf("%w: subtasks have no importance", model.ErrInvalidArgument)
				}
				sub, _, err := tr.UpdateSubtask(cmd.Context(), id, title)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "updated %s  %s\n", sub.ID, views.SubtaskLabel(sub))
				return nil
			}

			task := ref.Task
			if titleSet || impSet {
				var u tracker.TaskUpdate
				if titleSet {
					u.Title = &title
				}
				if impSet {
					u.Importance = &importance
				}
				if task, _, err = tr.UpdateTask(cmd.Context(), id, u); err != nil {
					return err
				}
			}
			if raise || lower {
				if task, _, err = tr.StepImportance(cmd.Context(), id, raise); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "updated %s  %s\n", task.ID, views.TaskLabel(task))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&importance, "importance", "i", "", "new importance")
	cmd.Flags().BoolVar(&raise, "raise", false, "raise importance one step, stopping at critical")
	cmd.Flags().BoolVar(&lower, "lower", false, "lower importance one step, stopping at negligible")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task with its subtasks, or a single subtask",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			return removeEntity(cmd, tr, args[0])
		},
	}
}

func removeEntity(cmd *cobra.Command, tr *tracker.Tracker, id string) error {
	ref, ok := tr.Find(id)
	if !ok {
		return notFound(id)
	}
	if ref.IsSubtask {
		if _, err := tr.RemoveSubtask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed subtask %s\n", id)
		return nil
	}
	if _, err := tr.RemoveTask(cmd.Context(), id); err != nil {
		return err
	}
	removed := "removed task " + id
	if n := len(ref.Task.Subtasks); n > 0 {
		removed += fmt.Sprintf(" and %d subtask(s)", n)
	}
	fmt.Fprintln(cmd.OutOrStdout(), removed)
	return nil
}

type transitionCommand struct {
	use        string
	short      string
	transition model.Transition
}

var transitionCommands = []transitionCommand{
	{use: "next", short: "Advance a task or subtask to its next state", transition: model.TransitionNext},
	{use: "prev", short: "Move a task or subtask back one state", transition: model.TransitionPrev},
	{use: "done", short: "Mark a task or subtask completed", transition: model.TransitionComplete},
	{use: "renew", short: "Reset a task or subtask to new", transition: model.TransitionRenew},
}

func newTransitionCmd(a *app, tc transitionCommand) *cobra.Command {
	return &cobra.Command{
		Use:   tc.use + " <id>",
		Short: tc.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			id := args[0]
			found, err := tr.Transition(cmd.Context(), id, tc.transition)
			if !found && err == nil {
				return notFound(id)
			}
			if err != nil {
				return err
			}
			printEntity(cmd.OutOrStdout(), tr, id)
			return nil
		},
	}
}

func printEntity(w io.Writer, tr *tracker.Tracker, id string) {
	ref, ok := tr.Find(id)
	switch {
	case !ok:
	case ref.IsSubtask:
		fmt.Fprintf(w, "%s  %s\n", ref.Subtask.ID, views.SubtaskLabel(ref.Subtask))
	default:
		fmt.Fprintf(w, "%s  %s\n", ref.Task.ID, views.TaskLabel(ref.Task))
	}
}
