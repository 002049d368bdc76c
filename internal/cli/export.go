package cli

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/storage"
	"github.com/sandeepkv93/tbetodo/internal/views"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type exportSubtask struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	State string `yaml:"state"`
}

type exportTask struct {
	ID         string          `yaml:"id"`
	Title      string          `yaml:"title"`
	State      string          `yaml:"state"`
	Importance string          `yaml:"importance"`
	Subtasks   []exportSubtask `yaml:"subtasks,omitempty"`
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		render bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks to stdout as json, yaml or markdown",
		Long: `Write all tasks to stdout in display order.

The json format is the task document format, so its output can be used as a
document file for either backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.loaded()
			if err != nil {
				return err
			}
			tasks, err := tr.Tasks()
			if err != nil {
				return err
			}
			out, err := exportTasks(tasks, format, render)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, yaml or markdown")
	cmd.Flags().BoolVar(&render, "render", false, "style markdown output for the terminal")
	return cmd
}

func exportTasks(tasks []model.MainTask, format string, render bool) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := storage.EncodeDocument(tasks)
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(toExport(tasks))
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return string(data), nil
	case "markdown", "md":
		md := views.TasksMarkdown(tasks)
		if render {
			return views.RenderMarkdown(md) + "\n", nil
		}
		return md, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", model.ErrInvalidArgument, format)
	}
}

func toExport(tasks []model.MainTask) []exportTask {
	out := make([]exportTask, 0, len(tasks))
	for _, t := range tasks {
		et := exportTask{
			ID:         t.ID,
			Title:      t.Title,
			State:      string(t.State),
			Importance: string(t.Importance),
		}
		for _, s := range t.Subtasks {
			et.Subtasks = append(et.Subtasks, exportSubtask{ID: s.ID, Title: s.Title, State: string(s.State)})
		}
		out = append(out, et)
	}
	return out
}
