package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
)

// DetailData describes the entity under the cursor for the detail pane.
type DetailData struct {
	ID         string
	Title      string
	State      model.State
	Importance model.Importance
	IsSubtask  bool
	ParentName string
	Done       int
	Total      int
}

func RenderDetail(data DetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("state: %s\n", StateName(data.State)))
	if data.IsSubtask {
		b.WriteString(fmt.Sprintf("task: %s\n", data.ParentName))
	} else {
		b.WriteString(fmt.Sprintf("importance: %s\n", ImportanceName(data.Importance)))
		b.WriteString(fmt.Sprintf("subtasks: %d/%d done\n", data.Done, data.Total))
	}
	b.WriteString(fmt.Sprintf("id: %s", data.ID))
	return b.String()
}

func RenderCommandLine(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

// TasksMarkdown renders tasks as a markdown checklist, one heading per task.
// Tasks are rendered in the order given.
func TasksMarkdown(tasks []model.MainTask) string {
	if len(tasks) == 0 {
		return "_No tasks._\n"
	}
	var b strings.Builder
	b.WriteString("# Tasks\n")
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("\n## %s %s\n\n", checkbox(t.State), t.Title))
		b.WriteString(fmt.Sprintf("*%s* · %s\n", ImportanceName(t.Importance), StateName(t.State)))
		if len(t.Subtasks) == 0 {
			continue
		}
		b.WriteString("\n")
		for _, sub := range t.Subtasks {
			b.WriteString(fmt.Sprintf("- %s %s (%s)\n", checkbox(sub.State), sub.Title, StateName(sub.State)))
		}
	}
	return b.String()
}

func checkbox(s model.State) string {
	if s.IsCompleted() {
		return "[x]"
	}
	return "[ ]"
}
