package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tbetodo/internal/commands"
	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/tracker"
	"github.com/sandeepkv93/tbetodo/internal/views"
)

var errNoSelection = errors.New("nothing selected")

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.CommandActive {
			return m.handleCommandKey(typed)
		}
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		width := typed.Width/2 - 4
		if width > 0 {
			m.taskList.SetWidth(width)
			m.subtaskList.SetWidth(width)
			m.cfg.PaneWidth = width
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	case RefreshMsg:
		return m, m.refresh()
	case SelectMsg:
		return m, m.selectEntity(typed.ID)
	case CommandMsg:
		return m, m.runCommand(typed.Input)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Command, "/":
		m.CommandActive = true
		m.commandInput.SetValue("")
		return m, m.commandInput.Focus()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Switch:
		if m.Focus == PaneTasks && m.subtaskRows.Len() > 0 {
			m.Focus = PaneSubtasks
		} else {
			m.Focus = PaneTasks
		}
		return m, nil
	case m.Keys.Up, "up":
		return m, m.moveCursor(-1)
	case m.Keys.Down, "down":
		return m, m.moveCursor(1)
	case m.Keys.Next:
		return m, m.runCommand("next")
	case m.Keys.Prev:
		return m, m.runCommand("prev")
	case m.Keys.Done:
		return m, m.runCommand("done")
	case m.Keys.Renew:
		return m, m.runCommand("renew")
	case m.Keys.Remove:
		return m, m.runCommand("rm")
	}
	return m, nil
}

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.CommandActive = false
		m.commandInput.Blur()
		return m, nil
	case tea.KeyEnter:
		input := m.commandInput.Value()
		m.CommandActive = false
		m.commandInput.Blur()
		m.commandInput.SetValue("")
		return m, m.runCommand(input)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

// moveCursor moves the focused list's cursor by delta rows and records the
// new selection. Moving in the task list reloads the subtask list.
func (m *Model) moveCursor(delta int) tea.Cmd {
	if m.Focus == PaneSubtasks {
		if m.subtaskRows.SelectIndex(m.subtaskRows.SelectedIndex() + delta) {
			m.subtaskList.Select(m.subtaskRows.SelectedIndex())
		}
		return nil
	}
	if m.taskRows.SelectIndex(m.taskRows.SelectedIndex() + delta) {
		m.taskList.Select(m.taskRows.SelectedIndex())
		return m.refresh()
	}
	return nil
}

func (m *Model) runCommand(input string) tea.Cmd {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.setError(err)
		return nil
	}
	var selectID string
	res, err := commands.Execute(cmd, m.handlers(&selectID))
	if err != nil {
		m.setError(err)
		return m.refresh()
	}
	m.LastError = nil
	m.setStatus(res.Message)
	if selectID != "" {
		return m.selectEntity(selectID)
	}
	return m.refresh()
}

// handlers binds each command to a tracker call on the current selection.
// Handlers that create an entity store its id in selectID.
func (m *Model) handlers(selectID *string) commands.Handlers {
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.tracker.AddTask(m.ctx, a.Title, a.Importance)
			if err != nil {
				return commands.Result{}, err
			}
			*selectID = task.ID
			return commands.Result{Message: "added " + task.Title}, nil
		},
		Sub: func(a commands.SubArgs) (commands.Result, error) {
			sub, found, err := m.tracker.AddSubtask(m.ctx, m.SelectedTaskID(), a.Title)
			if err != nil {
				return commands.Result{}, err
			}
			if !found {
				return commands.Result{}, errNoSelection
			}
			*selectID = sub.ID
			return commands.Result{Message: "added subtask " + sub.Title}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			ref, ok := m.tracker.Find(m.SelectedID())
			if !ok {
				return commands.Result{}, errNoSelection
			}
			if ref.IsSubtask {
				_, _, err := m.tracker.UpdateSubtask(m.ctx, ref.Subtask.ID, a.Title)
				return commands.Result{Message: "renamed subtask"}, err
			}
			_, _, err := m.tracker.UpdateTask(m.ctx, ref.Task.ID, tracker.TaskUpdate{Title: &a.Title})
			return commands.Result{Message: "renamed task"}, err
		},
		Importance: func(a commands.ImportanceArgs) (commands.Result, error) {
			id := m.SelectedTaskID()
			if id == "" {
				return commands.Result{}, errNoSelection
			}
			var (
				task model.MainTask
				err  error
			)
			if a.Step != 0 {
				task, _, err = m.tracker.StepImportance(m.ctx, id, a.Step > 0)
			} else {
				task, _, err = m.tracker.UpdateTask(m.ctx, id, tracker.TaskUpdate{Importance: &a.Value})
			}
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "importance " + views.ImportanceName(task.Importance)}, nil
		},
		Transition: func(a commands.TransitionArgs) (commands.Result, error) {
			id := m.SelectedID()
			if id == "" {
				return commands.Result{}, errNoSelection
			}
			tr, err := model.ParseTransition(a.Transition)
			if err != nil {
				return commands.Result{}, err
			}
			found, err := m.tracker.Transition(m.ctx, id, tr)
			if err != nil {
				return commands.Result{}, err
			}
			if !found {
				return commands.Result{}, errNoSelection
			}
			return commands.Result{Message: string(tr)}, nil
		},
		Remove: func() (commands.Result, error) {
			ref, ok := m.tracker.Find(m.SelectedID())
			if !ok {
				return commands.Result{}, errNoSelection
			}
			if ref.IsSubtask {
				_, err := m.tracker.RemoveSubtask(m.ctx, ref.Subtask.ID)
				return commands.Result{Message: "removed subtask " + ref.Subtask.Title}, err
			}
			_, err := m.tracker.RemoveTask(m.ctx, ref.Task.ID)
			return commands.Result{Message: "removed " + ref.Task.Title}, err
		},
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	footer := fmt.Sprintf("keys: %s/%s move | %s pane | %s next | %s prev | %s done | %s renew | %s delete | %s command | %s help | %s quit",
		m.Keys.Up, m.Keys.Down, m.Keys.Switch, m.Keys.Next, m.Keys.Prev, m.Keys.Done, m.Keys.Renew, m.Keys.Remove, m.Keys.Command, m.Keys.Help, m.Keys.Quit)
	if m.HelpVisible {
		footer = strings.Join([]string{
			footer,
			"commands: add <title> [!importance] | sub <title> | edit <title> | imp <importance|+|-> | next | prev | done | renew | rm",
		}, "\n")
	}
	commandLine := views.RenderCommandLine(m.CommandActive, m.commandInput.View())
	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("tbetodo | %d tasks | focus: %s", m.tracker.Len(), m.Focus),
		LeftPane:    m.taskList.View(),
		RightPane:   m.subtaskList.View(),
		Detail:      m.renderDetail(),
		StatusLine:  status,
		StatusError: m.Status.IsError,
		CommandLine: commandLine,
		Footer:      footer,
		PaneWidth:   m.cfg.PaneWidth,
	})
}

func (m Model) renderDetail() string {
	ref, ok := m.tracker.Find(m.SelectedID())
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	if ref.IsSubtask {
		return views.RenderDetail(views.DetailData{
			ID:         ref.Subtask.ID,
			Title:      ref.Subtask.Title,
			State:      ref.Subtask.State,
			IsSubtask:  true,
			ParentName: ref.Task.Title,
		})
	}
	done := 0
	for _, sub := range ref.Task.Subtasks {
		if sub.IsCompleted() {
			done++
		}
	}
	return views.RenderDetail(views.DetailData{
		ID:         ref.Task.ID,
		Title:      ref.Task.Title,
		State:      ref.Task.State,
		Importance: ref.Task.Importance,
		Done:       done,
		Total:      len(ref.Task.Subtasks),
	})
}
