package update

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/reconcile"
	"github.com/sandeepkv93/tbetodo/internal/tracker"
	"github.com/sandeepkv93/tbetodo/internal/views"
)

type Pane string

const (
	PaneTasks    Pane = "tasks"
	PaneSubtasks Pane = "subtasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up      string
	Down    string
	Switch  string
	Command string
	Next    string
	Prev    string
	Done    string
	Renew   string
	Remove  string
	Help    string
	Quit    string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      "k",
		Down:    "j",
		Switch:  "tab",
		Command: ":",
		Next:    "l",
		Prev:    "h",
		Done:    "x",
		Renew:   "r",
		Remove:  "d",
		Help:    "?",
		Quit:    "q",
	}
}

// Model is the terminal front-end. It holds no task state of its own: every
// edit goes to the tracker, and both lists are refreshed from the tracker's
// sorted snapshot through reconcile.
type Model struct {
	Focus         Pane
	Status        StatusBar
	Keys          KeyMap
	HelpVisible   bool
	CommandActive bool
	Quitting      bool
	LastError     error

	ctx          context.Context
	tracker      *tracker.Tracker
	cfg          RuntimeConfig
	taskRows     *reconcile.List[string, model.MainTask]
	subtaskRows  *reconcile.List[string, model.Task]
	taskList     list.Model
	subtaskList  list.Model
	commandInput textinput.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// RefreshMsg asks the model to resync both lists with the tracker.
type RefreshMsg struct{}

// SelectMsg moves the cursor to the task or subtask with ID.
type SelectMsg struct {
	ID string
}

// CommandMsg runs a command line as if it had been typed.
type CommandMsg struct {
	Input string
}

func NewModel(ctx context.Context, tr *tracker.Tracker, cfg RuntimeConfig) Model {
	cfg = cfg.withDefaults()
	m := Model{
		Focus:       PaneTasks,
		Keys:        DefaultKeyMap(),
		ctx:         ctx,
		tracker:     tr,
		cfg:         cfg,
		taskRows:    reconcile.NewList(views.TaskKey, views.TaskLabel),
		subtaskRows: reconcile.NewList(views.SubtaskKey, views.SubtaskLabel),
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = views.NewList("Tasks", m.cfg.PaneWidth, m.cfg.ListHeight)
	m.subtaskList = views.NewList("Subtasks", m.cfg.PaneWidth, m.cfg.ListHeight)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = m.cfg.PaneWidth
	m.commandInput.Placeholder = "add <title> [!importance]"
}

// SelectedTaskID is the task under the task cursor.
func (m Model) SelectedTaskID() string {
	return m.taskRows.Selected()
}

// SelectedID is the entity commands act on: the subtask under the cursor when
// the subtask pane has focus, otherwise the selected task.
func (m Model) SelectedID() string {
	if m.Focus == PaneSubtasks {
		if id := m.subtaskRows.Selected(); id != "" {
			return id
		}
	}
	return m.taskRows.Selected()
}

// Rows returns the displayed task and subtask rows.
func (m Model) Rows() ([]reconcile.Entry[string], []reconcile.Entry[string]) {
	return m.taskRows.Entries(), m.subtaskRows.Entries()
}

// refresh pulls a sorted snapshot from the tracker and reconciles both lists
// against it. The subtask list always shows the selected task's subtasks.
func (m *Model) refresh() tea.Cmd {
	tasks, err := m.tracker.Tasks()
	if err != nil {
		m.setError(err)
		return nil
	}
	res, err := m.taskRows.Sync(tasks)
	if err != nil {
		m.setError(err)
		return nil
	}
	taskCmd := views.ApplyPlan(&m.taskList, res)

	subs, _ := m.tracker.Subtasks(m.taskRows.Selected())
	subRes, err := m.subtaskRows.Sync(subs)
	if err != nil {
		m.setError(err)
		return taskCmd
	}
	subCmd := views.ApplyPlan(&m.subtaskList, subRes)
	if m.Focus == PaneSubtasks && len(subs) == 0 {
		m.Focus = PaneTasks
	}
	return tea.Batch(taskCmd, subCmd)
}

// selectEntity moves the cursor to id, switching panes if id is a subtask.
func (m *Model) selectEntity(id string) tea.Cmd {
	ref, ok := m.tracker.Find(id)
	if !ok {
		return nil
	}
	m.taskRows.Select(ref.Task.ID)
	cmd := m.refresh()
	if ref.IsSubtask {
		m.subtaskRows.Select(ref.Subtask.ID)
		m.Focus = PaneSubtasks
	} else {
		m.Focus = PaneTasks
	}
	return tea.Batch(cmd, m.refresh())
}

func (m *Model) setStatus(text string) {
	m.Status = StatusBar{Text: text}
}

func (m *Model) setError(err error) {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
}

// WithError returns m showing err in the status bar, for failures that happen
// before the program starts.
func (m Model) WithError(err error) Model {
	m.setError(err)
	return m
}
