package update

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tbetodo/internal/logging"
	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/storage"
	"github.com/sandeepkv93/tbetodo/internal/tracker"
	"github.com/spf13/afero"
)

func newTestModel(t *testing.T) (Model, *tracker.Tracker) {
	t.Helper()
	store := storage.NewDocumentStore(afero.NewMemMapFs(), "todo_list.json", logging.Discard())
	tr := tracker.New(store, logging.Discard())
	if err := tr.Load(testContext(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return NewModel(testContext(t), tr, RuntimeConfig{}), tr
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	return next
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func rowKeys(m Model) []string {
	tasks, _ := m.Rows()
	out := make([]string, 0, len(tasks))
	for _, e := range tasks {
		out = append(out, e.Text)
	}
	return out
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Focus != PaneTasks {
		t.Fatalf("expected task pane focus, got %q", m.Focus)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.SelectedID() != "" {
		t.Fatalf("expected no selection, got %q", m.SelectedID())
	}
	if m.cfg.PaneWidth != DefaultRuntimeConfig().PaneWidth {
		t.Fatalf("expected default pane width, got %d", m.cfg.PaneWidth)
	}
}

func TestCommandsAddAndOrderTasks(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "add A !low"})
	m = send(t, m, CommandMsg{Input: "add B !critical"})
	m = send(t, m, CommandMsg{Input: "add C !low"})

	got := rowKeys(m)
	want := []string{"[ ] B (C)", "[ ] A (L)", "[ ] C (L)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	ref, _ := m.tracker.Find(m.SelectedID())
	if ref.Task.Title != "C" {
		t.Fatalf("expected the last added task selected, got %q", ref.Task.Title)
	}
}

func TestSelectionSurvivesResort(t *testing.T) {
	m, tr := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "add first !high"})
	m = send(t, m, CommandMsg{Input: "add second !high"})
	tasks, err := tr.Tasks()
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	first := tasks[0].ID

	m = send(t, m, SelectMsg{ID: first})
	m = send(t, m, key('x'))
	if m.SelectedID() != first {
		t.Fatalf("selection should follow the completed task, got %q", m.SelectedID())
	}
	rows := rowKeys(m)
	if rows[len(rows)-1] != "[x] first (H)" {
		t.Fatalf("completed task should sort last, rows = %v", rows)
	}
}

func TestTransitionKeysAndSubtasks(t *testing.T) {
	m, tr := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "add parent"})
	m = send(t, m, CommandMsg{Input: "sub child one"})
	if m.Focus != PaneSubtasks {
		t.Fatalf("expected subtask focus after sub, got %q", m.Focus)
	}
	child := m.SelectedID()
	m = send(t, m, key('l'))
	m = send(t, m, key('l'))

	ref, ok := tr.Find(child)
	if !ok || !ref.IsSubtask || ref.Subtask.State != model.StateFinalising {
		t.Fatalf("expected finalising subtask, got %+v", ref)
	}

	m = send(t, m, CommandMsg{Input: "edit child renamed"})
	_, subs := m.Rows()
	if len(subs) != 1 || subs[0].Text != "[+] child renamed" {
		t.Fatalf("unexpected subtask rows: %+v", subs)
	}

	m = send(t, m, key('d'))
	if _, ok := tr.Find(child); ok {
		t.Fatal("expected subtask removed")
	}
	if m.Focus != PaneTasks {
		t.Fatalf("focus should fall back to tasks when no subtasks remain, got %q", m.Focus)
	}
}

func TestImportanceCommand(t *testing.T) {
	m, tr := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "add thing !medium"})
	id := m.SelectedTaskID()
	m = send(t, m, CommandMsg{Input: "imp +"})
	task, _ := tr.Task(id)
	if task.Importance != model.ImportanceHigh {
		t.Fatalf("expected high, got %s", task.Importance)
	}
	m = send(t, m, CommandMsg{Input: "imp n"})
	task, _ = tr.Task(id)
	if task.Importance != model.ImportanceNegligible {
		t.Fatalf("expected negligible, got %s", task.Importance)
	}
	if m.Status.Text != "importance Negligible" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestCommandErrorsReachStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "bogus"})
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	m = send(t, m, CommandMsg{Input: "done"})
	if !errors.Is(m.LastError, errNoSelection) {
		t.Fatalf("expected no selection error, got %v", m.LastError)
	}
	m = send(t, m, CommandMsg{Input: "add x !urgent"})
	if !errors.Is(m.LastError, model.ErrInvalidImportance) {
		t.Fatalf("expected invalid importance, got %v", m.LastError)
	}
}

func TestCommandLineTyping(t *testing.T) {
	m, tr := newTestModel(t)
	m = send(t, m, key(':'))
	if !m.CommandActive {
		t.Fatal("expected command line active")
	}
	for _, r := range "add typed" {
		m = send(t, m, key(r))
	}
	if !strings.Contains(m.View(), "command: :add typed") {
		t.Fatalf("expected command line in view:\n%s", m.View())
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CommandActive {
		t.Fatal("expected command line closed after enter")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected one task, got %d", tr.Len())
	}

	m = send(t, m, key(':'))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.CommandActive {
		t.Fatal("expected command line closed after esc")
	}
	if strings.Contains(m.View(), "command:") {
		t.Fatalf("expected no command line after esc:\n%s", m.View())
	}
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, CommandMsg{Input: "add one"})
	m = send(t, m, CommandMsg{Input: "add two"})
	m = send(t, m, SelectMsg{ID: m.taskRows.Entries()[0].Key})

	m = send(t, m, key('j'))
	if m.taskRows.SelectedIndex() != 1 {
		t.Fatalf("expected cursor on row 1, got %d", m.taskRows.SelectedIndex())
	}
	m = send(t, m, key('j'))
	if m.taskRows.SelectedIndex() != 1 {
		t.Fatalf("cursor should stop at the last row, got %d", m.taskRows.SelectedIndex())
	}
	m = send(t, m, key('k'))
	if m.taskRows.SelectedIndex() != 0 {
		t.Fatalf("expected cursor on row 0, got %d", m.taskRows.SelectedIndex())
	}
}

func TestUpdateStatusAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if !m.Status.IsError || m.LastError.Error() != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	m = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}

	m = send(t, m, key('?'))
	if !m.HelpVisible || !strings.Contains(m.View(), "commands:") {
		t.Fatal("expected help in view")
	}

	updated, cmd := m.Update(key('q'))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestWithErrorShowsStartupFailure(t *testing.T) {
	m, _ := newTestModel(t)
	m = m.WithError(errors.New("disk on fire"))
	if !m.Status.IsError || m.Status.Text != "disk on fire" {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	if !strings.Contains(m.View(), "disk on fire") {
		t.Fatalf("expected status in view:\n%s", m.View())
	}
}
