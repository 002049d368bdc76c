// Package tracker owns the authoritative task collection for the lifetime of
// the process. Front-ends read sorted snapshots from it and send it edits;
// every edit is persisted before the call returns.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/sandeepkv93/tbetodo/internal/ordering"
	"github.com/sandeepkv93/tbetodo/internal/storage"
)

// DefaultImportance is used when a task is added without one.
const DefaultImportance = model.ImportanceMedium

type Tracker struct {
	store  storage.Store
	logger *slog.Logger
	// tasks is kept in insertion order; presentation order comes from ordering.
	tasks []model.MainTask
}

type TaskUpdate struct {
	Title      *string
	Importance *string
}

// Ref is the result of Find. Subtask is set only when IsSubtask is true, and
// Task is then the subtask's owner.
type Ref struct {
	Task      model.MainTask
	Subtask   model.Task
	IsSubtask bool
}

func (r Ref) ID() string {
	if r.IsSubtask {
		return r.Subtask.ID
	}
	return r.Task.ID
}

func New(store storage.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, logger: logger}
}

// Load replaces the collection with the store's content. On failure the
// collection is left empty and the error is returned; the tracker stays
// usable.
func (t *Tracker) Load(ctx context.Context) error {
	tasks, err := t.store.Load(ctx)
	if err != nil {
		t.tasks = nil
		t.logger.Warn("could not load tasks, starting with an empty list", "error", err)
		return err
	}
	t.tasks = tasks
	t.logger.Debug("loaded tasks", "count", len(tasks))
	return nil
}

func (t *Tracker) Len() int {
	return len(t.tasks)
}

// Tasks returns a sorted copy of the collection with each task's subtasks
// sorted as well.
func (t *Tracker) Tasks() ([]model.MainTask, error) {
	out := make([]model.MainTask, 0, len(t.tasks))
	for _, task := range t.tasks {
		c := task.Clone()
		if c.Subtasks != nil {
			c.Subtasks = ordering.SortSubtasks(c.Subtasks)
		}
		out = append(out, c)
	}
	return ordering.SortTasks(out)
}

func (t *Tracker) Task(id string) (model.MainTask, bool) {
	idx := t.indexOf(id)
	if idx < 0 {
		return model.MainTask{}, false
	}
	return t.tasks[idx].Clone(), true
}

// Subtasks returns the sorted subtasks of taskID.
func (t *Tracker) Subtasks(taskID string) ([]model.Task, bool) {
	idx := t.indexOf(taskID)
	if idx < 0 {
		return nil, false
	}
	return ordering.SortSubtasks(t.tasks[idx].Subtasks), true
}

func (t *Tracker) Find(id string) (Ref, bool) {
	if idx := t.indexOf(id); idx >= 0 {
		return Ref{Task: t.tasks[idx].Clone()}, true
	}
	if ti, si := t.subtaskIndex(id); ti >= 0 {
		return Ref{Task: t.tasks[ti].Clone(), Subtask: t.tasks[ti].Subtasks[si], IsSubtask: true}, true
	}
	return Ref{}, false
}

func (t *Tracker) AddTask(ctx context.Context, title, importance string) (model.MainTask, error) {
	clean, err := model.NormalizeTitle(title)
	if err != nil {
		return model.MainTask{}, err
	}
	imp := DefaultImportance
	if strings.TrimSpace(importance) != "" {
		if imp, err = model.ParseImportance(importance); err != nil {
			return model.MainTask{}, err
		}
	}
	task := model.NewMainTask(clean, imp)
	t.tasks = append(t.tasks, task)
	if err := t.store.SaveTask(ctx, task); err != nil {
		return task, t.persistFailed("add task", task.ID, err)
	}
	t.logger.Debug("task added", "id", task.ID, "importance", imp)
	return task.Clone(), nil
}

// UpdateTask applies the non-nil fields of u. Both fields are validated
// before anything changes.
func (t *Tracker) UpdateTask(ctx context.Context, id string, u TaskUpdate) (model.MainTask, bool, error) {
	if err := requireID(id); err != nil {
		return model.MainTask{}, false, err
	}
	var (
		title string
		imp   model.Importance
		err   error
	)
	if u.Title != nil {
		if title, err = model.NormalizeTitle(*u.Title); err != nil {
			return model.MainTask{}, false, err
		}
	}
	if u.Importance != nil {
		if imp, err = model.ParseImportance(*u.Importance); err != nil {
			return model.MainTask{}, false, err
		}
	}
	idx := t.indexOf(id)
	if idx < 0 {
		return model.MainTask{}, false, nil
	}
	task := &t.tasks[idx]
	if u.Title != nil {
		task.Title = title
	}
	if u.Importance != nil {
		task.Importance = imp
	}
	if err := t.store.SaveTask(ctx, *task); err != nil {
		return task.Clone(), true, t.persistFailed("update task", id, err)
	}
	return task.Clone(), true, nil
}

// StepImportance moves a task's importance one step toward critical when up
// is set, otherwise toward negligible. It saturates at both ends.
func (t *Tracker) StepImportance(ctx context.Context, id string, up bool) (model.MainTask, bool, error) {
	if err := requireID(id); err != nil {
		return model.MainTask{}, false, err
	}
	idx := t.indexOf(id)
	if idx < 0 {
		return model.MainTask{}, false, nil
	}
	task := &t.tasks[idx]
	if up {
		task.Importance = task.Importance.Prev()
	} else {
		task.Importance = task.Importance.Next()
	}
	if err := t.store.SaveTask(ctx, *task); err != nil {
		return task.Clone(), true, t.persistFailed("update task", id, err)
	}
	return task.Clone(), true, nil
}

// RemoveTask deletes a task together with its subtasks.
func (t *Tracker) RemoveTask(ctx context.Context, id string) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	idx := t.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	t.tasks = append(t.tasks[:idx], t.tasks[idx+1:]...)
	if err := t.store.DeleteTask(ctx, id); err != nil {
		return true, t.persistFailed("remove task", id, err)
	}
	return true, nil
}

func (t *Tracker) AddSubtask(ctx context.Context, taskID, title string) (model.Task, bool, error) {
	if err := requireID(taskID); err != nil {
		return model.Task{}, false, err
	}
	clean, err := model.NormalizeTitle(title)
	if err != nil {
		return model.Task{}, false, err
	}
	idx := t.indexOf(taskID)
	if idx < 0 {
		return model.Task{}, false, nil
	}
	sub := model.NewTask(taskID, clean)
	t.tasks[idx].Subtasks = append(t.tasks[idx].Subtasks, sub)
	if err := t.store.SaveSubtask(ctx, sub); err != nil {
		return sub, true, t.persistFailed("add subtask", sub.ID, err)
	}
	return sub, true, nil
}

func (t *Tracker) UpdateSubtask(ctx context.Context, id, title string) (model.Task, bool, error) {
	if err := requireID(id); err != nil {
		return model.Task{}, false, err
	}
	clean, err := model.NormalizeTitle(title)
	if err != nil {
		return model.Task{}, false, err
	}
	ti, si := t.subtaskIndex(id)
	if ti < 0 {
		return model.Task{}, false, nil
	}
	sub := &t.tasks[ti].Subtasks[si]
	sub.Title = clean
	if err := t.store.SaveSubtask(ctx, *sub); err != nil {
		return *sub, true, t.persistFailed("update subtask", id, err)
	}
	return *sub, true, nil
}

func (t *Tracker) RemoveSubtask(ctx context.Context, id string) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	ti, si := t.subtaskIndex(id)
	if ti < 0 {
		return false, nil
	}
	subs := t.tasks[ti].Subtasks
	t.tasks[ti].Subtasks = append(subs[:si:si], subs[si+1:]...)
	if len(t.tasks[ti].Subtasks) == 0 {
		t.tasks[ti].Subtasks = nil
	}
	if err := t.store.DeleteSubtask(ctx, id); err != nil {
		return true, t.persistFailed("remove subtask", id, err)
	}
	return true, nil
}

// Transition moves the task or subtask with the given id through tr.
func (t *Tracker) Transition(ctx context.Context, id string, tr model.Transition) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	if !tr.IsValid() {
		return false, fmt.Errorf("%w: unknown transition %q", model.ErrInvalidArgument, tr)
	}
	if idx := t.indexOf(id); idx >= 0 {
		task := &t.tasks[idx]
		if err := tr.ApplyTo(&task.Task); err != nil {
			return true, err
		}
		if err := t.store.SaveTask(ctx, *task); err != nil {
			return true, t.persistFailed("transition task", id, err)
		}
		return true, nil
	}
	ti, si := t.subtaskIndex(id)
	if ti < 0 {
		return false, nil
	}
	sub := &t.tasks[ti].Subtasks[si]
	if err := tr.ApplyTo(sub); err != nil {
		return true, err
	}
	if err := t.store.SaveSubtask(ctx, *sub); err != nil {
		return true, t.persistFailed("transition subtask", id, err)
	}
	return true, nil
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) subtaskIndex(id string) (int, int) {
	for i := range t.tasks {
		if si := t.tasks[i].SubtaskIndex(id); si >= 0 {
			return i, si
		}
	}
	return -1, -1
}

func (t *Tracker) persistFailed(op, id string, err error) error {
	t.logger.Warn("change kept in memory but not persisted", "op", op, "id", id, "error", err)
	return fmt.Errorf("%s %s: %w", op, id, err)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", model.ErrInvalidArgument)
	}
	return nil
}
