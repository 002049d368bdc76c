package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/tbetodo/internal/model"
)

type documentSubtask struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id,omitempty"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

type documentTask struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	State      string            `json:"state"`
	Importance string            `json:"importance"`
	SubTasks   []documentSubtask `json:"subTasks"`
}

type taskRow struct {
	ID         string
	Title      string
	State      string
	Importance string
}

type subtaskRow struct {
	ID     string
	TaskID string
	Title  string
	State  string
}

// DecodeDocument parses the document format. Subtasks without a task_id are
// attached to the task that contains them.
func DecodeDocument(data []byte) ([]model.MainTask, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.MainTask{}, nil
	}
	var docs []documentTask
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	if docs == nil {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrMalformedData)
	}
	out := make([]model.MainTask, 0, len(docs))
	for i, doc := range docs {
		task, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: task %d: %w", ErrMalformedData, i, err)
		}
		out = append(out, task)
	}
	return out, nil
}

func EncodeDocument(tasks []model.MainTask) ([]byte, error) {
	docs := make([]documentTask, 0, len(tasks))
	for _, t := range tasks {
		docs = append(docs, documentFromModel(t))
	}
	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

func documentFromModel(t model.MainTask) documentTask {
	subs := make([]documentSubtask, 0, len(t.Subtasks))
	for _, s := range t.Subtasks {
		subs = append(subs, documentSubtask{ID: s.ID, TaskID: s.ParentID, Title: s.Title, State: string(s.State)})
	}
	return documentTask{
		ID:         t.ID,
		Title:      t.Title,
		State:      string(t.State),
		Importance: string(t.Importance),
		SubTasks:   subs,
	}
}

func (d documentTask) toModel() (model.MainTask, error) {
	task := model.MainTask{
		Task: model.Task{
			ID:    d.ID,
			Title: d.Title,
			State: model.State(d.State),
		},
		Importance: model.Importance(d.Importance),
	}
	for _, s := range d.SubTasks {
		task.Subtasks = append(task.Subtasks, model.Task{
			ID:       s.ID,
			ParentID: d.ID,
			Title:    s.Title,
			State:    model.State(s.State),
		})
	}
	if err := task.Validate(); err != nil {
		return model.MainTask{}, err
	}
	return task, nil
}

func rowFromModel(t model.MainTask) taskRow {
	return taskRow{ID: t.ID, Title: t.Title, State: string(t.State), Importance: string(t.Importance)}
}

func subtaskRowFromModel(s model.Task) subtaskRow {
	return subtaskRow{ID: s.ID, TaskID: s.ParentID, Title: s.Title, State: string(s.State)}
}

func (r taskRow) toModel() model.MainTask {
	return model.MainTask{
		Task:       model.Task{ID: r.ID, Title: r.Title, State: model.State(r.State)},
		Importance: model.Importance(r.Importance),
	}
}

func (r subtaskRow) toModel() model.Task {
	return model.Task{ID: r.ID, ParentID: r.TaskID, Title: r.Title, State: model.State(r.State)}
}
