package storage

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/spf13/afero"
)

// DocumentStore keeps the whole collection in one JSON array file. Every
// write replaces the file.
type DocumentStore struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

func NewDocumentStore(fsys afero.Fs, path string, logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStore{fs: fsys, path: path, logger: logger}
}

func (s *DocumentStore) Path() string {
	return s.path
}

// Load returns an empty collection when the file is absent or malformed.
// Only an unreadable file is reported as an error.
func (s *DocumentStore) Load(ctx context.Context) ([]model.MainTask, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.MainTask{}, nil
		}
		return nil, ioFailure("read "+s.path, err)
	}
	tasks, err := DecodeDocument(raw)
	if err != nil {
		s.logger.Warn("task document is not valid, starting with an empty list", "path", s.path, "error", err)
		return []model.MainTask{}, nil
	}
	return tasks, nil
}

func (s *DocumentStore) Save(ctx context.Context, tasks []model.MainTask) error {
	for _, t := range tasks {
		if err := requireID(t.ID, "task id"); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	payload, err := EncodeDocument(tasks)
	if err != nil {
		return ioFailure("encode document", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return ioFailure("create "+dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, payload, 0o644); err != nil {
		return ioFailure("write "+tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return ioFailure("rename "+tmp, err)
	}
	return nil
}

func (s *DocumentStore) SaveTask(ctx context.Context, task model.MainTask) error {
	if err := requireID(task.ID, "task id"); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, task.Clone())
	}
	return s.Save(ctx, tasks)
}

func (s *DocumentStore) SaveSubtask(ctx context.Context, sub model.Task) error {
	if err := requireID(sub.ID, "subtask id"); err != nil {
		return err
	}
	if err := requireID(sub.ParentID, "task id"); err != nil {
		return err
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID != sub.ParentID {
			continue
		}
		if idx := tasks[i].SubtaskIndex(sub.ID); idx >= 0 {
			tasks[i].Subtasks[idx] = sub
		} else {
			tasks[i].Subtasks = append(tasks[i].Subtasks, sub)
		}
		return s.Save(ctx, tasks)
	}
	return ErrNotFound
}

func (s *DocumentStore) DeleteTask(ctx context.Context, id string) error {
	if err := requireID(id, "task id"); err != nil {
		return err
	}
	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}
	return s.Save(ctx, kept)
}

func (s *DocumentStore) DeleteSubtask(ctx context.Context, id string) error {
	if err := requireID(id, "subtask id"); err != nil {
		return err
	}
	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if idx := tasks[i].SubtaskIndex(id); idx >= 0 {
			tasks[i].Subtasks = append(tasks[i].Subtasks[:idx], tasks[i].Subtasks[idx+1:]...)
			return s.Save(ctx, tasks)
		}
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return nil
}
