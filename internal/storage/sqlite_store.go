package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/tbetodo/internal/model"
)

const (
	upsertTaskSQL = `
		INSERT INTO tasks (id, title, state, importance) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, state = excluded.state, importance = excluded.importance`
	upsertSubtaskSQL = `
		INSERT INTO subtasks (id, task_id, title, state) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET task_id = excluded.task_id, title = excluded.title, state = excluded.state`
)

// SQLiteStore is the relational backend. Saving a task upserts its row and
// its subtask rows but never deletes subtask rows; removal always goes
// through DeleteTask or DeleteSubtask.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(db *sql.DB, logger *slog.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// OpenSQLite opens the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := requireID(path, "database path"); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ioFailure("create "+dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, ioFailure("open sqlite", err)
	}
	// One writer, one connection: operations never interleave.
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, ioFailure("migrate", err)
	}
	return store, nil
}

func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]model.MainTask, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, state, importance FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, ioFailure("query tasks", err)
	}
	tasks := make([]model.MainTask, 0)
	index := make(map[string]int)
	for rows.Next() {
		row, scanErr := scanTaskRow(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, ioFailure("scan task", scanErr)
		}
		index[row.ID] = len(tasks)
		tasks = append(tasks, row.toModel())
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, ioFailure("iterate tasks", err)
	}
	_ = rows.Close()

	subRows, err := s.db.QueryContext(ctx, `SELECT id, task_id, title, state FROM subtasks ORDER BY rowid`)
	if err != nil {
		return nil, ioFailure("query subtasks", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		row, scanErr := scanSubtaskRow(subRows)
		if scanErr != nil {
			return nil, ioFailure("scan subtask", scanErr)
		}
		owner, ok := index[row.TaskID]
		if !ok {
			s.logger.Debug("skipping subtask without a task", "subtask_id", row.ID, "task_id", row.TaskID)
			continue
		}
		tasks[owner].Subtasks = append(tasks[owner].Subtasks, row.toModel())
	}
	if err := subRows.Err(); err != nil {
		return nil, ioFailure("iterate subtasks", err)
	}

	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			s.logger.Warn("task database holds invalid rows, starting with an empty list",
				"task_id", t.ID, "error", err)
			return []model.MainTask{}, nil
		}
	}
	return tasks, nil
}

func (s *SQLiteStore) Save(ctx context.Context, tasks []model.MainTask) error {
	for _, t := range tasks {
		if err := validateForSave(t); err != nil {
			return err
		}
	}
	return s.inTx(ctx, "save tasks", func(tx *sql.Tx) error {
		for _, t := range tasks {
			if err := upsertTask(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveTask(ctx context.Context, task model.MainTask) error {
	if err := validateForSave(task); err != nil {
		return err
	}
	return s.inTx(ctx, "save task "+task.ID, func(tx *sql.Tx) error {
		return upsertTask(ctx, tx, task)
	})
}

func (s *SQLiteStore) SaveSubtask(ctx context.Context, sub model.Task) error {
	if err := requireID(sub.ID, "subtask id"); err != nil {
		return err
	}
	if err := requireID(sub.ParentID, "task id"); err != nil {
		return err
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	r := subtaskRowFromModel(sub)
	if _, err := s.db.ExecContext(ctx, upsertSubtaskSQL, r.ID, r.TaskID, r.Title, r.State); err != nil {
		return ioFailure("save subtask "+sub.ID, err)
	}
	return nil
}

// DeleteTask removes the task and every subtask row that names it.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	if err := requireID(id, "task id"); err != nil {
		return err
	}
	return s.inTx(ctx, "delete task "+id, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, id)
		return err
	})
}

func (s *SQLiteStore) DeleteSubtask(ctx context.Context, id string) error {
	if err := requireID(id, "subtask id"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id); err != nil {
		return ioFailure("delete subtask "+id, err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioFailure(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return ioFailure(op, err)
	}
	if err := tx.Commit(); err != nil {
		return ioFailure(op, err)
	}
	return nil
}

func validateForSave(t model.MainTask) error {
	if err := requireID(t.ID, "task id"); err != nil {
		return err
	}
	for _, sub := range t.Subtasks {
		if err := requireID(sub.ID, "subtask id"); err != nil {
			return err
		}
	}
	return t.Validate()
}

func upsertTask(ctx context.Context, tx *sql.Tx, t model.MainTask) error {
	r := rowFromModel(t)
	if _, err := tx.ExecContext(ctx, upsertTaskSQL, r.ID, r.Title, r.State, r.Importance); err != nil {
		return err
	}
	if len(t.Subtasks) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, upsertSubtaskSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, sub := range t.Subtasks {
		sr := subtaskRowFromModel(sub)
		if _, err := stmt.ExecContext(ctx, sr.ID, sr.TaskID, sr.Title, sr.State); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(s scanner) (taskRow, error) {
	var out taskRow
	if err := s.Scan(&out.ID, &out.Title, &out.State, &out.Importance); err != nil {
		return taskRow{}, err
	}
	return out, nil
}

func scanSubtaskRow(s scanner) (subtaskRow, error) {
	var out subtaskRow
	if err := s.Scan(&out.ID, &out.TaskID, &out.Title, &out.State); err != nil {
		return subtaskRow{}, err
	}
	return out, nil
}
