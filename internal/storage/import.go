package storage

import (
	"context"
	"database/sql"
)

// documentImportKey marks the one-shot document import in schema_versions.
const documentImportKey = "document_import"

// ImportDocument copies every task in doc into the database the first time
// it runs against that database and returns how many tasks it copied. Later
// calls are no-ops returning 0, even if the first import found nothing.
func (s *SQLiteStore) ImportDocument(ctx context.Context, doc *DocumentStore) (int, error) {
	done, err := s.ImportDone(ctx)
	if err != nil {
		return 0, err
	}
	if done {
		return 0, nil
	}

	tasks, err := doc.Load(ctx)
	if err != nil {
		return 0, err
	}
	for i := range tasks {
		for j := range tasks[i].Subtasks {
			if tasks[i].Subtasks[j].ParentID == "" {
				tasks[i].Subtasks[j].ParentID = tasks[i].ID
			}
		}
		if err := validateForSave(tasks[i]); err != nil {
			return 0, err
		}
	}

	err = s.inTx(ctx, "import document", func(tx *sql.Tx) error {
		for _, t := range tasks {
			if err := upsertTask(ctx, tx, t); err != nil {
				return err
			}
		}
		return setTableVersion(ctx, tx, documentImportKey, 1)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("imported task document", "path", doc.Path(), "tasks", len(tasks))
	return len(tasks), nil
}

// ImportDone reports whether ImportDocument has already run against this
// database.
func (s *SQLiteStore) ImportDone(ctx context.Context) (bool, error) {
	version, err := TableVersion(ctx, s.db, documentImportKey)
	if err != nil {
		return false, ioFailure("read import marker", err)
	}
	return version > 0, nil
}
