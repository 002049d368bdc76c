package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/spf13/afero"
)

const legacyDocument = `[
  {"id": "t1", "title": "Write report", "state": "started", "importance": "high", "subTasks": [
    {"id": "s1", "title": "Outline", "state": "completed"},
    {"id": "s2", "task_id": "t1", "title": "Draft", "state": "new"}
  ]},
  {"id": "t2", "title": "Water plants", "state": "new", "importance": "negligible", "subTasks": []}
]`

func TestImportDocumentRunsOnce(t *testing.T) {
	doc, fsys := newTestDocumentStore(t, legacyDocument)
	store := newTestSQLiteStore(t)

	if done, err := store.ImportDone(testContext(t)); err != nil || done {
		t.Fatalf("fresh database: done=%v err=%v", done, err)
	}
	n, err := store.ImportDocument(testContext(t), doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported tasks, got %d", n)
	}
	if done, err := store.ImportDone(testContext(t)); err != nil || !done {
		t.Fatalf("after import: done=%v err=%v", done, err)
	}
	got, err := store.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := sampleTasks()[:2]
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("imported mismatch:\n got %+v\nwant %+v", got, want)
	}

	// The document is no longer consulted once imported.
	if err := afero.WriteFile(fsys, doc.Path(), []byte(`[{"id":"t9","title":"Late","state":"new","importance":"low","subTasks":[]}]`), 0o644); err != nil {
		t.Fatalf("rewrite document: %v", err)
	}
	n, err = store.ImportDocument(testContext(t), doc)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second import to be skipped, got %d", n)
	}
	got, err = store.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks after second import, got %+v", got)
	}
}

func TestImportDocumentMissingFileMarksDone(t *testing.T) {
	doc, fsys := newTestDocumentStore(t, "")
	store := newTestSQLiteStore(t)

	if n, err := store.ImportDocument(testContext(t), doc); err != nil || n != 0 {
		t.Fatalf("import of missing document: n=%d err=%v", n, err)
	}
	version, err := TableVersion(testContext(t), store.DB(), documentImportKey)
	if err != nil {
		t.Fatalf("table version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected import marker, got %d", version)
	}

	if err := afero.WriteFile(fsys, doc.Path(), []byte(legacyDocument), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	if n, err := store.ImportDocument(testContext(t), doc); err != nil || n != 0 {
		t.Fatalf("expected later import to be skipped: n=%d err=%v", n, err)
	}
}

func TestOpenSQLiteImportsDocument(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "todo_list.json", []byte(legacyDocument), 0o644); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	store, err := Open(testContext(t), Options{
		Backend:      BackendSQLite,
		DocumentPath: "todo_list.json",
		DatabasePath: filepath.Join(t.TempDir(), "todo_list.db"),
		Fs:           fsys,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	got, err := store.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Subtasks[0].ParentID != "t1" {
		t.Fatalf("unexpected imported tasks: %+v", got)
	}
}

func TestOpenDocumentBackend(t *testing.T) {
	store, err := Open(testContext(t), Options{
		Backend:      BackendDocument,
		DocumentPath: "todo_list.json",
		Fs:           afero.NewMemMapFs(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*DocumentStore); !ok {
		t.Fatalf("expected *DocumentStore, got %T", store)
	}
	task := model.NewMainTask("Call mum", model.ImportanceMedium)
	if err := store.SaveTask(testContext(t), task); err != nil {
		t.Fatalf("save task: %v", err)
	}
	got, err := store.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("unexpected tasks: %+v", got)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open(testContext(t), Options{Backend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := Open(testContext(t), Options{Backend: BackendSQLite}); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank database path, got %v", err)
	}
}

func TestBackendsAgree(t *testing.T) {
	doc, _ := newTestDocumentStore(t, "")
	db := newTestSQLiteStore(t)
	for _, s := range []Store{doc, db} {
		if err := s.Save(testContext(t), sampleTasks()); err != nil {
			t.Fatalf("save %T: %v", s, err)
		}
	}
	fromDoc, err := doc.Load(testContext(t))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	fromDB, err := db.Load(testContext(t))
	if err != nil {
		t.Fatalf("load sqlite: %v", err)
	}
	if !reflect.DeepEqual(fromDoc, fromDB) {
		t.Fatalf("backends disagree:\n doc %+v\n  db %+v", fromDoc, fromDB)
	}
}
