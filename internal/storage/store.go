package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/model"
	"github.com/spf13/afero"
)

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrIOFailure     = errors.New("storage: io failure")
	ErrMalformedData = errors.New("storage: malformed data")
)

// Store persists the full task tree. Both backends return equal collections
// for equal logical content.
type Store interface {
	Load(ctx context.Context) ([]model.MainTask, error)
	Save(ctx context.Context, tasks []model.MainTask) error
	SaveTask(ctx context.Context, task model.MainTask) error
	SaveSubtask(ctx context.Context, sub model.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteSubtask(ctx context.Context, id string) error
	Close() error
}

type Backend string

const (
	BackendDocument Backend = "document"
	BackendSQLite   Backend = "sqlite"
)

func (b Backend) IsValid() bool {
	return b == BackendDocument || b == BackendSQLite
}

type Options struct {
	Backend      Backend
	DocumentPath string
	DatabasePath string
	// Fs is used by the document backend and by the one-shot import.
	// Defaults to the OS filesystem.
	Fs     afero.Fs
	Logger *slog.Logger
}

// Open returns the Store selected by opts.Backend. The SQLite backend is
// migrated and, on its first start, seeded from the document file.
func Open(ctx context.Context, opts Options) (Store, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case BackendDocument:
		return NewDocumentStore(fsys, opts.DocumentPath, logger), nil
	case BackendSQLite:
		store, err := OpenSQLite(ctx, opts.DatabasePath, logger)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(opts.DocumentPath) != "" {
			if _, err := store.ImportDocument(ctx, NewDocumentStore(fsys, opts.DocumentPath, logger)); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

func requireID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", model.ErrInvalidArgument, what)
	}
	return nil
}

func ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIOFailure, op, err)
}
