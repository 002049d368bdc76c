package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const schemaLedgerDDL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		table_name TEXT PRIMARY KEY,
		version INTEGER NOT NULL
	)`

// migration is one embedded file named NNNN_<table>.sql. It runs when the
// ledger records a version for <table> below NNNN.
type migration struct {
	file    string
	table   string
	version int
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MigrateUp brings every table up to the version the code expects. It only
// ever adds schema; existing rows are left alone.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaLedgerDDL); err != nil {
		return fmt.Errorf("create schema ledger: %w", err)
	}
	migrations, err := listMigrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		current, err := TableVersion(ctx, db, m.table)
		if err != nil {
			return err
		}
		if current >= m.version {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

// TableVersion returns the ledger version for table, 0 when unrecorded.
func TableVersion(ctx context.Context, q queryer, table string) (int, error) {
	var version int
	err := q.QueryRowContext(ctx, `SELECT version FROM schema_versions WHERE table_name = ?`, table).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version for %s: %w", table, err)
	}
	return version, nil
}

func setTableVersion(ctx context.Context, e execer, table string, version int) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO schema_versions (table_name, version) VALUES (?, ?)
		ON CONFLICT(table_name) DO UPDATE SET version = excluded.version`,
		table, version,
	)
	if err != nil {
		return fmt.Errorf("set schema version for %s: %w", table, err)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	body, err := migrationFiles.ReadFile(m.file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.file, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.file, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("apply migration %s: %w", m.file, err)
	}
	if err := setTableVersion(ctx, tx, m.table, m.version); err != nil {
		return err
	}
	return tx.Commit()
}

func listMigrations() ([]migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]migration, 0, len(entries))
	for _, name := range entries {
		m, err := parseMigrationName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func parseMigrationName(file string) (migration, error) {
	base := strings.TrimSuffix(path.Base(file), ".sql")
	num, table, ok := strings.Cut(base, "_")
	if !ok || table == "" {
		return migration{}, fmt.Errorf("migration %s: want NNNN_<table>.sql", file)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return migration{}, fmt.Errorf("migration %s: bad version %q", file, num)
	}
	return migration{file: file, table: table, version: version}, nil
}
