package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			hash TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			file TEXT,
			name TEXT,
			qualified TEXT,
			kind TEXT,
			parent TEXT,
			line INTEGER,
			end_line INTEGER,
			documented INTEGER,
			brief TEXT,
			synopsis TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_file ON entities(file);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_qualified ON entities(qualified);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const entityColumns = "id, file, name, qualified, kind, parent, line, end_line, documented, brief, synopsis"

func (s *SQLiteStore) SaveFile(ctx context.Context, file File, entities []Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace the snapshot of this file.
	if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE file = ?", file.Path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, hash) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET hash=excluded.hash
	`, file.Path, file.Hash); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (`+entityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file=excluded.file,
			name=excluded.name,
			qualified=excluded.qualified,
			kind=excluded.kind,
			parent=excluded.parent,
			line=excluded.line,
			end_line=excluded.end_line,
			documented=excluded.documented,
			brief=excluded.brief,
			synopsis=excluded.synopsis
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entities {
		if e.File == "" {
			e.File = file.Path
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.File, e.Name, e.Qualified, e.Kind, e.Parent, e.Line, e.EndLine, e.Documented, e.Brief, e.Synopsis); err != nil {
			return fmt.Errorf("failed to save entity %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE file = ?", path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetFile(ctx context.Context, path string) (File, bool, error) {
	var f File
	err := s.db.QueryRowContext(ctx, "SELECT path, hash FROM files WHERE path = ?", path).Scan(&f.Path, &f.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, false, nil
	}
	if err != nil {
		return File{}, false, err
	}
	return f, true, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, hash FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Path, &f.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) FindByName(ctx context.Context, name string) ([]Entity, error) {
	return s.queryEntities(ctx, "SELECT "+entityColumns+" FROM entities WHERE name = ? OR qualified = ? ORDER BY file, line", name, name)
}

func (s *SQLiteStore) FindByFile(ctx context.Context, path string) ([]Entity, error) {
	return s.queryEntities(ctx, "SELECT "+entityColumns+" FROM entities WHERE file = ? ORDER BY line, rowid", path)
}

func (s *SQLiteStore) queryEntities(ctx context.Context, query string, args ...any) ([]Entity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.File, &e.Name, &e.Qualified, &e.Kind, &e.Parent, &e.Line, &e.EndLine, &e.Documented, &e.Brief, &e.Synopsis); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
