// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records conversion manifests in a SQLite database so
// converted documents and their artifacts can be found across runs.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfsift/pkg/types"
)

const defaultDBFile = "pdfsift.db"

// Store manages the conversion catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at cfg.Path, creating
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = defaultDBFile
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			stem TEXT NOT NULL,
			pages INTEGER NOT NULL,
			converted_at TEXT,
			manifest_path TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			file TEXT NOT NULL,
			page INTEGER,
			caption TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_document_id ON artifacts(document_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IndexSummary holds counts from a catalog indexing run.
type IndexSummary struct {
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of manifests processed.
func (s IndexSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// Index walks root for manifest sidecars and records each one in the
// catalog. Re-indexing a manifest that is already recorded replaces its
// document and artifact rows. A malformed manifest is reported and
// skipped.
func (s *Store) Index(ctx context.Context, root string, w io.Writer) (IndexSummary, error) {
	var summary IndexSummary

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".manifest.yaml") {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := strings.TrimSuffix(d.Name(), ".manifest.yaml")

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			return nil
		}

		var m types.Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			return nil
		}

		isUpdate, err := s.indexManifest(ctx, path, m)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			return nil
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d artifacts)\n", name, len(m.Artifacts))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d artifacts)\n", name, len(m.Artifacts))
			summary.Indexed++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walking %s: %w", root, err)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Failed)
	return summary, nil
}

func (s *Store) indexManifest(ctx context.Context, manifestPath string, m types.Manifest) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var docID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE manifest_path = ?`, manifestPath,
	).Scan(&docID)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("looking up document: %w", err)
	}
	isUpdate := err == nil

	convertedAt := ""
	if !m.ConvertedAt.IsZero() {
		convertedAt = m.ConvertedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (source, stem, pages, converted_at, manifest_path)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(manifest_path) DO UPDATE SET
			source=excluded.source, stem=excluded.stem,
			pages=excluded.pages, converted_at=excluded.converted_at`,
		m.Source, m.Stem, m.Pages, convertedAt, manifestPath,
	)
	if err != nil {
		return false, fmt.Errorf("upserting document: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE manifest_path = ?`, manifestPath,
	).Scan(&docID); err != nil {
		return false, fmt.Errorf("reading document id: %w", err)
	}

	// Replace the artifact rows wholesale on update.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM artifacts WHERE document_id = ?`, docID,
	); err != nil {
		return false, fmt.Errorf("deleting old artifacts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO artifacts (document_id, kind, file, page, caption)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range m.Artifacts {
		if _, err := stmt.ExecContext(ctx,
			docID, string(a.Kind), a.File, a.Page, a.Caption,
		); err != nil {
			return false, fmt.Errorf("inserting artifact %s: %w", a.File, err)
		}
	}

	return isUpdate, tx.Commit()
}
