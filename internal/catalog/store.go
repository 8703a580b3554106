// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists documented entries in a local SQLite database so
// they can be looked up, exported, and rendered again later.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doctex/pkg/types"
)

const (
	// DefaultDBPath is the catalog database used when none is configured.
	DefaultDBPath     = "doctex.db"
	defaultMaxResults = 20
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT,
			signature TEXT,
			description TEXT,
			type TEXT,
			notes_kind INTEGER,
			notes TEXT,
			notes_text TEXT,
			search_text TEXT NOT NULL DEFAULT '',
			has_arguments INTEGER NOT NULL DEFAULT 0,
			has_examples INTEGER NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS arguments (
			entry_key TEXT NOT NULL REFERENCES entries(key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			PRIMARY KEY (entry_key, position)
		)`,
		`CREATE TABLE IF NOT EXISTS examples (
			entry_key TEXT NOT NULL REFERENCES entries(key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (entry_key, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
}

// Total returns the number of entries in the ingested document plus the
// entries removed from the catalog.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Removed
}

// Ingest brings the catalog in line with doc. New entries are indexed,
// changed entries are replaced, unchanged entries are skipped, and entries
// missing from doc are removed. The whole run is one transaction.
func (s *Store) Ingest(ctx context.Context, doc *types.Document, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err := storedFingerprints(ctx, tx)
	if err != nil {
		return summary, err
	}

	for pos, key := range doc.Keys() {
		e, _ := doc.Get(key)
		fp, err := fingerprint(e)
		if err != nil {
			return summary, fmt.Errorf("fingerprinting %s: %w", key, err)
		}

		old, exists := stored[key]
		delete(stored, key)

		switch {
		case exists && old == fp:
			if _, err := tx.ExecContext(ctx,
				`UPDATE entries SET position = ? WHERE key = ?`, pos, key,
			); err != nil {
				return summary, fmt.Errorf("updating position of %s: %w", key, err)
			}
			fmt.Fprintf(w, "skipped  %s\n", key)
			summary.Skipped++
		case exists:
			if err := deleteEntry(ctx, tx, key); err != nil {
				return summary, err
			}
			if err := insertEntry(ctx, tx, key, pos, e, fp); err != nil {
				return summary, err
			}
			fmt.Fprintf(w, "updated  %s\n", key)
			summary.Updated++
		default:
			if err := insertEntry(ctx, tx, key, pos, e, fp); err != nil {
				return summary, err
			}
			fmt.Fprintf(w, "indexed  %s\n", key)
			summary.Indexed++
		}
	}

	for key := range stored {
		if err := deleteEntry(ctx, tx, key); err != nil {
			return summary, err
		}
		fmt.Fprintf(w, "removed  %s\n", key)
		summary.Removed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing ingest: %w", err)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed)
	return summary, nil
}

func storedFingerprints(ctx context.Context, tx *sql.Tx) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT key, fingerprint FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("reading fingerprints: %w", err)
	}
	defer rows.Close()

	fps := make(map[string]string)
	for rows.Next() {
		var key, fp string
		if err := rows.Scan(&key, &fp); err != nil {
			return nil, fmt.Errorf("scanning fingerprint: %w", err)
		}
		fps[key] = fp
	}
	return fps, rows.Err()
}

// fingerprint hashes every field of e, presence flags and the notes shape
// included, so a change to any of them is detected.
func fingerprint(e types.Entry) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func deleteEntry(ctx context.Context, tx *sql.Tx, key string) error {
	for _, stmt := range []string{
		`DELETE FROM arguments WHERE entry_key = ?`,
		`DELETE FROM examples WHERE entry_key = ?`,
		`DELETE FROM entries WHERE key = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, key string, pos int, e types.Entry, fp string) error {
	var notesKind sql.NullInt64
	var notesJSON, notesText sql.NullString
	if e.Notes != nil {
		parts, err := json.Marshal(e.Notes.Parts)
		if err != nil {
			return fmt.Errorf("encoding notes of %s: %w", key, err)
		}
		notesKind = sql.NullInt64{Int64: int64(e.Notes.Kind), Valid: true}
		notesJSON = sql.NullString{String: string(parts), Valid: true}
		notesText = sql.NullString{String: e.Notes.Text(), Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (key, position, name, signature, description, type,
			notes_kind, notes, notes_text, search_text, has_arguments, has_examples, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, pos, nullString(e.Name), nullString(e.Signature), nullString(e.Description),
		nullString(e.Type), notesKind, notesJSON, notesText, searchText(key, e),
		e.HasArguments, e.HasExamples, fp,
	)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", key, err)
	}

	for i, a := range e.Arguments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO arguments (entry_key, position, name, description) VALUES (?, ?, ?, ?)`,
			key, i, a.Name, a.Description,
		); err != nil {
			return fmt.Errorf("inserting argument %s of %s: %w", a.Name, key, err)
		}
	}

	for i, ex := range e.Examples {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO examples (entry_key, position, text) VALUES (?, ?, ?)`,
			key, i, ex,
		); err != nil {
			return fmt.Errorf("inserting example %d of %s: %w", i, key, err)
		}
	}
	return nil
}

// searchText is the lowercased text Lookup matches against: key, name,
// signature, description, and rendered notes, separated by NUL so a query
// cannot match across two fields. Folding happens here and on the query with
// strings.ToLower, since SQLite lower() only folds ASCII.
func searchText(key string, e types.Entry) string {
	fields := []string{key}
	for _, f := range []*string{e.Name, e.Signature, e.Description} {
		if f != nil {
			fields = append(fields, *f)
		}
	}
	if e.Notes != nil {
		fields = append(fields, e.Notes.Text())
	}
	return strings.ToLower(strings.Join(fields, "\x00"))
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
