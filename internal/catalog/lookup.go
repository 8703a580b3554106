// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/doctex/pkg/types"
)

// QueryOptions holds parameters for catalog lookups.
type QueryOptions struct {
	// Query is matched case-insensitively as a substring of the key, name,
	// signature, description, or notes text as rendered. Case folding is
	// Unicode-aware.
	Query string

	// Key restricts results to the entry with this exact key.
	Key string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Key == ""
}

// Result is a catalog entry with its key and document position.
type Result struct {
	Key      string
	Position int
	Entry    types.Entry
}

// Lookup returns entries matching opts in document order. Empty options
// match every entry up to the result limit.
func (s *Store) Lookup(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`WHERE 1=1`)
	if opts.Key != "" {
		qb.WriteString(` AND key = ?`)
		args = append(args, opts.Key)
	}
	if opts.Query != "" {
		qb.WriteString(` AND instr(search_text, ?) > 0`)
		args = append(args, strings.ToLower(opts.Query))
	}
	qb.WriteString(` ORDER BY position LIMIT ?`)
	args = append(args, maxResults)

	return s.load(ctx, qb.String(), args...)
}

// Document rebuilds the catalog contents as a Document in document order.
func (s *Store) Document(ctx context.Context) (*types.Document, error) {
	results, err := s.load(ctx, `ORDER BY position`)
	if err != nil {
		return nil, err
	}
	doc := types.NewDocument()
	for _, r := range results {
		doc.Set(r.Key, r.Entry)
	}
	return doc, nil
}

// load selects entries with the given WHERE/ORDER clause and attaches their
// arguments and examples.
func (s *Store) load(ctx context.Context, clause string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, position, name, signature, description, type,
			notes_kind, notes, has_arguments, has_examples
		 FROM entries `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var (
		results []Result
		index   = make(map[string]int)
	)
	for rows.Next() {
		var (
			r                               Result
			name, sig, desc, typ, notesJSON sql.NullString
			notesKind                       sql.NullInt64
		)
		if err := rows.Scan(
			&r.Key, &r.Position, &name, &sig, &desc, &typ,
			&notesKind, &notesJSON, &r.Entry.HasArguments, &r.Entry.HasExamples,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Entry.Name = stringPtr(name)
		r.Entry.Signature = stringPtr(sig)
		r.Entry.Description = stringPtr(desc)
		r.Entry.Type = stringPtr(typ)
		if notesKind.Valid {
			n := &types.Notes{Kind: types.NotesKind(notesKind.Int64)}
			if err := json.Unmarshal([]byte(notesJSON.String), &n.Parts); err != nil {
				return nil, fmt.Errorf("decoding notes of %s: %w", r.Key, err)
			}
			r.Entry.Notes = n
		}

		index[r.Key] = len(results)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(results) == 0 {
		return results, nil
	}
	if err := s.attachArguments(ctx, results, index); err != nil {
		return nil, err
	}
	if err := s.attachExamples(ctx, results, index); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) attachArguments(ctx context.Context, results []Result, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_key, name, description FROM arguments ORDER BY entry_key, position`)
	if err != nil {
		return fmt.Errorf("querying arguments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var a types.Argument
		if err := rows.Scan(&key, &a.Name, &a.Description); err != nil {
			return fmt.Errorf("scanning argument: %w", err)
		}
		if i, ok := index[key]; ok {
			results[i].Entry.Arguments = append(results[i].Entry.Arguments, a)
		}
	}
	return rows.Err()
}

func (s *Store) attachExamples(ctx context.Context, results []Result, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_key, text FROM examples ORDER BY entry_key, position`)
	if err != nil {
		return fmt.Errorf("querying examples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return fmt.Errorf("scanning example: %w", err)
		}
		if i, ok := index[key]; ok {
			results[i].Entry.Examples = append(results[i].Entry.Examples, text)
		}
	}
	return rows.Err()
}
