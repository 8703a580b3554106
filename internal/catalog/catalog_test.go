// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctex/internal/document"
	"github.com/pdiddy/doctex/internal/render"
	"github.com/pdiddy/doctex/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.CatalogConfig{
		DBPath:     filepath.Join(tmpDir, "index", "doctex.db"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func decode(t *testing.T, src string) *types.Document {
	t.Helper()
	doc, err := document.Decode(strings.NewReader(src), types.FormatJSON)
	require.NoError(t, err)
	return doc
}

func renderDoc(t *testing.T, doc *types.Document) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := render.New(render.Options{}).Render(&buf, doc)
	require.NoError(t, err)
	return buf.String()
}

const sampleJSON = `{
  "car": {
    "Name": "car",
    "Signature": "(car list)",
    "Description": "Returns the first element of a list.",
    "Arguments": {"list": "a non-empty list"},
    "Examples": ["(car '(1 2 3))"],
    "Type": "List \\to Object",
    "Notes": ["Fails on the empty list.", "Pure."]
  },
  "cdr": {
    "Name": "cdr",
    "Signature": "(cdr list)",
    "Description": "Returns the rest of a list."
  },
  "cons": {
    "Name": "cons",
    "Arguments": {},
    "Examples": [],
    "Notes": "Allocates a new pair."
  }
}`

func TestIngest(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	doc := decode(t, sampleJSON)

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, doc, &log)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Indexed: 3}, summary)
	assert.Contains(t, log.String(), "indexed  car")
	assert.Contains(t, log.String(), "indexed: 3, updated: 0, skipped: 0, removed: 0")

	summary, err = store.Ingest(ctx, doc, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 3}, summary)
	assert.Equal(t, 3, summary.Total())
}

func TestIngest_UpdatesAndRemovals(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, decode(t, sampleJSON), &bytes.Buffer{})
	require.NoError(t, err)

	changed := decode(t, `{
		"cdr": {"Name": "cdr", "Signature": "(cdr list)", "Description": "Returns the tail."},
		"car": {
			"Name": "car",
			"Signature": "(car list)",
			"Description": "Returns the first element of a list.",
			"Arguments": {"list": "a non-empty list"},
			"Examples": ["(car '(1 2 3))"],
			"Type": "List \\to Object",
			"Notes": ["Fails on the empty list.", "Pure."]
		}
	}`)

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, changed, &log)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1, Skipped: 1, Removed: 1}, summary)
	assert.Contains(t, log.String(), "removed  cons")

	doc, err := store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cdr", "car"}, doc.Keys())
	assert.Equal(t, renderDoc(t, changed), renderDoc(t, doc))
}

func TestIngest_NotesShapeChangeIsAnUpdate(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, decode(t, `{"k": {"Notes": "a. b."}}`), &bytes.Buffer{})
	require.NoError(t, err)

	summary, err := store.Ingest(ctx, decode(t, `{"k": {"Notes": ["a.", "b."]}}`), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	results, err := store.Lookup(ctx, QueryOptions{Key: "k"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.NotesMultiple, results[0].Entry.Notes.Kind)
}

func TestDocument_RendersIdentically(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	src := decode(t, sampleJSON)

	_, err := store.Ingest(ctx, src, &bytes.Buffer{})
	require.NoError(t, err)

	doc, err := store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, src.Keys(), doc.Keys())
	assert.Equal(t, renderDoc(t, src), renderDoc(t, doc))
}

func TestLookup(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, decode(t, sampleJSON), &bytes.Buffer{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		opts     QueryOptions
		wantKeys []string
	}{
		{name: "all entries in order", opts: QueryOptions{}, wantKeys: []string{"car", "cdr", "cons"}},
		{name: "match description case-insensitively", opts: QueryOptions{Query: "RETURNS"}, wantKeys: []string{"car", "cdr"}},
		{name: "match notes", opts: QueryOptions{Query: "allocates"}, wantKeys: []string{"cons"}},
		{name: "match signature", opts: QueryOptions{Query: "(cdr"}, wantKeys: []string{"cdr"}},
		{name: "exact key", opts: QueryOptions{Key: "cdr"}, wantKeys: []string{"cdr"}},
		{name: "key and query disagree", opts: QueryOptions{Key: "cdr", Query: "allocates"}, wantKeys: nil},
		{name: "limit", opts: QueryOptions{MaxResults: 2}, wantKeys: []string{"car", "cdr"}},
		{name: "no match", opts: QueryOptions{Query: "lambda"}, wantKeys: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Lookup(ctx, tt.opts)
			require.NoError(t, err)

			var keys []string
			for _, r := range results {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestLookup_MatchesRenderedNotes(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, decode(t, `{
		"amp": {"Notes": "uses & and <x>"},
		"multi": {"Notes": ["Fails on empty.", "Pure."]},
		"accent": {"Description": "Échec sur la liste vide"}
	}`), &bytes.Buffer{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		wantKeys []string
	}{
		{name: "ampersand", query: "&", wantKeys: []string{"amp"}},
		{name: "angle brackets", query: "<x>", wantKeys: []string{"amp"}},
		{name: "joined notes across parts", query: "empty. Pure", wantKeys: []string{"multi"}},
		{name: "separator between parts is not stored", query: `","`, wantKeys: nil},
		{name: "list bracket is not stored", query: `["`, wantKeys: nil},
		{name: "non-ASCII uppercase query", query: "ÉCHEC", wantKeys: []string{"accent"}},
		{name: "non-ASCII lowercase query", query: "échec", wantKeys: []string{"accent"}},
		{name: "no match across fields", query: "amp uses", wantKeys: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Lookup(ctx, QueryOptions{Query: tt.query})
			require.NoError(t, err)

			var keys []string
			for _, r := range results {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestLookup_LoadsChildren(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, decode(t, sampleJSON), &bytes.Buffer{})
	require.NoError(t, err)

	results, err := store.Lookup(ctx, QueryOptions{Key: "car"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	e := results[0].Entry
	assert.Equal(t, 0, results[0].Position)
	assert.Equal(t, []types.Argument{{Name: "list", Description: "a non-empty list"}}, e.Arguments)
	assert.Equal(t, []string{"(car '(1 2 3))"}, e.Examples)
	assert.Equal(t, "Fails on the empty list. Pure.", e.Notes.Text())
	assert.Equal(t, `List \to Object`, *e.Type)
}

func TestExport(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()
	_, err := store.Ingest(ctx, decode(t, sampleJSON), &bytes.Buffer{})
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "export.yaml")
		require.NoError(t, store.ExportYAML(ctx, QueryOptions{}, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entries []ExportEntry
		require.NoError(t, yaml.Unmarshal(data, &entries))
		require.Len(t, entries, 3)
		assert.Equal(t, "car", entries[0].Key)
		assert.Equal(t, "Fails on the empty list. Pure.", *entries[0].Notes)
		assert.Nil(t, entries[1].Notes)
	})

	t.Run("json filtered", func(t *testing.T) {
		path := filepath.Join(tmpDir, "export.json")
		require.NoError(t, store.ExportJSON(ctx, QueryOptions{Query: "allocates"}, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entries []ExportEntry
		require.NoError(t, json.Unmarshal(data, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "cons", entries[0].Key)
		assert.NotContains(t, string(data), `"signature"`)
	})
}

func TestNewStore_DefaultsAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doctex.db")
	ctx := context.Background()

	store, err := NewStore(types.CatalogConfig{DBPath: path})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxResults, store.maxResults)
	_, err = store.Ingest(ctx, decode(t, sampleJSON), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(types.CatalogConfig{DBPath: path, MaxResults: 1})
	require.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.Lookup(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
