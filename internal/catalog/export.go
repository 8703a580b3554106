// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctex/pkg/types"
)

// ExportEntry is the serialized form of a catalog entry. Absent fields are
// omitted.
type ExportEntry struct {
	Key         string           `json:"key" yaml:"key"`
	Name        *string          `json:"name,omitempty" yaml:"name,omitempty"`
	Signature   *string          `json:"signature,omitempty" yaml:"signature,omitempty"`
	Description *string          `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []types.Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Examples    []string         `json:"examples,omitempty" yaml:"examples,omitempty"`
	Type        *string          `json:"type,omitempty" yaml:"type,omitempty"`
	Notes       *string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes matching catalog entries to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching catalog entries to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Lookup(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ToExport(r.Key, r.Entry)
	}
	return entries, nil
}

// ToExport converts an entry to its serialized form. Notes are flattened to
// their rendered text.
func ToExport(key string, e types.Entry) ExportEntry {
	out := ExportEntry{
		Key:         key,
		Name:        e.Name,
		Signature:   e.Signature,
		Description: e.Description,
		Arguments:   e.Arguments,
		Examples:    e.Examples,
		Type:        e.Type,
	}
	if e.Notes != nil {
		text := e.Notes.Text()
		out.Notes = &text
	}
	return out
}
