// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document loads entry documents from JSON or YAML while keeping
// the source order of entries, arguments, and examples.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doctex/pkg/types"
)

// Entry field names as they appear in the source document.
const (
	fieldName        = "Name"
	fieldSignature   = "Signature"
	fieldDescription = "Description"
	fieldArguments   = "Arguments"
	fieldExamples    = "Examples"
	fieldType        = "Type"
	fieldNotes       = "Notes"
)

// Load reads the document at path. Files ending in .yaml or .yml are parsed
// as YAML; everything else is parsed as JSON.
func Load(path string) (*types.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFor(path))
}

// FormatFor picks the document format from the file extension.
func FormatFor(path string) types.DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatJSON
	}
}

// Decode parses a complete document from r.
func Decode(r io.Reader, format types.DocumentFormat) (*types.Document, error) {
	var (
		root *value
		err  error
	)
	switch format {
	case types.FormatJSON, "":
		root, err = parseJSON(r)
	case types.FormatYAML:
		root, err = parseYAML(r)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	doc, err := buildDocument(root)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}

func buildDocument(root *value) (*types.Document, error) {
	if root.kind != kindObject {
		return nil, fmt.Errorf("top level must be an object, got %s", root.kind)
	}
	doc := types.NewDocument()
	for _, m := range root.members {
		entry, err := buildEntry(m.value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", m.key, err)
		}
		doc.Set(m.key, entry)
	}
	return doc, nil
}

// buildEntry converts one entry object. Unknown fields are ignored and a
// repeated field keeps its last value.
func buildEntry(v *value) (types.Entry, error) {
	var e types.Entry
	if v.kind != kindObject {
		return e, fmt.Errorf("expected an object, got %s", v.kind)
	}

	for _, m := range v.members {
		var err error
		switch m.key {
		case fieldName:
			e.Name, err = optionalText(m.value)
		case fieldSignature:
			e.Signature, err = optionalText(m.value)
		case fieldDescription:
			e.Description, err = optionalText(m.value)
		case fieldType:
			e.Type, err = optionalText(m.value)
		case fieldArguments:
			e.Arguments, e.HasArguments, err = arguments(m.value)
		case fieldExamples:
			e.Examples, e.HasExamples, err = examples(m.value)
		case fieldNotes:
			e.Notes, err = notes(m.value)
		}
		if err != nil {
			return e, fmt.Errorf("field %s: %w", m.key, err)
		}
	}
	return e, nil
}

// optionalText returns nil for null and the literal text of any scalar. A
// null field is absent: it renders nothing rather than a placeholder value.
func optionalText(v *value) (*string, error) {
	if v.kind == kindNull {
		return nil, nil
	}
	s, err := text(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// text returns the literal text of a scalar; null reads as the empty string.
func text(v *value) (string, error) {
	switch v.kind {
	case kindScalar:
		return v.text, nil
	case kindNull:
		return "", nil
	default:
		return "", fmt.Errorf("expected a scalar, got %s", v.kind)
	}
}

func arguments(v *value) ([]types.Argument, bool, error) {
	if v.kind == kindNull {
		return nil, false, nil
	}
	if v.kind != kindObject {
		return nil, false, fmt.Errorf("expected an object, got %s", v.kind)
	}

	args := make([]types.Argument, 0, len(v.members))
	index := make(map[string]int, len(v.members))
	for _, m := range v.members {
		desc, err := text(m.value)
		if err != nil {
			return nil, false, fmt.Errorf("argument %q: %w", m.key, err)
		}
		if i, ok := index[m.key]; ok {
			args[i].Description = desc
			continue
		}
		index[m.key] = len(args)
		args = append(args, types.Argument{Name: m.key, Description: desc})
	}
	return args, true, nil
}

func examples(v *value) ([]string, bool, error) {
	if v.kind == kindNull {
		return nil, false, nil
	}
	if v.kind != kindArray {
		return nil, false, fmt.Errorf("expected an array, got %s", v.kind)
	}
	out, err := texts(v.items)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func notes(v *value) (*types.Notes, error) {
	switch v.kind {
	case kindNull:
		return nil, nil
	case kindScalar:
		return types.SingleNotes(v.text), nil
	case kindArray:
		parts, err := texts(v.items)
		if err != nil {
			return nil, err
		}
		return types.MultipleNotes(parts...), nil
	default:
		return nil, fmt.Errorf("expected a string or an array, got %s", v.kind)
	}
}

func texts(items []*value) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := text(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
