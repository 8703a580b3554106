// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Argument documents one parameter of an entry. Arguments keep the order in
// which they appear in the source document.
type Argument struct {
	// Name is the parameter name, rendered in bold.
	Name string `json:"name" yaml:"name"`

	// Description explains the parameter.
	Description string `json:"description" yaml:"description"`
}

// NotesKind distinguishes the two shapes a Notes field can take in the
// source document.
type NotesKind int

const (
	// NotesSingle holds one string.
	NotesSingle NotesKind = iota
	// NotesMultiple holds a sequence of strings joined with single spaces.
	NotesMultiple
)

// Notes is the free-form remark attached to an entry. The source may give it
// as a single string or as a list of sentences.
type Notes struct {
	Kind  NotesKind
	Parts []string
}

// SingleNotes returns Notes holding one string.
func SingleNotes(s string) *Notes {
	return &Notes{Kind: NotesSingle, Parts: []string{s}}
}

// MultipleNotes returns Notes holding a sequence of strings.
func MultipleNotes(parts ...string) *Notes {
	return &Notes{Kind: NotesMultiple, Parts: parts}
}

// Text returns the rendered notes: the single string, or the parts joined
// with single spaces.
func (n *Notes) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind == NotesSingle {
		if len(n.Parts) == 0 {
			return ""
		}
		return n.Parts[0]
	}
	return strings.Join(n.Parts, " ")
}

// Entry describes one documented item. Every field is optional; a nil pointer
// or a false Has flag means the field was absent from the source.
type Entry struct {
	Name        *string
	Signature   *string
	Description *string

	// Arguments lists parameters in source order. HasArguments separates an
	// empty argument map from an absent one.
	Arguments    []Argument
	HasArguments bool

	// Examples lists usage examples in source order.
	Examples    []string
	HasExamples bool

	Type  *string
	Notes *Notes
}

// Document is an ordered mapping from entry key to Entry. Keys keep the
// position of their first appearance; setting an existing key replaces its
// entry in place.
type Document struct {
	keys    []string
	entries map[string]Entry
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{entries: make(map[string]Entry)}
}

// Len returns the number of entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the entry keys in document order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the entry stored under key.
func (d *Document) Get(key string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	e, ok := d.entries[key]
	return e, ok
}

// Set stores entry under key, appending the key if it is new.
func (d *Document) Set(key string, entry Entry) {
	if d.entries == nil {
		d.entries = make(map[string]Entry)
	}
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = entry
}

// Each calls fn for every entry in document order, stopping at the first
// error.
func (d *Document) Each(fn func(key string, e Entry) error) error {
	if d == nil {
		return nil
	}
	for _, k := range d.keys {
		if err := fn(k, d.entries[k]); err != nil {
			return err
		}
	}
	return nil
}

// Ptr returns a pointer to s. It keeps literal Entry construction short.
func Ptr(s string) *string {
	return &s
}
