package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotesText(t *testing.T) {
	tests := []struct {
		name  string
		notes *Notes
		want  string
	}{
		{name: "nil", notes: nil, want: ""},
		{name: "single", notes: SingleNotes("a. b."), want: "a. b."},
		{name: "multiple joined by spaces", notes: MultipleNotes("a.", "b."), want: "a. b."},
		{name: "multiple empty", notes: MultipleNotes(), want: ""},
		{name: "single keeps inner spacing", notes: SingleNotes("a.  b."), want: "a.  b."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notes.Text())
		})
	}
}

func TestDocumentSet(t *testing.T) {
	doc := NewDocument()
	doc.Set("b", Entry{Name: Ptr("first")})
	doc.Set("a", Entry{})
	doc.Set("b", Entry{Name: Ptr("second")})

	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, []string{"b", "a"}, doc.Keys())

	e, ok := doc.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "second", *e.Name)

	_, ok = doc.Get("missing")
	assert.False(t, ok)
}

func TestDocumentEach(t *testing.T) {
	doc := NewDocument()
	for _, k := range []string{"x", "y", "z"} {
		doc.Set(k, Entry{})
	}

	var seen []string
	stop := errors.New("stop")
	err := doc.Each(func(key string, _ Entry) error {
		seen = append(seen, key)
		if key == "y" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"x", "y"}, seen)
}

func TestNilDocument(t *testing.T) {
	var doc *Document
	assert.Equal(t, 0, doc.Len())
	assert.Nil(t, doc.Keys())
	assert.NoError(t, doc.Each(func(string, Entry) error { return nil }))
}
