// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a Document into a LaTeX fragment: one \subsection per
// entry, each holding an itemize list of the entry's fields.
package render

import (
	"fmt"
	"io"

	"github.com/pdiddy/doctex/pkg/types"
)

// Options controls optional transformations applied while rendering. The
// zero value embeds every value verbatim.
type Options struct {
	// Escape escapes LaTeX special characters in headings, free text, and
	// typewriter spans. Type values are math and are never escaped.
	Escape bool

	// Standalone wraps the fragment in a minimal article document.
	Standalone bool
}

const (
	preamble  = "\\documentclass{article}\n\\begin{document}\n\n"
	postamble = "\\end{document}\n"
)

// Renderer writes documents as LaTeX.
type Renderer struct {
	opts Options
}

// New returns a Renderer using opts.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render writes every entry of doc to w in document order and returns the
// number of bytes written. An empty document without Standalone produces no
// output.
func (r *Renderer) Render(w io.Writer, doc *types.Document) (int64, error) {
	sw := &stickyWriter{w: w}
	if r.opts.Standalone {
		sw.printf("%s", preamble)
	}
	if err := doc.Each(func(key string, e types.Entry) error {
		r.entry(sw, key, e)
		return sw.err
	}); err != nil {
		return sw.n, err
	}
	if r.opts.Standalone {
		sw.printf("%s", postamble)
	}
	return sw.n, sw.err
}

// RenderEntry writes a single entry block, headed by key.
func (r *Renderer) RenderEntry(w io.Writer, key string, e types.Entry) (int64, error) {
	sw := &stickyWriter{w: w}
	r.entry(sw, key, e)
	return sw.n, sw.err
}

// entry emits the fields in fixed order: Name, Signature, Description,
// Arguments, Examples, Type, Notes. The heading uses the key, not Name.
func (r *Renderer) entry(sw *stickyWriter, key string, e types.Entry) {
	sw.printf("\\subsection{%s}\n", r.text(key))
	sw.printf("\\begin{itemize}\n")

	if e.Name != nil {
		sw.printf("    \\item Name: %s \n", r.text(*e.Name))
	}
	if e.Signature != nil {
		sw.printf("    \\item Signature: \\texttt{%s}\n", r.text(*e.Signature))
	}
	if e.Description != nil {
		sw.printf("    \\item Description: %s\n", r.text(*e.Description))
	}
	if e.HasArguments {
		sw.printf("    \\item Arguments: \n")
		sw.printf("        \\begin{itemize}\n")
		for _, a := range e.Arguments {
			sw.printf("            \\item \\textbf{%s} : %s\n", r.text(a.Name), r.text(a.Description))
		}
		sw.printf("        \\end{itemize}\n")
	}
	if e.HasExamples {
		sw.printf("    \\item Examples :\n")
		sw.printf("        \\begin{itemize}\n")
		for _, ex := range e.Examples {
			sw.printf("            \\item \\texttt{%s}\n", r.text(ex))
		}
		sw.printf("        \\end{itemize}\n")
	}
	if e.Type != nil {
		sw.printf("    \\item Type : \\[%s\\]\n", *e.Type)
	}
	if e.Notes != nil {
		sw.printf("    \\item Notes : %s\n", r.text(e.Notes.Text()))
	}

	sw.printf("\\end{itemize}\n")
	sw.printf("\n")
}

func (r *Renderer) text(s string) string {
	if r.opts.Escape {
		return Escape(s)
	}
	return s
}

// stickyWriter keeps the first write error and turns later writes into
// no-ops, so the entry layout reads as a flat sequence of printf calls.
type stickyWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (s *stickyWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	n, err := fmt.Fprintf(s.w, format, args...)
	s.n += int64(n)
	if err != nil {
		s.err = fmt.Errorf("writing output: %w", err)
	}
}
