// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/doctex/internal/document"
	"github.com/pdiddy/doctex/pkg/types"
)

const (
	// DefaultInput is the conventional source document path.
	DefaultInput = "lisp-doc.json"
	// DefaultOutput is the conventional LaTeX output path.
	DefaultOutput = "doc.tex"
)

// Summary describes a completed RenderFile run.
type Summary struct {
	Entries int
	Bytes   int64
	Output  string
}

// RenderFile loads cfg.Input, then creates or truncates cfg.Output and
// writes the rendered document to it. The output file is flushed and closed
// on every path. A failure after writing has started leaves a truncated
// file behind; it is not removed.
func RenderFile(cfg types.RenderConfig, log io.Writer) (summary Summary, err error) {
	if cfg.Input == "" {
		cfg.Input = DefaultInput
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}

	doc, err := document.Load(cfg.Input)
	if err != nil {
		return summary, err
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return summary, fmt.Errorf("creating output: %w", err)
	}
	bw := bufio.NewWriter(f)
	defer func() {
		flushErr := bw.Flush()
		closeErr := f.Close()
		if err == nil && flushErr != nil {
			err = fmt.Errorf("writing output: %w", flushErr)
		}
		if closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing output: %w", closeErr))
		}
		if err == nil {
			fmt.Fprintf(log, "rendered %d entries from %s to %s\n", summary.Entries, cfg.Input, cfg.Output)
		}
	}()

	r := New(Options{Escape: cfg.Escape, Standalone: cfg.Standalone})
	n, err := r.Render(bw, doc)
	summary = Summary{Entries: doc.Len(), Bytes: n, Output: cfg.Output}
	return summary, err
}
