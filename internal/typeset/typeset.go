// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package typeset compiles rendered documents into PDF with a LaTeX engine
// running inside a container, so no local TeX installation is required.
package typeset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/doctex/internal/container"
	"github.com/pdiddy/doctex/internal/document"
	"github.com/pdiddy/doctex/internal/render"
	"github.com/pdiddy/doctex/pkg/types"
)

const (
	// DefaultImage is the TeX distribution image used when none is configured.
	DefaultImage = "texlive/texlive:latest"
	// DefaultEngine is the LaTeX engine used when none is configured.
	DefaultEngine = "pdflatex"
)

// engines lists the LaTeX engines the container command may invoke.
var engines = map[string]bool{
	"pdflatex": true,
	"xelatex":  true,
	"lualatex": true,
}

// Typesetter turns a complete LaTeX document into PDF bytes.
type Typesetter interface {
	Typeset(tex io.Reader, pdf io.Writer) error
}

// ContainerTypesetter runs the LaTeX engine in a container image. It depends
// on a container.Runtime injected at construction time.
type ContainerTypesetter struct {
	runtime container.Runtime
	image   string
	engine  string
}

// NewContainerTypesetter verifies the image (pulling it when pull is set)
// and returns a typesetter for it.
func NewContainerTypesetter(rt container.Runtime, cfg types.TypesetConfig, pull bool) (*ContainerTypesetter, error) {
	image := cfg.Image
	if image == "" {
		image = DefaultImage
	}
	engine := cfg.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	if !engines[engine] {
		return nil, fmt.Errorf("unsupported LaTeX engine %q: use pdflatex, xelatex, or lualatex", engine)
	}
	if err := container.EnsureImage(rt, image, pull); err != nil {
		return nil, fmt.Errorf("TeX image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerTypesetter{runtime: rt, image: image, engine: engine}, nil
}

// Typeset pipes tex into the container and copies the resulting PDF to pdf.
// Engine logs go to the container's stderr.
func (c *ContainerTypesetter) Typeset(tex io.Reader, pdf io.Writer) error {
	var out bytes.Buffer
	if err := c.runtime.Run(c.image, c.command(), tex, &out); err != nil {
		return fmt.Errorf("typesetting with %s: %w", c.engine, err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
		return fmt.Errorf("%s produced no PDF output (%d bytes)", c.engine, out.Len())
	}
	if _, err := out.WriteTo(pdf); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func (c *ContainerTypesetter) command() []string {
	script := "cd /tmp && cat > doc.tex && " + c.engine +
		" -interaction=nonstopmode -halt-on-error doc.tex 1>&2 && cat doc.pdf"
	return []string{"sh", "-c", script}
}

// TypesetFile renders cfg.Input as a standalone document and writes the PDF
// produced by t to pdfPath. The PDF file is only created once typesetting
// has succeeded.
func TypesetFile(t Typesetter, cfg types.RenderConfig, pdfPath string, log io.Writer) (err error) {
	if cfg.Input == "" {
		cfg.Input = render.DefaultInput
	}
	doc, err := document.Load(cfg.Input)
	if err != nil {
		return err
	}

	var tex bytes.Buffer
	r := render.New(render.Options{Escape: cfg.Escape, Standalone: true})
	if _, err := r.Render(&tex, doc); err != nil {
		return err
	}

	var pdf bytes.Buffer
	if err := t.Typeset(&tex, &pdf); err != nil {
		return err
	}

	f, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("creating PDF: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing PDF: %w", cerr))
		}
	}()
	n, err := pdf.WriteTo(f)
	if err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	fmt.Fprintf(log, "typeset %d entries from %s to %s (%d bytes)\n", doc.Len(), cfg.Input, pdfPath, n)
	return nil
}
