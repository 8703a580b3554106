package types

// DocumentFormat identifies the serialization of an input document.
type DocumentFormat string

const (
	FormatJSON DocumentFormat = "json"
	FormatYAML DocumentFormat = "yaml"
)

// RenderConfig holds settings for rendering a document to LaTeX.
type RenderConfig struct {
	// Input is the path of the source document (default "lisp-doc.json").
	Input string `json:"input" yaml:"input"`

	// Output is the path of the generated LaTeX file (default "doc.tex").
	// It is created or truncated on every run.
	Output string `json:"output" yaml:"output"`

	// Escape enables escaping of LaTeX special characters in headings and
	// free text. Off by default: values are embedded verbatim.
	Escape bool `json:"escape" yaml:"escape"`

	// Standalone wraps the fragment in a minimal article preamble.
	Standalone bool `json:"standalone" yaml:"standalone"`
}

// CatalogConfig holds settings for the entry catalog database.
type CatalogConfig struct {
	// DBPath is the SQLite database file (default "doctex.db").
	DBPath string `json:"db" yaml:"db"`

	// MaxResults is the default maximum number of lookup results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// TypesetConfig holds settings for compiling rendered LaTeX into PDF
// inside a container.
type TypesetConfig struct {
	// Image is the TeX distribution image (default "texlive/texlive:latest").
	Image string `json:"image" yaml:"image"`

	// Engine is the LaTeX engine invoked inside the container (default "pdflatex").
	Engine string `json:"engine" yaml:"engine"`
}

// Config groups all doctex configuration.
type Config struct {
	Render  RenderConfig  `json:"render" yaml:"render"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Typeset TypesetConfig `json:"typeset" yaml:"typeset"`
}
