// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strings"

// latexEscaper replaces the characters LaTeX treats specially in text mode.
// strings.Replacer works in a single pass, so the braces it inserts are not
// escaped again.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape returns s with LaTeX special characters escaped for text mode.
func Escape(s string) string {
	return latexEscaper.Replace(s)
}
