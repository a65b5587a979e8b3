// Package markup renders the markdown used in content tables (section
// summaries, activity instructions) into HTML fragments.
package markup

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts markdown to trusted HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a renderer with GitHub-flavoured markdown and code
// highlighting. Raw HTML in the source is escaped.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts src. On a conversion error the source is returned
// escaped so a malformed entry still shows something.
func (r *Renderer) Render(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
