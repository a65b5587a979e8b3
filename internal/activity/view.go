package activity

import (
	"html/template"
	"strings"
)

// Header is the title block every activity shows above its body.
type Header struct {
	ID           string
	Title        string
	Instructions template.HTML
}

// Header builds the title block from the configuration.
func (b *Base) Header() Header {
	h := Header{ID: b.cfg.ID, Title: b.cfg.Title}
	if b.cfg.Instructions != "" {
		if b.env.Markdown != nil {
			h.Instructions = b.env.Markdown.Render(b.cfg.Instructions)
		} else {
			h.Instructions = template.HTML("<p>" + template.HTMLEscapeString(b.cfg.Instructions) + "</p>")
		}
	}
	return h
}

const sharedTemplates = `{{define "header"}}<header class="activity-header" data-activity="{{.ID}}"><h3>{{.Title}}</h3>{{if .Instructions}}<div class="activity-instructions">{{.Instructions}}</div>{{end}}</header>{{end}}`

var funcs = template.FuncMap{
	"add":  func(a, b int) int { return a + b },
	"join": strings.Join,
	"pct": func(n, total int) int {
		if total == 0 {
			return 0
		}
		return n * 100 / total
	},
}

// NewTemplate parses a variant body. The body is executed with
// {Header, Data} and can include the shared header with
// {{template "header" .Header}}.
func NewTemplate(name, body string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(sharedTemplates))
	return template.Must(t.Parse(body))
}
