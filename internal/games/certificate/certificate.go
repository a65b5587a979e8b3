// Package certificate draws a personalised completion certificate the
// learner can download.
package certificate

import (
	"encoding/base64"
	"html/template"
	"regexp"
	"strings"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
)

// MaxNameLength bounds the name drawn on the sheet.
const MaxNameLength = 60

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// Game is the certificate activity.
type Game struct {
	*activity.Base

	name     string
	png      []byte
	filename string
}

// New prepares the form.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	return &Game{Base: activity.NewBase(cfg, containerID, env)}
}

// PNG returns the last rendered certificate.
func (g *Game) PNG() []byte { return g.png }

// Filename is the suggested download name.
func (g *Game) Filename() string { return g.filename }

// Generate draws the certificate for name. It completes the activity
// once the image has been produced.
func (g *Game) Generate(name string) bool {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		g.Feedback(activity.FeedbackWarning, "Please enter your name.")
		return false
	}
	if r := []rune(name); len(r) > MaxNameLength {
		name = string(r[:MaxNameLength])
	}
	s := Sheet{Name: name, Date: g.Now()}
	if c := g.Config().Certificate; c != nil {
		s.Heading, s.Body, s.Signature = c.Heading, c.Body, c.Signature
		s.Width, s.Height = c.Width, c.Height
		if s.Width > MaxDimension || s.Height > MaxDimension {
			g.Log().Warn("certificate size clamped", "width", s.Width, "height", s.Height, "max", MaxDimension)
		}
	}
	png, err := Draw(s)
	if err != nil {
		g.Log().Error("drawing certificate", "error", err)
		g.Feedback(activity.FeedbackError, "Sorry, the certificate could not be created.")
		return false
	}
	g.name = name
	g.png = png
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "learner"
	}
	g.filename = "certificate-" + slug + ".png"
	g.Render()
	g.Complete()
	return true
}

// DataURL encodes the certificate for an <a download> link.
func (g *Game) DataURL() string {
	if g.png == nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(g.png)
}

var tmpl = activity.NewTemplate("certificate", `{{template "header" .Header}}
{{with .Data}}<form class="certificate-form" data-action="generate">
<label>Your name <input type="text" name="name" maxlength="60" value="{{.Name}}"></label>
<button type="submit">Create my certificate</button>
</form>
{{if .URL}}<figure class="certificate-preview"><img src="{{.URL}}" alt="Certificate for {{.Name}}">
<figcaption><a class="certificate-download" href="{{.URL}}" download="{{.Filename}}">Download</a></figcaption></figure>{{end}}{{end}}`)

// Render draws the form and the latest certificate.
func (g *Game) Render() {
	v := struct {
		Name     string
		URL      template.URL
		Filename string
	}{g.name, template.URL(g.DataURL()), g.filename}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Submit, func(ev dom.Event) {
			g.Generate(ev.Value)
		})
	})
}

// Reset clears the name and the image.
func (g *Game) Reset() {
	g.ResetState()
	g.name, g.png, g.filename = "", nil, ""
	g.Render()
}
