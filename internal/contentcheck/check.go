// Package contentcheck renders every activity of a catalog headlessly to
// catch content that loads but does not play.
package contentcheck

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/loader"
	"github.com/ziadkadry99/playdeck/internal/logger"
	"github.com/ziadkadry99/playdeck/internal/markup"
)

// Problem is a finding about one activity or section.
type Problem struct {
	Activity string
	Message  string
}

func (p Problem) String() string {
	if p.Activity == "" {
		return p.Message
	}
	return p.Activity + ": " + p.Message
}

// Run loads and renders every activity of cat in its own document and
// reports what went wrong. Static catalog warnings come first.
func Run(cat *content.Catalog, rep Reporter) []Problem {
	var problems []Problem
	for _, w := range cat.Check() {
		problems = append(problems, Problem{Activity: w.Activity, Message: w.String()})
	}
	md := markup.New()
	ids := cat.ActivityIDs()
	if rep != nil {
		rep.Start(len(ids))
	}
	for i, id := range ids {
		problems = append(problems, renderOne(cat, md, id)...)
		if rep != nil {
			rep.Update(i+1, id)
		}
	}
	if rep != nil {
		rep.Finish()
	}
	return problems
}

// warnCollector keeps every warning or error logged while rendering.
type warnCollector struct {
	zapcore.LevelEnabler
	msgs *[]string
}

func (c warnCollector) With([]zapcore.Field) zapcore.Core { return c }
func (c warnCollector) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}
func (c warnCollector) Write(e zapcore.Entry, _ []zapcore.Field) error {
	*c.msgs = append(*c.msgs, e.Message)
	return nil
}
func (c warnCollector) Sync() error { return nil }

func renderOne(cat *content.Catalog, md *markup.Renderer, id string) (problems []Problem) {
	var msgs []string
	log := &logger.Logger{SugaredLogger: zap.New(warnCollector{LevelEnabler: zapcore.WarnLevel, msgs: &msgs}).Sugar()}
	doc := dom.NewDocument()
	l := loader.New(cat, activity.Env{
		Doc:       doc,
		Scheduler: eventloop.NewManual(),
		Log:       log,
		Audio:     activity.RemoteAudio,
		Markdown:  md,
	})
	defer func() {
		if r := recover(); r != nil {
			problems = append(problems, Problem{Activity: id, Message: fmt.Sprintf("render panicked: %v", r)})
		}
	}()
	a := l.Load(id)
	for _, m := range msgs {
		problems = append(problems, Problem{Activity: id, Message: m})
	}
	if a == nil {
		return problems
	}
	if el, ok := doc.Element(a.ContainerID()); !ok || el.HTML() == "" {
		problems = append(problems, Problem{Activity: id, Message: "rendered nothing"})
	}
	l.UnloadAll()
	return problems
}
