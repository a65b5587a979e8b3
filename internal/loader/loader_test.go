package loader

import (
	"testing"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memSource struct {
	activities map[string]*activity.Config
	sections   map[string][]string
}

func (m memSource) Activity(id string) (*activity.Config, bool) {
	c, ok := m.activities[id]
	return c, ok
}

func (m memSource) SectionActivities(id string) ([]string, bool) {
	ids, ok := m.sections[id]
	return ids, ok
}

func source() memSource {
	return memSource{
		activities: map[string]*activity.Config{
			"pairs": {ID: "pairs", Type: activity.TypeMatching, Pairs: []activity.Pair{{ID: "1", A: activity.Face{Text: "uno"}, B: activity.Face{Text: "one"}}}},
			"walk":  {ID: "walk", Type: activity.TypeMaze, Maze: &activity.Maze{GridSize: 3, End: activity.Cell{X: 2, Y: 2}}},
			"odd":   {ID: "odd", Type: "crossword"},
		},
		sections: map[string][]string{
			"week-1": {"pairs", "walk", "missing"},
			"week-2": {"odd"},
		},
	}
}

func newLoader(t *testing.T) (*Loader, *dom.Document, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	doc := dom.NewDocument()
	l := New(source(), activity.Env{
		Doc:       doc,
		Scheduler: eventloop.NewManual(),
		Log:       &logger.Logger{SugaredLogger: zap.New(core).Sugar()},
	})
	return l, doc, logs
}

func TestEveryTypeHasConstructor(t *testing.T) {
	for _, typ := range activity.Types {
		if _, ok := ConstructorFor(typ); !ok {
			t.Errorf("no constructor for %q", typ)
		}
	}
	if _, ok := ConstructorFor("crossword"); ok {
		t.Error("unknown type should have no constructor")
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	l, doc, _ := newLoader(t)
	a := l.Load("pairs")
	if a == nil {
		t.Fatal("Load returned nil")
	}
	if !a.IsActive() {
		t.Error("loaded activity should be rendered")
	}
	if b := l.Load("pairs"); b != a {
		t.Error("second Load returned a different instance")
	}
	el, ok := doc.Element(ContainerID("pairs"))
	if !ok || el.HTML() == "" {
		t.Error("mount element missing or empty")
	}
}

func TestLoadMissingConfig(t *testing.T) {
	l, _, logs := newLoader(t)
	if a := l.Load("nope"); a != nil {
		t.Fatal("expected nil")
	}
	if logs.FilterMessage("no configuration for activity").FilterLevelExact(zap.ErrorLevel).Len() != 1 {
		t.Error("expected an error log")
	}
}

func TestLoadUnknownType(t *testing.T) {
	l, doc, logs := newLoader(t)
	if a := l.Load("odd"); a != nil {
		t.Fatal("expected nil")
	}
	if logs.FilterMessage("activity type not implemented").FilterLevelExact(zap.WarnLevel).Len() != 1 {
		t.Error("expected a warning log")
	}
	if _, ok := doc.Element(ContainerID("odd")); ok {
		t.Error("no mount element should be created for an unknown type")
	}
}

func TestSectionSwitch(t *testing.T) {
	l, doc, _ := newLoader(t)
	got := l.LoadSection("week-1")
	if len(got) != 2 {
		t.Fatalf("loaded %d activities, want 2", len(got))
	}
	if live := l.Live(); len(live) != 2 || live[0] != "pairs" || live[1] != "walk" {
		t.Fatalf("live = %v", live)
	}
	pairs := got[0]
	l.UnloadSection("week-1")
	if len(l.Live()) != 0 {
		t.Errorf("live after unload = %v", l.Live())
	}
	if pairs.IsActive() {
		t.Error("unloaded activity should be inactive")
	}
	if len(doc.IDs()) != 0 {
		t.Errorf("mount elements left: %v", doc.IDs())
	}
}

func TestUnloadKeepsPageElements(t *testing.T) {
	l, doc, _ := newLoader(t)
	doc.Mount(ContainerID("walk"))
	l.Load("walk")
	l.UnloadAll()
	el, ok := doc.Element(ContainerID("walk"))
	if !ok {
		t.Fatal("page-owned element removed")
	}
	if el.HTML() != "" {
		t.Error("element should be cleared")
	}
	l.Unload("walk")
}

func TestCompletionObserverInjected(t *testing.T) {
	var got []activity.Completion
	doc := dom.NewDocument()
	l := New(source(), activity.Env{
		Doc:        doc,
		Scheduler:  eventloop.NewManual(),
		OnComplete: func(c activity.Completion) { got = append(got, c) },
	})
	a := l.Load("walk")
	a.Complete()
	a.Complete()
	if len(got) != 1 || got[0].ActivityID != "walk" || got[0].ActivityType != activity.TypeMaze {
		t.Errorf("completions = %+v", got)
	}
}
