// Package loader maps activity ids to live instances and type tags to the
// variant that plays them.
package loader

import (
	"sort"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/games/categorize"
	"github.com/ziadkadry99/playdeck/internal/games/certificate"
	"github.com/ziadkadry99/playdeck/internal/games/challenge"
	"github.com/ziadkadry99/playdeck/internal/games/fillblank"
	"github.com/ziadkadry99/playdeck/internal/games/flashcards"
	"github.com/ziadkadry99/playdeck/internal/games/matching"
	"github.com/ziadkadry99/playdeck/internal/games/maze"
	"github.com/ziadkadry99/playdeck/internal/games/ordering"
	"github.com/ziadkadry99/playdeck/internal/games/soundmatch"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

// Source provides static activity configuration.
type Source interface {
	Activity(id string) (*activity.Config, bool)
	SectionActivities(sectionID string) ([]string, bool)
}

// Constructor builds a variant bound to a container.
type Constructor func(cfg *activity.Config, containerID string, env activity.Env) activity.Activity

// ConstructorFor returns the constructor for t. Every entry of activity.Types
// has a case here.
func ConstructorFor(t activity.Type) (Constructor, bool) {
	switch t {
	case activity.TypeMatching:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return matching.New(c, id, env)
		}, true
	case activity.TypeFlashcards:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return flashcards.New(c, id, env)
		}, true
	case activity.TypeOrdering:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return ordering.New(c, id, env)
		}, true
	case activity.TypeCategorize:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return categorize.New(c, id, env)
		}, true
	case activity.TypeFillBlank:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return fillblank.New(c, id, env)
		}, true
	case activity.TypeSoundMatch:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return soundmatch.New(c, id, env)
		}, true
	case activity.TypeMaze:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return maze.New(c, id, env)
		}, true
	case activity.TypeChallenge:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return challenge.New(c, id, env)
		}, true
	case activity.TypeCertificate:
		return func(c *activity.Config, id string, env activity.Env) activity.Activity {
			return certificate.New(c, id, env)
		}, true
	}
	return nil, false
}

// ContainerID is the mount element id for an activity.
func ContainerID(activityID string) string { return "activity-" + activityID }

// Loader is the registry of live activities for one document. Like the
// document it belongs to a single event loop.
type Loader struct {
	source  Source
	env     activity.Env
	log     *logger.Logger
	live    map[string]activity.Activity
	created map[string]bool
}

// New returns a loader that builds activities with env. env.OnComplete is
// handed to every instance.
func New(source Source, env activity.Env) *Loader {
	log := env.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		source:  source,
		env:     env,
		log:     log,
		live:    make(map[string]activity.Activity),
		created: make(map[string]bool),
	}
}

// Load returns the live instance for id, building and rendering it on
// first use. It returns nil when id has no configuration or its type has
// no implementation.
func (l *Loader) Load(id string) activity.Activity {
	if a, ok := l.live[id]; ok {
		return a
	}
	cfg, ok := l.source.Activity(id)
	if !ok {
		l.log.Error("no configuration for activity", "activity", id)
		return nil
	}
	ctor, ok := ConstructorFor(cfg.Type)
	if !ok {
		l.log.Warn("activity type not implemented", "activity", id, "type", string(cfg.Type))
		return nil
	}
	container := ContainerID(id)
	if l.env.Doc != nil {
		if _, exists := l.env.Doc.Element(container); !exists {
			l.env.Doc.Mount(container)
			l.created[container] = true
		}
	}
	a := ctor(cfg, container, l.env)
	a.Render()
	l.live[id] = a
	l.log.Debug("activity loaded", "activity", id, "type", string(cfg.Type))
	return a
}

// Unload destroys the instance for id, if any.
func (l *Loader) Unload(id string) {
	a, ok := l.live[id]
	if !ok {
		return
	}
	a.Destroy()
	delete(l.live, id)
	if c := a.ContainerID(); l.created[c] {
		l.env.Doc.Remove(c)
		delete(l.created, c)
	}
	l.log.Debug("activity unloaded", "activity", id)
}

// LoadSection loads every activity declared in a section and returns the
// ones that could be built, in section order.
func (l *Loader) LoadSection(sectionID string) []activity.Activity {
	ids, ok := l.source.SectionActivities(sectionID)
	if !ok {
		l.log.Error("unknown section", "section", sectionID)
		return nil
	}
	var out []activity.Activity
	for _, id := range ids {
		if a := l.Load(id); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// UnloadSection unloads every activity declared in a section.
func (l *Loader) UnloadSection(sectionID string) {
	ids, _ := l.source.SectionActivities(sectionID)
	for _, id := range ids {
		l.Unload(id)
	}
}

// UnloadAll unloads everything.
func (l *Loader) UnloadAll() {
	for _, id := range l.Live() {
		l.Unload(id)
	}
}

// Instance returns the live instance for id.
func (l *Loader) Instance(id string) (activity.Activity, bool) {
	a, ok := l.live[id]
	return a, ok
}

// Live returns the ids of live instances in sorted order.
func (l *Loader) Live() []string {
	ids := make([]string, 0, len(l.live))
	for id := range l.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
