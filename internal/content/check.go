package content

import (
	"fmt"

	"github.com/ziadkadry99/playdeck/internal/activity"
)

// Check returns the load warnings plus presence checks over every section
// and activity: unknown types, dangling references and empty payloads.
// Nothing here is fatal; a bad record renders as a visibly broken activity.
func (c *Catalog) Check() []Warning {
	out := append([]Warning(nil), c.warnings...)
	referenced := make(map[string]bool)
	for _, s := range c.sections {
		if len(s.Activities) == 0 {
			out = append(out, Warning{Section: s.ID, Message: "section has no activities"})
		}
		for _, id := range s.Activities {
			referenced[id] = true
			if _, ok := c.activities[id]; !ok {
				out = append(out, Warning{Section: s.ID, Message: fmt.Sprintf("references unknown activity %q", id)})
			}
		}
	}
	for _, id := range c.ActivityIDs() {
		a := c.activities[id]
		src := c.sources[id]
		for _, msg := range checkActivity(a) {
			out = append(out, Warning{Source: src, Activity: id, Message: msg})
		}
		if len(c.sections) > 0 && !referenced[id] {
			out = append(out, Warning{Source: src, Activity: id, Message: "not listed in any section"})
		}
	}
	return out
}

func checkActivity(a *activity.Config) []string {
	var msgs []string
	if a.Type == "" {
		return []string{"missing type"}
	}
	if !a.Type.Known() {
		return []string{fmt.Sprintf("unknown type %q", a.Type)}
	}
	if a.Title == "" {
		msgs = append(msgs, "missing title")
	}
	empty := func(what string) { msgs = append(msgs, "no "+what) }
	switch a.Type {
	case activity.TypeMatching:
		if len(a.Pairs) == 0 {
			empty("pairs")
		}
	case activity.TypeFlashcards:
		if len(a.Cards) == 0 {
			empty("cards")
		}
	case activity.TypeOrdering:
		if len(a.Items) < 2 {
			msgs = append(msgs, "needs at least two items")
		}
	case activity.TypeCategorize:
		if len(a.Categories) == 0 {
			empty("categories")
		}
		if len(a.Items) == 0 {
			empty("items")
		}
		known := make(map[string]bool)
		for _, c := range a.Categories {
			known[c.ID] = true
		}
		for _, it := range a.Items {
			if !known[it.Category] {
				msgs = append(msgs, fmt.Sprintf("item %q has unknown category %q", it.ID, it.Category))
			}
		}
	case activity.TypeFillBlank:
		if len(a.Questions) == 0 {
			empty("questions")
		}
		for _, q := range a.Questions {
			if q.Answer == "" {
				msgs = append(msgs, fmt.Sprintf("question %q has no answer", q.ID))
			}
		}
	case activity.TypeSoundMatch:
		if len(a.Sounds) == 0 {
			empty("sounds")
		}
	case activity.TypeMaze:
		if a.Maze == nil {
			empty("maze")
			break
		}
		n := a.Maze.GridSize
		for _, cell := range []activity.Cell{a.Maze.Start, a.Maze.End} {
			if n > 0 && (cell.X < 0 || cell.Y < 0 || cell.X >= n || cell.Y >= n) {
				msgs = append(msgs, fmt.Sprintf("cell %s outside the %dx%d grid", cell, n, n))
			}
		}
	case activity.TypeChallenge:
		if len(a.Challenges) == 0 {
			empty("challenges")
		}
		for _, ch := range a.Challenges {
			if ch.Answer < 0 || ch.Answer >= len(ch.Options) {
				msgs = append(msgs, fmt.Sprintf("challenge %q answer out of range", ch.ID))
			}
		}
	}
	return msgs
}
