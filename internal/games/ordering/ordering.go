// Package ordering is the sequencing game: put shuffled items back in their
// canonical order by dragging, arrow keys, or tapping two items to swap.
package ordering

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/drag"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

// CompleteDelay separates a successful verify from completion.
const CompleteDelay = 800 * time.Millisecond

const maxReshuffles = 10

// Game is a live ordering game.
type Game struct {
	*activity.Base

	items     map[string]activity.Item
	canonical []string
	order     []string
	selected  string
	locked    bool
	checks    int

	drag *drag.Controller
}

// New prepares the sequence. Items are ranked by their Order field; ties
// keep configuration order.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	if len(cfg.Items) < 2 {
		g.Log().Warn("ordering activity needs at least two items", "items", len(cfg.Items))
	}
	sorted := append([]activity.Item(nil), cfg.Items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	g.items = make(map[string]activity.Item, len(sorted))
	for _, it := range sorted {
		g.items[it.ID] = it
		g.canonical = append(g.canonical, it.ID)
	}
	g.drag = drag.New(g.Caps(), g.onDrop)
	g.arrange()
	return g
}

func (g *Game) arrange() {
	g.order = append([]string(nil), g.canonical...)
	if g.Settings().Bool("shuffle", true) && len(g.order) > 1 {
		for range maxReshuffles {
			g.order = textutil.Shuffle(g.canonical)
			if !slices.Equal(g.order, g.canonical) {
				break
			}
		}
	}
	g.selected = ""
	g.locked = false
	g.checks = 0
	g.drag.SetEnabled(true)
}

// Order returns the current arrangement.
func (g *Game) Order() []string { return append([]string(nil), g.order...) }

// Canonical returns the solution.
func (g *Game) Canonical() []string { return append([]string(nil), g.canonical...) }

// Locked reports whether the sequence was solved and frozen.
func (g *Game) Locked() bool { return g.locked }

// Selected returns the item picked for a tap swap, or "".
func (g *Game) Selected() string { return g.selected }

func (g *Game) index(id string) int { return slices.Index(g.order, id) }

// Move takes item out of the sequence and reinserts it at target's
// position.
func (g *Game) Move(item, target string) bool {
	from, to := g.index(item), g.index(target)
	if g.locked || from < 0 || to < 0 || from == to {
		return false
	}
	g.order = slices.Delete(g.order, from, from+1)
	g.order = slices.Insert(g.order, to, item)
	g.selected = ""
	g.Render()
	return true
}

// Swap exchanges two items.
func (g *Game) Swap(a, b string) bool {
	i, j := g.index(a), g.index(b)
	if g.locked || i < 0 || j < 0 || i == j {
		return false
	}
	g.order[i], g.order[j] = g.order[j], g.order[i]
	g.Render()
	return true
}

// Nudge swaps item with its neighbour; delta is -1 or +1.
func (g *Game) Nudge(item string, delta int) bool {
	i := g.index(item)
	j := i + delta
	if i < 0 || j < 0 || j >= len(g.order) {
		return false
	}
	return g.Swap(item, g.order[j])
}

// Select implements tap-to-swap: the first tap selects, a tap on another
// item swaps the two, a second tap on the same item deselects.
func (g *Game) Select(item string) {
	if g.locked || g.index(item) < 0 {
		return
	}
	switch g.selected {
	case "":
		g.selected = item
	case item:
		g.selected = ""
	default:
		other := g.selected
		g.selected = ""
		if g.Swap(other, item) {
			return
		}
	}
	g.Render()
}

// Verify compares the arrangement to the solution position by position and
// returns the number of items in the right place. A full match locks the
// sequence and completes after CompleteDelay.
func (g *Game) Verify() int {
	if g.locked {
		return len(g.order)
	}
	g.checks++
	correct := 0
	for i, id := range g.order {
		if g.canonical[i] == id {
			correct++
		}
	}
	if correct == len(g.canonical) {
		g.locked = true
		g.selected = ""
		g.drag.SetEnabled(false)
		g.Render()
		g.Feedback(activity.FeedbackSuccess, "Perfect order!")
		g.After(g.Settings().Millis("completeDelay", CompleteDelay), g.Complete)
		return correct
	}
	g.Feedback(activity.FeedbackInfo, fmt.Sprintf("%d of %d in the right place. Keep going!", correct, len(g.canonical)))
	return correct
}

func (g *Game) onDrop(target, item string) {
	g.Move(item, target)
}

type itemView struct {
	ID       string
	Item     activity.Item
	Position int
	Selected bool
}

var tmpl = activity.NewTemplate("ordering", `{{template "header" .Header}}
{{with .Data}}<ol class="ordering-list{{if .Locked}} locked{{end}}">
{{range .Items}}<li class="ordering-item{{if .Selected}} selected{{end}}" data-id="{{.ID}}" data-action="select" tabindex="0"{{if not $.Data.Locked}} draggable="true"{{end}}>
<span class="position">{{add .Position 1}}</span>{{if .Item.Image}}<img src="{{.Item.Image}}" alt="{{.Item.Text}}">{{end}}<span>{{.Item.Text}}</span>
</li>
{{end}}</ol>
{{if not .Locked}}<button class="verify" data-action="verify">Check order</button>{{end}}{{end}}`)

// Render draws the list.
func (g *Game) Render() {
	var v struct {
		Items  []itemView
		Locked bool
	}
	v.Locked = g.locked
	for i, id := range g.order {
		v.Items = append(v.Items, itemView{ID: id, Item: g.items[id], Position: i, Selected: id == g.selected})
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		g.drag.Bind(el)
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "verify":
				g.Verify()
			case "select":
				g.Select(ev.Target)
			}
		})
		el.On(dom.KeyDown, func(ev dom.Event) {
			switch ev.Key {
			case "ArrowUp", "ArrowLeft":
				g.Nudge(ev.Target, -1)
			case "ArrowDown", "ArrowRight":
				g.Nudge(ev.Target, 1)
			case "Enter", " ":
				g.Select(ev.Target)
			}
		})
	})
}

// Reset reshuffles and unlocks.
func (g *Game) Reset() {
	g.ResetState()
	g.arrange()
	g.Render()
}
