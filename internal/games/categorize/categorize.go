// Package categorize is the sorting game: drop each item into the bucket
// it belongs to.
package categorize

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/drag"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

// PoolID is the drop zone holding unplaced items.
const PoolID = "pool"

const bucketPrefix = "bucket:"

// BucketID is the element id of a category's drop zone.
func BucketID(category string) string { return bucketPrefix + category }

// Game is a live categorisation activity. Incorrect placements stay where
// they are until the learner moves them; only a fully correct board ends
// the game.
type Game struct {
	*activity.Base

	items      []activity.Item
	byID       map[string]activity.Item
	categories map[string]bool
	placed     map[string]string
	picked     string

	drag *drag.Controller
}

// New deals the items into the pool.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	g.categories = make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		g.categories[c.ID] = true
	}
	g.byID = make(map[string]activity.Item, len(cfg.Items))
	for _, it := range cfg.Items {
		g.byID[it.ID] = it
		if !g.categories[it.Category] {
			g.Log().Warn("item belongs to an unknown category", "item", it.ID, "category", it.Category)
		}
	}
	g.drag = drag.New(g.Caps(), g.onDrop)
	g.deal()
	return g
}

func (g *Game) deal() {
	g.items = g.Config().Items
	if g.Settings().Bool("shuffle", true) {
		g.items = textutil.Shuffle(g.items)
	}
	g.placed = make(map[string]string)
	g.picked = ""
}

// Placement returns the bucket an item sits in, or "" when unplaced.
func (g *Game) Placement(item string) string { return g.placed[item] }

// Correct reports the number of items in their own bucket.
func (g *Game) Correct() int {
	n := 0
	for id, cat := range g.placed {
		if g.byID[id].Category == cat {
			n++
		}
	}
	return n
}

// Place puts item into category and reports whether it belongs there.
func (g *Game) Place(item, category string) bool {
	it, ok := g.byID[item]
	if !ok || !g.categories[category] || g.IsCompleted() {
		return false
	}
	g.placed[item] = category
	g.picked = ""
	g.Render()
	right := it.Category == category
	g.evaluate(right)
	return right
}

// Unplace returns item to the pool.
func (g *Game) Unplace(item string) {
	if _, ok := g.placed[item]; !ok || g.IsCompleted() {
		return
	}
	delete(g.placed, item)
	g.picked = ""
	g.Render()
}

func (g *Game) evaluate(right bool) {
	if len(g.placed) < len(g.byID) {
		if right {
			g.Feedback(activity.FeedbackSuccess, "Correct!")
		} else {
			g.Feedback(activity.FeedbackError, "Not quite, that one belongs somewhere else.")
		}
		return
	}
	wrong := len(g.byID) - g.Correct()
	if wrong == 0 {
		g.Complete()
		return
	}
	g.Feedback(activity.FeedbackWarning, fmt.Sprintf("All placed, but %d %s in the wrong group.", wrong, plural(wrong, "item is", "items are")))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (g *Game) onDrop(target, item string) {
	switch {
	case target == PoolID:
		g.Unplace(item)
	case strings.HasPrefix(target, bucketPrefix):
		g.Place(item, strings.TrimPrefix(target, bucketPrefix))
	default:
		// Dropped on another item: join that item's bucket.
		if _, ok := g.byID[target]; !ok {
			return
		}
		if cat := g.placed[target]; cat != "" {
			g.Place(item, cat)
		} else {
			g.Unplace(item)
		}
	}
}

func (g *Game) pick(item string) {
	if _, ok := g.byID[item]; !ok || g.IsCompleted() {
		return
	}
	if g.picked == item {
		g.picked = ""
	} else {
		g.picked = item
	}
	g.Render()
}

type itemView struct {
	Item    activity.Item
	Picked  bool
	State   string
	Visible bool
}

type bucketView struct {
	ID    string
	Label string
	Items []itemView
}

var tmpl = activity.NewTemplate("categorize", `{{template "header" .Header}}
{{define "item"}}<div class="cat-item {{.State}}{{if .Picked}} picked{{end}}" id="{{.Item.ID}}" data-id="{{.Item.ID}}" data-action="pick" draggable="true">{{if .Item.Image}}<img src="{{.Item.Image}}" alt="{{.Item.Text}}">{{end}}<span>{{.Item.Text}}</span></div>{{end}}
{{with .Data}}<div class="cat-pool" id="pool" data-id="pool" data-action="pool">
{{range .Pool}}{{template "item" .}}{{end}}
</div>
<div class="cat-buckets">
{{range .Buckets}}<section class="cat-bucket" id="bucket:{{.ID}}" data-id="bucket:{{.ID}}" data-action="bucket"><h4>{{.Label}}</h4>
{{range .Items}}{{template "item" .}}{{end}}
</section>
{{end}}</div>{{end}}`)

// Render draws the pool and buckets.
func (g *Game) Render() {
	var v struct {
		Pool    []itemView
		Buckets []bucketView
	}
	buckets := make(map[string]*bucketView)
	for _, c := range g.Config().Categories {
		v.Buckets = append(v.Buckets, bucketView{ID: c.ID, Label: c.Label})
	}
	for i := range v.Buckets {
		buckets[v.Buckets[i].ID] = &v.Buckets[i]
	}
	for _, it := range g.items {
		view := itemView{Item: it, Picked: g.picked == it.ID}
		cat, ok := g.placed[it.ID]
		if !ok {
			v.Pool = append(v.Pool, view)
			continue
		}
		view.State = "incorrect"
		if it.Category == cat {
			view.State = "correct"
		}
		buckets[cat].Items = append(buckets[cat].Items, view)
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		g.drag.Bind(el)
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "pick":
				g.pick(ev.Target)
			case "bucket", "pool":
				if g.picked != "" {
					g.onDrop(ev.Target, g.picked)
				}
			}
		})
	})
}

// Reset returns every item to the pool.
func (g *Game) Reset() {
	g.ResetState()
	g.deal()
	g.Render()
}
