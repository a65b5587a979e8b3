// Package matching is the memory game: cards are dealt face down and the
// learner turns them over two at a time looking for pairs.
package matching

import (
	"time"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

const (
	DefaultMatchDelay    = 600 * time.Millisecond
	DefaultMismatchDelay = time.Second
)

// CardState is the visible state of a card.
type CardState int

const (
	FaceDown CardState = iota
	Pending
	Matched
)

func (s CardState) String() string {
	switch s {
	case Pending:
		return "flipped"
	case Matched:
		return "matched"
	default:
		return "face-down"
	}
}

type card struct {
	ID     string
	PairID string
	Face   activity.Face
}

// Game is a live matching game.
type Game struct {
	*activity.Base

	cards   []card
	byID    map[string]card
	pending []string
	matched map[string]bool

	matches  int
	attempts int
}

// New deals the cards described by cfg.Pairs. Each pair yields cards
// "<pair>a" and "<pair>b". Setting "shuffle": false keeps dealing order.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	if len(cfg.Pairs) == 0 {
		g.Log().Warn("matching game has no pairs")
	}
	g.deal()
	return g
}

func (g *Game) deal() {
	cfg := g.Config()
	cards := make([]card, 0, len(cfg.Pairs)*2)
	for _, p := range cfg.Pairs {
		cards = append(cards,
			card{ID: p.ID + "a", PairID: p.ID, Face: p.A},
			card{ID: p.ID + "b", PairID: p.ID, Face: p.B},
		)
	}
	if g.Settings().Bool("shuffle", true) {
		cards = textutil.Shuffle(cards)
	}
	g.cards = cards
	g.byID = make(map[string]card, len(cards))
	for _, c := range cards {
		g.byID[c.ID] = c
	}
	g.pending = nil
	g.matched = make(map[string]bool)
	g.matches = 0
	g.attempts = 0
}

// TotalPairs is the number of pairs needed to win.
func (g *Game) TotalPairs() int { return len(g.Config().Pairs) }
func (g *Game) Matches() int    { return g.matches }
func (g *Game) Attempts() int   { return g.attempts }

// PendingCards returns the cards flipped and awaiting resolution.
func (g *Game) PendingCards() []string {
	return append([]string(nil), g.pending...)
}

// State returns the state of a card.
func (g *Game) State(cardID string) CardState {
	if g.matched[cardID] {
		return Matched
	}
	for _, id := range g.pending {
		if id == cardID {
			return Pending
		}
	}
	return FaceDown
}

// Flip turns a card over. It reports false when the flip is refused: the
// card is unknown, already face up, or two cards are awaiting resolution.
func (g *Game) Flip(cardID string) bool {
	c, ok := g.byID[cardID]
	if !ok || g.IsCompleted() || len(g.pending) >= 2 || g.State(cardID) != FaceDown {
		return false
	}
	g.pending = append(g.pending, c.ID)
	if len(g.pending) == 2 {
		g.attempts++
		g.resolve()
	}
	g.Render()
	return true
}

func (g *Game) resolve() {
	a, b := g.byID[g.pending[0]], g.byID[g.pending[1]]
	s := g.Settings()
	if a.PairID == b.PairID {
		g.After(s.Millis("matchDelay", DefaultMatchDelay), func() {
			g.matched[a.ID] = true
			g.matched[b.ID] = true
			g.pending = nil
			g.matches++
			g.Render()
			if g.matches == g.TotalPairs() {
				g.Complete()
				return
			}
			g.Feedback(activity.FeedbackSuccess, "It's a match!")
		})
		return
	}
	g.After(s.Millis("mismatchDelay", DefaultMismatchDelay), func() {
		g.pending = nil
		g.Render()
	})
}

type cardView struct {
	ID    string
	Face  activity.Face
	State string
	Up    bool
}

type view struct {
	Cards    []cardView
	Matches  int
	Attempts int
	Total    int
}

var tmpl = activity.NewTemplate("matching", `{{template "header" .Header}}
{{with .Data}}<div class="memory-grid">
{{range .Cards}}<button class="memory-card {{.State}}" data-action="flip" data-id="{{.ID}}"{{if .Up}} aria-pressed="true"{{end}}>
{{if .Up}}{{if .Face.Image}}<img src="{{.Face.Image}}" alt="{{.Face.Text}}">{{end}}{{if .Face.Text}}<span>{{.Face.Text}}</span>{{end}}{{else}}<span class="card-back">?</span>{{end}}
</button>
{{end}}</div>
<p class="memory-stats">Pairs: {{.Matches}}/{{.Total}} · Attempts: {{.Attempts}}</p>{{end}}`)

// Render draws the board.
func (g *Game) Render() {
	v := view{Matches: g.matches, Attempts: g.attempts, Total: g.TotalPairs()}
	for _, c := range g.cards {
		st := g.State(c.ID)
		v.Cards = append(v.Cards, cardView{ID: c.ID, Face: c.Face, State: st.String(), Up: st != FaceDown})
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Click, func(ev dom.Event) {
			if ev.Action == "flip" {
				g.Flip(ev.Target)
			}
		})
	})
}

// Reset reshuffles and starts over.
func (g *Game) Reset() {
	g.ResetState()
	g.deal()
	g.Render()
}
