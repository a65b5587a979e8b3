// Package flashcards shows cards that flip between a front and a back.
package flashcards

import (
	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

// Game is a live flashcard deck. It completes once every card has been
// turned over at least once.
type Game struct {
	*activity.Base

	cards    []activity.Card
	byID     map[string]activity.Card
	flipped  map[string]bool
	revealed map[string]bool
	deck     *audio.Deck
}

// New builds the deck. Setting "shuffle" (default false) deals the cards
// in random order.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	if len(cfg.Cards) == 0 {
		g.Log().Warn("flashcards activity has no cards")
	}
	g.byID = make(map[string]activity.Card, len(cfg.Cards))
	for _, c := range cfg.Cards {
		g.byID[c.ID] = c
	}
	g.deal()
	return g
}

func (g *Game) deal() {
	cards := g.Config().Cards
	if g.Settings().Bool("shuffle", false) {
		cards = textutil.Shuffle(cards)
	} else {
		cards = append([]activity.Card(nil), cards...)
	}
	g.cards = cards
	g.flipped = make(map[string]bool)
	g.revealed = make(map[string]bool)
}

// Flipped reports whether a card currently shows its back.
func (g *Game) Flipped(id string) bool { return g.flipped[id] }

// Revealed is the number of cards seen from the back at least once.
func (g *Game) Revealed() int { return len(g.revealed) }

// Flip turns a card over. Turning it to the back plays its audio, if any.
func (g *Game) Flip(id string) bool {
	c, ok := g.byID[id]
	if !ok {
		return false
	}
	g.flipped[id] = !g.flipped[id]
	if g.flipped[id] {
		g.revealed[id] = true
		if c.Back.Audio != "" {
			g.audio().Play(id)
		}
	} else if g.deck != nil {
		g.deck.Stop(id)
	}
	g.Render()
	if len(g.revealed) == len(g.cards) {
		g.Complete()
	}
	return true
}

func (g *Game) audio() *audio.Deck {
	if g.deck == nil {
		g.deck = g.NewDeck()
		for _, c := range g.cards {
			if c.Back.Audio != "" {
				g.deck.CreatePlayer(c.ID, c.Back.Audio)
			}
		}
	}
	return g.deck
}

type cardView struct {
	ID      string
	Face    activity.Face
	Flipped bool
	Seen    bool
}

var tmpl = activity.NewTemplate("flashcards", `{{template "header" .Header}}
{{with .Data}}<div class="flashcards">
{{range .Cards}}<button class="flashcard{{if .Flipped}} flipped{{end}}{{if .Seen}} seen{{end}}" data-action="flip" data-id="{{.ID}}">
{{if .Face.Image}}<img src="{{.Face.Image}}" alt="{{.Face.Text}}">{{end}}<span>{{.Face.Text}}</span>
</button>
{{end}}</div>
<p class="flashcards-progress">{{.Seen}}/{{.Total}} cards seen</p>{{end}}`)

// Render draws the cards.
func (g *Game) Render() {
	var v struct {
		Cards []cardView
		Seen  int
		Total int
	}
	v.Seen, v.Total = len(g.revealed), len(g.cards)
	for _, c := range g.cards {
		face := c.Front
		if g.flipped[c.ID] {
			face = c.Back
		}
		v.Cards = append(v.Cards, cardView{ID: c.ID, Face: face, Flipped: g.flipped[c.ID], Seen: g.revealed[c.ID]})
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
		el.On(dom.AudioError, func(ev dom.Event) {
			if g.deck != nil {
				g.deck.Fail(ev.Target, audio.RefusalError(ev.Value))
			}
		})
	})
}

// Reset turns every card face up again.
func (g *Game) Reset() {
	g.ResetState()
	if g.deck != nil {
		g.deck.Stop(g.deck.Current())
	}
	g.deal()
	g.Render()
}

// Destroy releases the audio clips and detaches the deck.
func (g *Game) Destroy() {
	if g.deck != nil {
		g.deck.Close()
		g.deck = nil
	}
	g.Base.Destroy()
}
