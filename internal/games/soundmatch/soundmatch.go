// Package soundmatch pairs sound clips with the pictures they describe.
package soundmatch

import (
	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

// Game is a live sound-match activity.
type Game struct {
	*activity.Base

	sounds   []activity.SoundPair
	images   []activity.SoundPair
	byID     map[string]activity.SoundPair
	matched  map[string]bool
	selected string

	deck *audio.Deck
}

// New lays out the sound buttons and the shuffled images.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	if len(cfg.Sounds) == 0 {
		g.Log().Warn("sound-match activity has no sounds")
	}
	g.byID = make(map[string]activity.SoundPair, len(cfg.Sounds))
	for _, s := range cfg.Sounds {
		g.byID[s.ID] = s
	}
	g.deal()
	return g
}

func (g *Game) deal() {
	g.sounds = g.Config().Sounds
	g.images = g.Config().Sounds
	if g.Settings().Bool("shuffle", true) {
		g.sounds = textutil.Shuffle(g.sounds)
		g.images = textutil.Shuffle(g.images)
	}
	g.matched = make(map[string]bool)
	g.selected = ""
}

// Selected returns the sound picked last, or "".
func (g *Game) Selected() string { return g.selected }

// Matched reports whether the pair with id has been matched.
func (g *Game) Matched(id string) bool { return g.matched[id] }

// Matches is the number of matched pairs.
func (g *Game) Matches() int { return len(g.matched) }

// SelectSound plays a sound and makes it the current selection.
func (g *Game) SelectSound(id string) bool {
	s, ok := g.byID[id]
	if !ok || g.matched[id] {
		return false
	}
	g.selected = id
	d := g.audio()
	if !d.Has(id) {
		d.CreatePlayer(id, s.Audio)
	}
	d.Play(id)
	g.Render()
	return true
}

// PickImage checks the image against the selected sound. The selection
// is cleared either way.
func (g *Game) PickImage(id string) bool {
	if _, ok := g.byID[id]; !ok || g.matched[id] {
		return false
	}
	if g.selected == "" {
		g.Feedback(activity.FeedbackInfo, "Pick a sound first.")
		return false
	}
	sel := g.selected
	g.selected = ""
	if sel != id {
		g.Render()
		g.Feedback(activity.FeedbackError, "That's not it. Listen again!")
		return false
	}
	g.matched[id] = true
	if g.deck != nil {
		g.deck.Stop(id)
	}
	g.Render()
	if len(g.matched) == len(g.byID) {
		g.Complete()
	} else {
		g.Feedback(activity.FeedbackSuccess, "Match!")
	}
	return true
}

func (g *Game) audio() *audio.Deck {
	if g.deck == nil {
		g.deck = g.NewDeck()
	}
	return g.deck
}

type tileView struct {
	Pair     activity.SoundPair
	Matched  bool
	Selected bool
}

var tmpl = activity.NewTemplate("soundmatch", `{{template "header" .Header}}
{{with .Data}}<div class="sm-sounds">
{{range .Sounds}}<button class="sm-sound{{if .Matched}} matched{{end}}{{if .Selected}} selected{{end}}" data-action="sound" data-id="{{.Pair.ID}}"{{if .Matched}} disabled{{end}}>&#9835;</button>
{{end}}</div>
<div class="sm-images">
{{range .Images}}<button class="sm-image{{if .Matched}} matched{{end}}" data-action="image" data-id="{{.Pair.ID}}"{{if .Matched}} disabled{{end}}><img src="{{.Pair.Image}}" alt="{{.Pair.Label}}"></button>
{{end}}</div>{{end}}`)

// Render draws both rows.
func (g *Game) Render() {
	var v struct{ Sounds, Images []tileView }
	for _, s := range g.sounds {
		v.Sounds = append(v.Sounds, tileView{Pair: s, Matched: g.matched[s.ID], Selected: g.selected == s.ID})
	}
	for _, s := range g.images {
		v.Images = append(v.Images, tileView{Pair: s, Matched: g.matched[s.ID]})
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "sound":
				g.SelectSound(ev.Target)
			case "image":
				g.PickImage(ev.Target)
			}
		})
		el.On(dom.AudioError, func(ev dom.Event) {
			if g.deck != nil {
				g.deck.Fail(ev.Target, audio.RefusalError(ev.Value))
			}
		})
	})
}

// Reset unmatches everything.
func (g *Game) Reset() {
	g.ResetState()
	if g.deck != nil {
		g.deck.Stop(g.deck.Current())
	}
	g.deal()
	g.Render()
}

// Destroy releases the clips.
func (g *Game) Destroy() {
	if g.deck != nil {
		g.deck.Close()
		g.deck = nil
	}
	g.Base.Destroy()
}
