// Package challenge runs a series of mixed recall challenges: look,
// watch a sequence, or listen, then answer against the clock.
package challenge

import (
	"fmt"
	"time"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
)

const (
	DefaultBasePoints = 100
	DefaultMinPoints  = 10
	AdvanceDelay      = 1500 * time.Millisecond
	SequenceStep      = time.Second
)

// Stage is the step within the current challenge.
type Stage int

const (
	Presenting Stage = iota
	Asking
	Answered
	Summary
)

// Result is the outcome of one challenge.
type Result struct {
	ChallengeID string
	Correct     bool
	Points      int
	Elapsed     time.Duration
}

// Game is a live mixed challenge.
type Game struct {
	*activity.Base

	challenges []activity.Challenge
	index      int
	stage      Stage
	step       int
	askedAt    time.Time
	results    []Result

	deck *audio.Deck
}

// New prepares the series. Settings "basePoints" and "minPoints" apply
// when a challenge does not carry its own point value.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env), challenges: cfg.Challenges}
	if len(cfg.Challenges) == 0 {
		g.Log().Warn("mixed challenge has no stages")
	}
	for _, c := range cfg.Challenges {
		if c.Answer < 0 || c.Answer >= len(c.Options) {
			g.Log().Warn("challenge answer out of range", "challenge", c.ID, "answer", c.Answer, "options", len(c.Options))
		}
	}
	g.present(false)
	return g
}

func (g *Game) Stage() Stage      { return g.stage }
func (g *Game) Index() int        { return g.index }
func (g *Game) Step() int         { return g.step }
func (g *Game) Results() []Result { return append([]Result(nil), g.results...) }

// Current returns the challenge on screen.
func (g *Game) Current() (activity.Challenge, bool) {
	if g.stage == Summary || g.index >= len(g.challenges) {
		return activity.Challenge{}, false
	}
	return g.challenges[g.index], true
}

func (g *Game) base(c activity.Challenge) int {
	if c.Points > 0 {
		return c.Points
	}
	return g.Settings().Int("basePoints", DefaultBasePoints)
}

// Award is the time-decayed score for a correct answer: the base value
// minus one point per elapsed second, never below the minimum.
func Award(base, floor int, elapsed time.Duration) int {
	return max(base-int(elapsed/time.Second), floor)
}

// present shows the current challenge. Clips only autoplay after the
// first challenge, once the learner has interacted.
func (g *Game) present(autoplay bool) {
	g.stage = Presenting
	g.step = 0
	if g.index >= len(g.challenges) {
		g.stage = Summary
		if len(g.challenges) > 0 {
			g.Complete()
		}
		return
	}
	c := g.challenges[g.index]
	switch c.Kind {
	case activity.ChallengeSequence:
		if len(c.Media) > 1 {
			g.stepSequence()
		}
	case activity.ChallengeAudio:
		if autoplay {
			g.PlayClip()
		}
	}
}

func (g *Game) stepSequence() {
	g.After(SequenceStep, func() {
		c, ok := g.Current()
		if !ok || g.stage != Presenting {
			return
		}
		g.step++
		if g.step < len(c.Media)-1 {
			g.stepSequence()
		}
		g.Render()
	})
}

// PlayClip plays the current audio challenge's clip.
func (g *Game) PlayClip() {
	c, ok := g.Current()
	if !ok || c.Audio == "" {
		return
	}
	if g.deck == nil {
		g.deck = g.NewDeck()
	}
	if !g.deck.Has(c.ID) {
		g.deck.CreatePlayer(c.ID, c.Audio)
	}
	g.deck.Play(c.ID)
}

// Reveal shows the question and options and starts the clock.
func (g *Game) Reveal() bool {
	if g.stage != Presenting {
		return false
	}
	g.stage = Asking
	g.askedAt = g.Now()
	g.Render()
	return true
}

// Answer scores option index against the current challenge.
func (g *Game) Answer(option int) (Result, bool) {
	c, ok := g.Current()
	if !ok || g.stage != Asking || option < 0 || option >= len(c.Options) {
		return Result{}, false
	}
	r := Result{ChallengeID: c.ID, Elapsed: g.Now().Sub(g.askedAt), Correct: option == c.Answer}
	if r.Correct {
		r.Points = Award(g.base(c), g.Settings().Int("minPoints", DefaultMinPoints), r.Elapsed)
		g.Feedback(activity.FeedbackSuccess, fmt.Sprintf("Correct! +%d points", r.Points))
	} else {
		msg := "Not this time."
		if c.Answer >= 0 && c.Answer < len(c.Options) {
			msg += " The answer was " + c.Options[c.Answer]
		}
		g.Feedback(activity.FeedbackError, msg)
	}
	g.results = append(g.results, r)
	g.stage = Answered
	if g.deck != nil {
		g.deck.Stop(c.ID)
	}
	g.Render()
	g.After(g.Settings().Millis("advanceDelay", AdvanceDelay), func() {
		g.index++
		g.present(true)
		g.Render()
	})
	return r, true
}

// Total is the sum of awarded points.
func (g *Game) Total() int {
	n := 0
	for _, r := range g.results {
		n += r.Points
	}
	return n
}

// Possible is the best achievable score.
func (g *Game) Possible() int {
	n := 0
	for _, c := range g.challenges {
		n += g.base(c)
	}
	return n
}

// Percentage is Total as a share of Possible.
func (g *Game) Percentage() int {
	if p := g.Possible(); p > 0 {
		return g.Total() * 100 / p
	}
	return 0
}

// AverageTime is the mean answer time.
func (g *Game) AverageTime() time.Duration {
	if len(g.results) == 0 {
		return 0
	}
	var sum time.Duration
	for _, r := range g.results {
		sum += r.Elapsed
	}
	return sum / time.Duration(len(g.results))
}

var tmpl = activity.NewTemplate("challenge", `{{template "header" .Header}}
{{with .Data}}{{if .Summary}}<div class="challenge-summary">
<h4>Challenge complete!</h4>
<p>Score: {{.Total}} / {{.Possible}} ({{.Percentage}}%)</p>
<p>Average time: {{.Average}}</p>
<button data-action="restart">Play again</button>
</div>{{else}}<div class="challenge challenge-{{.Challenge.Kind}}">
<p class="challenge-progress">Challenge {{add .Index 1}} of {{.Count}} · {{.Total}} points</p>
{{if .Challenge.Prompt}}<p class="challenge-prompt">{{.Challenge.Prompt}}</p>{{end}}
{{if .Presenting}}{{if .Media}}<img class="challenge-media" src="{{.Media}}" alt="">{{end}}
{{if .Challenge.Audio}}<button data-action="play">Listen</button>{{end}}
<button data-action="reveal">I'm ready</button>
{{else}}<p class="challenge-question">{{.Challenge.Question}}</p>
<div class="challenge-options">{{range $i, $o := .Challenge.Options}}<button data-action="answer" data-id="{{$i}}"{{if $.Data.Locked}} disabled{{end}}>{{$o}}</button>{{end}}</div>{{end}}
</div>{{end}}{{end}}`)

// Render draws the current stage.
func (g *Game) Render() {
	c, _ := g.Current()
	v := struct {
		Summary    bool
		Presenting bool
		Locked     bool
		Challenge  activity.Challenge
		Media      string
		Index      int
		Count      int
		Total      int
		Possible   int
		Percentage int
		Average    string
	}{
		Summary:    g.stage == Summary,
		Presenting: g.stage == Presenting,
		Locked:     g.stage == Answered,
		Challenge:  c,
		Index:      g.index,
		Count:      len(g.challenges),
		Total:      g.Total(),
		Possible:   g.Possible(),
		Percentage: g.Percentage(),
		Average:    g.AverageTime().Round(100 * time.Millisecond).String(),
	}
	if g.step < len(c.Media) {
		v.Media = c.Media[g.step]
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "reveal":
				g.Reveal()
			case "play":
				g.PlayClip()
			case "answer":
				var i int
				if _, err := fmt.Sscanf(ev.Target, "%d", &i); err == nil {
					g.Answer(i)
				}
			case "restart":
				g.Reset()
			}
		})
		el.On(dom.AudioError, func(ev dom.Event) {
			if g.deck != nil {
				g.deck.Fail(ev.Target, audio.RefusalError(ev.Value))
			}
		})
	})
}

// Reset starts the series over.
func (g *Game) Reset() {
	g.ResetState()
	if g.deck != nil {
		g.deck.Stop(g.deck.Current())
	}
	g.index = 0
	g.results = nil
	g.present(false)
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
