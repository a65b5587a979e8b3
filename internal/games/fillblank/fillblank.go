// Package fillblank is the listening exercise: hear a clip, type the
// missing word.
package fillblank

import (
	"strings"
	"time"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/textutil"
)

// AdvanceDelay is the pause between answering and the next question.
const AdvanceDelay = 1200 * time.Millisecond

// Outcome is the result of submitting an answer.
type Outcome int

const (
	Ignored Outcome = iota
	Correct
	TryAgain
	Revealed
)

// Game is a live fill-in-the-blank quiz.
type Game struct {
	*activity.Base

	questions []activity.Question
	index     int
	attempts  int
	score     int
	waiting   bool
	finished  bool
	last      string

	deck *audio.Deck
}

// New prepares the quiz. Settings: "caseSensitive" (default false),
// "singleAttempt" (default false), "autoplay" (default true).
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env), questions: cfg.Questions}
	if len(cfg.Questions) == 0 {
		g.Log().Warn("fill-in-the-blank activity has no questions")
	}
	for _, q := range cfg.Questions {
		if strings.TrimSpace(q.Answer) == "" {
			g.Log().Warn("question has no answer", "question", q.ID)
		}
	}
	return g
}

func (g *Game) caseSensitive() bool { return g.Settings().Bool("caseSensitive", false) }
func (g *Game) singleAttempt() bool { return g.Settings().Bool("singleAttempt", false) }

// Index is the position of the current question.
func (g *Game) Index() int { return g.index }

// Score counts questions answered right on the first try.
func (g *Game) Score() int { return g.score }

// Total is the number of questions.
func (g *Game) Total() int { return len(g.questions) }

// Finished reports whether the summary is showing.
func (g *Game) Finished() bool { return g.finished }

// Current returns the question being asked.
func (g *Game) Current() (activity.Question, bool) {
	if g.finished || g.index >= len(g.questions) {
		return activity.Question{}, false
	}
	return g.questions[g.index], true
}

// Check reports whether answer is accepted for q.
func (g *Game) Check(q activity.Question, answer string) bool {
	return textutil.MatchesAny(answer, q.Accepted(), g.caseSensitive())
}

// Submit checks an answer to the current question.
func (g *Game) Submit(answer string) Outcome {
	q, ok := g.Current()
	if !ok || g.waiting {
		return Ignored
	}
	if strings.TrimSpace(answer) == "" {
		g.Feedback(activity.FeedbackWarning, "Type your answer first.")
		return Ignored
	}
	g.last = answer
	g.attempts++
	if g.Check(q, answer) {
		if g.attempts == 1 {
			g.score++
		}
		g.Feedback(activity.FeedbackSuccess, "Correct!")
		g.scheduleAdvance()
		return Correct
	}
	if g.singleAttempt() {
		g.Feedback(activity.FeedbackError, "The answer was: "+q.Answer)
		g.scheduleAdvance()
		return Revealed
	}
	g.Feedback(activity.FeedbackError, "Try again!")
	g.Render()
	return TryAgain
}

func (g *Game) scheduleAdvance() {
	g.waiting = true
	g.Render()
	g.After(g.Settings().Millis("advanceDelay", AdvanceDelay), g.advance)
}

func (g *Game) advance() {
	g.waiting = false
	g.attempts = 0
	g.last = ""
	if g.deck != nil {
		g.deck.Stop(g.deck.Current())
	}
	g.index++
	if g.index >= len(g.questions) {
		g.finished = true
		g.Render()
		g.Complete()
		return
	}
	g.Render()
	if g.Settings().Bool("autoplay", true) {
		g.PlayPrompt()
	}
}

// PlayPrompt plays the current question's clip.
func (g *Game) PlayPrompt() {
	q, ok := g.Current()
	if !ok || q.Audio == "" {
		return
	}
	d := g.audio()
	if !d.Has(q.ID) {
		d.CreatePlayer(q.ID, q.Audio)
	}
	d.Play(q.ID)
}

func (g *Game) audio() *audio.Deck {
	if g.deck == nil {
		g.deck = g.NewDeck()
	}
	return g.deck
}

var tmpl = activity.NewTemplate("fillblank", `{{template "header" .Header}}
{{with .Data}}{{if .Finished}}<div class="fib-summary">
<h4>Well done!</h4>
<p>You scored {{.Score}} out of {{.Total}} ({{pct .Score .Total}}%).</p>
<button data-action="restart">Start again</button>
</div>{{else}}<form class="fib-question" data-action="answer">
<p class="fib-progress">Question {{add .Index 1}} of {{.Total}}</p>
{{if .Question.Audio}}<button type="button" class="fib-play" data-action="play" data-id="{{.Question.ID}}">Play</button>{{end}}
<p class="fib-prompt">{{.Question.Prompt}}</p>
<input type="text" name="answer" value="{{.Last}}" autocomplete="off"{{if .Waiting}} disabled{{end}}>
<button type="submit"{{if .Waiting}} disabled{{end}}>Check</button>
{{if .Question.Hint}}<button type="button" data-action="hint">Hint</button>{{end}}
</form>{{end}}{{end}}`)

// Render draws the current question or the summary.
func (g *Game) Render() {
	q, _ := g.Current()
	v := struct {
		Finished bool
		Score    int
		Total    int
		Index    int
		Question activity.Question
		Last     string
		Waiting  bool
	}{g.finished, g.score, len(g.questions), g.index, q, g.last, g.waiting}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Submit, func(ev dom.Event) {
			g.Submit(ev.Value)
		})
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "play":
				g.PlayPrompt()
			case "hint":
				if q, ok := g.Current(); ok && q.Hint != "" {
					g.Feedback(activity.FeedbackInfo, q.Hint)
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

// Reset starts over from the first question.
func (g *Game) Reset() {
	g.ResetState()
	if g.deck != nil {
		g.deck.Stop(g.deck.Current())
	}
	g.index, g.attempts, g.score = 0, 0, 0
	g.waiting, g.finished = false, false
	g.last = ""
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

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case TryAgain:
		return "try-again"
	case Revealed:
		return "revealed"
	default:
		return "ignored"
	}
}
