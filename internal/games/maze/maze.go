// Package maze is grid navigation: walk from the start cell to the goal
// without leaving the grid or stepping on a blocked cell.
package maze

import (
	"fmt"
	"time"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
)

const (
	DefaultGridSize  = 5
	DefaultCountdown = 5
)

// Direction is a single-step move.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

var deltas = map[Direction]activity.Cell{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

var keys = map[string]Direction{
	"ArrowUp": Up, "w": Up, "W": Up,
	"ArrowDown": Down, "s": Down, "S": Down,
	"ArrowLeft": Left, "a": Left, "A": Left,
	"ArrowRight": Right, "d": Right, "D": Right,
}

// Phase is where the maze is in its lifecycle.
type Phase int

const (
	Briefing Phase = iota
	Playing
	Finished
)

// Game is a live maze.
type Game struct {
	*activity.Base

	maze    activity.Maze
	blocked map[activity.Cell]bool

	phase     Phase
	remaining int
	pos       activity.Cell
	path      []activity.Cell
	moves     int
}

// New prepares the maze. When instructions are configured the learner
// reads them for Countdown seconds before the controls unlock.
func New(cfg *activity.Config, containerID string, env activity.Env) *Game {
	g := &Game{Base: activity.NewBase(cfg, containerID, env)}
	if cfg.Maze != nil {
		g.maze = *cfg.Maze
	} else {
		g.Log().Warn("maze activity has no maze")
	}
	if g.maze.GridSize <= 0 {
		g.maze.GridSize = DefaultGridSize
	}
	if g.maze.Countdown <= 0 {
		g.maze.Countdown = DefaultCountdown
	}
	g.blocked = make(map[activity.Cell]bool, len(g.maze.Obstacles))
	for _, c := range g.maze.Obstacles {
		g.blocked[c] = true
	}
	if !g.inBounds(g.maze.Start) || !g.inBounds(g.maze.End) {
		g.Log().Warn("maze start or end outside the grid", "start", g.maze.Start.String(), "end", g.maze.End.String())
	}
	g.start()
	return g
}

func (g *Game) start() {
	g.pos = g.maze.Start
	g.path = []activity.Cell{g.maze.Start}
	g.moves = 0
	g.phase = Playing
	if len(g.maze.Instructions) > 0 {
		g.phase = Briefing
		g.remaining = g.maze.Countdown
		g.tick()
	}
}

func (g *Game) tick() {
	g.After(time.Second, func() {
		g.remaining--
		if g.remaining <= 0 {
			g.phase = Playing
		} else {
			g.tick()
		}
		g.Render()
	})
}

// Skip ends the briefing early.
func (g *Game) Skip() {
	if g.phase != Briefing {
		return
	}
	g.CancelTimers()
	g.phase = Playing
	g.Render()
}

func (g *Game) Phase() Phase                 { return g.phase }
func (g *Game) Position() activity.Cell      { return g.pos }
func (g *Game) Moves() int                   { return g.moves }
func (g *Game) Remaining() int               { return g.remaining }
func (g *Game) Path() []activity.Cell        { return append([]activity.Cell(nil), g.path...) }
func (g *Game) Blocked(c activity.Cell) bool { return g.blocked[c] }

func (g *Game) inBounds(c activity.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.maze.GridSize && c.Y < g.maze.GridSize
}

// Move takes one step. Moves off the grid or onto a blocked cell are
// rejected and change nothing.
func (g *Game) Move(d Direction) bool {
	delta, ok := deltas[d]
	if !ok || g.phase != Playing {
		return false
	}
	next := activity.Cell{X: g.pos.X + delta.X, Y: g.pos.Y + delta.Y}
	if !g.inBounds(next) {
		g.Feedback(activity.FeedbackError, "You can't leave the grid!")
		return false
	}
	if g.blocked[next] {
		g.Feedback(activity.FeedbackError, "That way is blocked.")
		return false
	}
	g.pos = next
	g.path = append(g.path, next)
	g.moves++
	if next == g.maze.End {
		g.phase = Finished
		g.Render()
		g.Complete()
		g.Feedback(activity.FeedbackSuccess, fmt.Sprintf("You reached the goal in %d moves!", g.moves))
		return true
	}
	g.Render()
	return true
}

type cellView struct {
	Class string
}

var tmpl = activity.NewTemplate("maze", `{{template "header" .Header}}
{{with .Data}}{{if .Briefing}}<div class="maze-briefing">
<ol>{{range .Instructions}}<li>{{.}}</li>{{end}}</ol>
<p class="maze-countdown">Starting in {{.Remaining}}…</p>
<button data-action="skip">I'm ready</button>
</div>{{else}}<div class="maze-grid" style="--size: {{.Size}}" tabindex="0">
{{range .Rows}}<div class="maze-row">{{range .}}<span class="maze-cell {{.Class}}"></span>{{end}}</div>
{{end}}</div>
<div class="maze-controls">
<button data-action="move" data-id="up">↑</button><button data-action="move" data-id="left">←</button><button data-action="move" data-id="down">↓</button><button data-action="move" data-id="right">→</button>
</div>
<p class="maze-moves">Moves: {{.Moves}}</p>{{end}}{{end}}`)

// Render draws the briefing or the grid.
func (g *Game) Render() {
	trail := make(map[activity.Cell]bool, len(g.path))
	for _, c := range g.path {
		trail[c] = true
	}
	v := struct {
		Briefing     bool
		Instructions []string
		Remaining    int
		Size         int
		Rows         [][]cellView
		Moves        int
	}{
		Briefing:     g.phase == Briefing,
		Instructions: g.maze.Instructions,
		Remaining:    g.remaining,
		Size:         g.maze.GridSize,
		Moves:        g.moves,
	}
	for y := range g.maze.GridSize {
		row := make([]cellView, g.maze.GridSize)
		for x := range g.maze.GridSize {
			c := activity.Cell{X: x, Y: y}
			switch {
			case c == g.pos:
				row[x].Class = "player"
			case c == g.maze.End:
				row[x].Class = "goal"
			case g.blocked[c]:
				row[x].Class = "wall"
			case trail[c]:
				row[x].Class = "trail"
			}
		}
		v.Rows = append(v.Rows, row)
	}
	html, ok := g.Execute(tmpl, v)
	if !ok {
		return
	}
	g.Mount(html, func(el *dom.Element) {
		el.On(dom.Click, func(ev dom.Event) {
			switch ev.Action {
			case "skip":
				g.Skip()
			case "move":
				g.Move(Direction(ev.Target))
			}
		})
		el.On(dom.KeyDown, func(ev dom.Event) {
			if d, ok := keys[ev.Key]; ok {
				g.Move(d)
			}
		})
	})
}

// Reset puts the learner back on the start cell and replays the briefing.
func (g *Game) Reset() {
	g.ResetState()
	g.start()
	g.Render()
}
