package matching

import (
	"testing"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
)

func newGame(t *testing.T) (*Game, *dom.Document, *eventloop.Manual, *int) {
	t.Helper()
	doc := dom.NewDocument()
	doc.Mount("activity-mem")
	sched := eventloop.NewManual()
	completions := 0
	cfg := &activity.Config{
		ID:   "mem",
		Type: activity.TypeMatching,
		Pairs: []activity.Pair{
			{ID: "1", A: activity.Face{Text: "perro"}, B: activity.Face{Text: "dog"}},
			{ID: "2", A: activity.Face{Text: "gato"}, B: activity.Face{Text: "cat"}},
			{ID: "3", A: activity.Face{Text: "pez"}, B: activity.Face{Text: "fish"}},
		},
	}
	g := New(cfg, "activity-mem", activity.Env{
		Doc:        doc,
		Scheduler:  sched,
		OnComplete: func(activity.Completion) { completions++ },
	})
	g.Render()
	return g, doc, sched, &completions
}

func TestMatchingScenario(t *testing.T) {
	g, _, sched, completions := newGame(t)

	if !g.Flip("1a") || !g.Flip("1b") {
		t.Fatal("first two flips should be accepted")
	}
	sched.Advance(DefaultMatchDelay)
	if g.State("1a") != Matched || g.State("1b") != Matched {
		t.Fatalf("pair 1 not matched: %v %v", g.State("1a"), g.State("1b"))
	}
	if g.Matches() != 1 || g.Attempts() != 1 {
		t.Fatalf("matches=%d attempts=%d, want 1/1", g.Matches(), g.Attempts())
	}

	g.Flip("2a")
	g.Flip("3a")
	if g.Attempts() != 2 {
		t.Fatalf("attempts = %d, want 2", g.Attempts())
	}
	sched.Advance(DefaultMismatchDelay)
	if g.State("2a") != FaceDown || g.State("3a") != FaceDown {
		t.Fatalf("mismatch should flip back: %v %v", g.State("2a"), g.State("3a"))
	}

	for _, pair := range []string{"2", "3"} {
		g.Flip(pair + "a")
		g.Flip(pair + "b")
		sched.Advance(DefaultMatchDelay)
	}
	if g.Matches() != 3 {
		t.Fatalf("matches = %d, want 3", g.Matches())
	}
	if *completions != 1 {
		t.Fatalf("completions = %d, want 1", *completions)
	}
	if !g.IsCompleted() {
		t.Error("game should be completed")
	}
}

func TestThirdFlipRejectedWhilePending(t *testing.T) {
	g, _, sched, _ := newGame(t)
	g.Flip("1a")
	g.Flip("2a")
	if g.Flip("3a") {
		t.Fatal("third flip must be rejected")
	}
	if len(g.PendingCards()) != 2 {
		t.Fatalf("pending = %v", g.PendingCards())
	}
	if g.State("3a") != FaceDown {
		t.Error("rejected card must stay face down")
	}
	sched.Advance(DefaultMismatchDelay)
	if !g.Flip("3a") {
		t.Error("flip should be accepted after resolution")
	}
}

func TestPendingNeverExceedsTwo(t *testing.T) {
	g, _, sched, completions := newGame(t)
	seq := []string{"1a", "1a", "2b", "3a", "3b", "2a", "1b", "3a", "2b", "2a", "1a", "1b", "3a", "3b"}
	for i, id := range seq {
		g.Flip(id)
		if n := len(g.PendingCards()); n > 2 {
			t.Fatalf("step %d: %d pending cards", i, n)
		}
		if i%3 == 2 {
			sched.Advance(DefaultMismatchDelay)
		}
	}
	sched.Advance(DefaultMismatchDelay)
	if g.Matches() == g.TotalPairs() && *completions != 1 {
		t.Errorf("completions = %d with all pairs matched", *completions)
	}
	if g.Matches() < g.TotalPairs() && *completions != 0 {
		t.Errorf("completion fired early")
	}
}

func TestFlipSameCardTwiceRejected(t *testing.T) {
	g, _, _, _ := newGame(t)
	g.Flip("1a")
	if g.Flip("1a") {
		t.Error("a flipped card cannot be flipped again")
	}
	if g.Flip("nope") {
		t.Error("unknown card must be rejected")
	}
}

func TestClicksThroughDocument(t *testing.T) {
	g, doc, sched, _ := newGame(t)
	doc.Dispatch("activity-mem", dom.Event{Kind: dom.Click, Action: "flip", Target: "2a"})
	doc.Dispatch("activity-mem", dom.Event{Kind: dom.Click, Action: "flip", Target: "2b"})
	sched.Advance(DefaultMatchDelay)
	if g.Matches() != 1 {
		t.Errorf("matches = %d, want 1", g.Matches())
	}
}

func TestResetCancelsPendingResolution(t *testing.T) {
	g, _, sched, _ := newGame(t)
	g.Flip("1a")
	g.Flip("1b")
	g.Reset()
	sched.Advance(DefaultMatchDelay * 2)
	if g.Matches() != 0 || g.Attempts() != 0 || len(g.PendingCards()) != 0 {
		t.Errorf("reset left state: matches=%d attempts=%d pending=%v", g.Matches(), g.Attempts(), g.PendingCards())
	}
}

func TestDestroyStopsTimers(t *testing.T) {
	g, doc, sched, completions := newGame(t)
	g.Flip("1a")
	g.Flip("1b")
	g.Destroy()
	sched.Advance(DefaultMatchDelay)
	if g.Matches() != 0 {
		t.Error("timer ran against destroyed game")
	}
	if *completions != 0 {
		t.Error("no completion expected")
	}
	el, _ := doc.Element("activity-mem")
	if el.HTML() != "" {
		t.Error("container should be empty")
	}
}
