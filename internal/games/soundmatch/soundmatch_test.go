package soundmatch

import (
	"errors"
	"testing"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
)

type fakePlayer struct {
	b  *fakeBackend
	id string
}

func (p *fakePlayer) Play() error {
	if p.b.refuse {
		return errors.New("NotAllowedError")
	}
	p.b.plays = append(p.b.plays, p.id)
	return nil
}
func (p *fakePlayer) Pause()       {}
func (p *fakePlayer) Stop()        { p.b.stops = append(p.b.stops, p.id) }
func (p *fakePlayer) Close() error { p.b.closed++; return nil }

type fakeBackend struct {
	refuse bool
	plays  []string
	stops  []string
	closed int
}

func (b *fakeBackend) NewPlayer(id, src string) (audio.Player, error) {
	return &fakePlayer{b: b, id: id}, nil
}

func newGame(t *testing.T, backend *fakeBackend) (*Game, *dom.Document, *int) {
	t.Helper()
	doc := dom.NewDocument()
	doc.Mount("activity-sm")
	done := 0
	cfg := &activity.Config{
		ID:   "sm",
		Type: activity.TypeSoundMatch,
		Sounds: []activity.SoundPair{
			{ID: "dog", Audio: "/media/dog.wav", Image: "/img/dog.png", Label: "dog"},
			{ID: "cat", Audio: "/media/cat.wav", Image: "/img/cat.png", Label: "cat"},
		},
	}
	g := New(cfg, "activity-sm", activity.Env{
		Doc:        doc,
		Scheduler:  eventloop.NewManual(),
		Audio:      func(*dom.Element) audio.Backend { return backend },
		OnComplete: func(activity.Completion) { done++ },
	})
	g.Render()
	return g, doc, &done
}

func TestMatchLocksAndCompletes(t *testing.T) {
	b := &fakeBackend{}
	g, doc, done := newGame(t, b)
	doc.Dispatch("activity-sm", dom.Event{Kind: dom.Click, Action: "sound", Target: "dog"})
	if g.Selected() != "dog" || len(b.plays) != 1 {
		t.Fatalf("selected=%q plays=%v", g.Selected(), b.plays)
	}
	doc.Dispatch("activity-sm", dom.Event{Kind: dom.Click, Action: "image", Target: "dog"})
	if !g.Matched("dog") || g.Selected() != "" {
		t.Fatalf("matched=%v selected=%q", g.Matched("dog"), g.Selected())
	}
	if g.SelectSound("dog") {
		t.Error("matched sound should be locked")
	}
	g.SelectSound("cat")
	g.PickImage("cat")
	if *done != 1 {
		t.Errorf("done = %d, want 1", *done)
	}
}

func TestMismatchClearsSelection(t *testing.T) {
	g, doc, done := newGame(t, &fakeBackend{})
	g.SelectSound("dog")
	if g.PickImage("cat") {
		t.Fatal("dog sound does not match cat image")
	}
	if g.Selected() != "" {
		t.Error("selection must not persist after a miss")
	}
	if g.PickImage("dog") {
		t.Error("picking without a selection must fail")
	}
	el, _ := doc.Element("activity-sm")
	if n, _ := el.CurrentNotice(); n.Kind != activity.FeedbackInfo {
		t.Errorf("notice = %+v", n)
	}
	if *done != 0 || g.Matches() != 0 {
		t.Error("no progress expected")
	}
}

func TestSelectingStopsPreviousClip(t *testing.T) {
	b := &fakeBackend{}
	g, _, _ := newGame(t, b)
	g.SelectSound("dog")
	g.SelectSound("cat")
	if len(b.stops) == 0 || b.stops[0] != "dog" {
		t.Errorf("stops = %v, want dog stopped", b.stops)
	}
}

func TestRefusedPlaybackShowsNotice(t *testing.T) {
	g, doc, _ := newGame(t, &fakeBackend{refuse: true})
	g.SelectSound("dog")
	el, _ := doc.Element("activity-sm")
	if n, _ := el.CurrentNotice(); n.Text != audio.EnableAudioMessage {
		t.Errorf("notice = %+v", n)
	}
	if g.Selected() != "dog" {
		t.Error("selection survives a refused clip")
	}
}

func TestDestroyClosesClips(t *testing.T) {
	b := &fakeBackend{}
	g, _, _ := newGame(t, b)
	g.SelectSound("dog")
	g.SelectSound("cat")
	g.Destroy()
	if b.closed != 2 {
		t.Errorf("closed = %d, want 2", b.closed)
	}
}
