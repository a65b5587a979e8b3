package audio

import (
	"fmt"

	"github.com/ziadkadry99/playdeck/internal/dom"
)

// Command is the audio instruction sent to the browser.
type Command struct {
	Action string `json:"action"` // load, play, pause, stop, unload
	Clip   string `json:"clip"`
	Src    string `json:"src,omitempty"`
}

// Remote plays clips in the browser: every player operation becomes an
// audio patch on the activity's mount element. Playback refusals come back
// as dom.AudioError events and are handed to Deck.Fail by the activity.
type Remote struct {
	el *dom.Element
}

// NewRemote returns a backend that talks through el.
func NewRemote(el *dom.Element) *Remote {
	return &Remote{el: el}
}

func (r *Remote) NewPlayer(id, src string) (Player, error) {
	p := &remotePlayer{el: r.el, id: id, src: src}
	p.send("load")
	return p, nil
}

type remotePlayer struct {
	el  *dom.Element
	id  string
	src string
}

func (p *remotePlayer) send(action string) {
	cmd := Command{Action: action, Clip: p.id}
	if action == "load" {
		cmd.Src = p.src
	}
	p.el.Send(dom.Patch{Op: dom.OpAudio, Target: p.id, Data: cmd})
}

func (p *remotePlayer) Play() error { p.send("play"); return nil }
func (p *remotePlayer) Pause()      { p.send("pause") }
func (p *remotePlayer) Stop()       { p.send("stop") }
func (p *remotePlayer) Close() error {
	p.send("unload")
	return nil
}

// RefusalError wraps the reason the client gave for refusing playback.
func RefusalError(reason string) error {
	if reason == "" {
		reason = "not allowed"
	}
	return fmt.Errorf("playback refused by client: %s", reason)
}
