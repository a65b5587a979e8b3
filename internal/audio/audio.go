// Package audio is the playback capability shared by activities that play
// clips: a per-activity registry of players where starting one clip stops
// whichever clip was playing before.
package audio

import (
	"github.com/ziadkadry99/playdeck/internal/logger"
)

// EnableAudioMessage is shown when the platform refuses to start playback,
// typically because no user gesture has unlocked audio yet.
const EnableAudioMessage = "Tap to enable audio"

// Player is a single playable clip.
type Player interface {
	// Play starts or resumes playback.
	Play() error
	// Pause halts playback and keeps the position.
	Pause()
	// Stop halts playback and rewinds to the start.
	Stop()
	// Close releases the clip.
	Close() error
}

// Backend opens players for clip sources.
type Backend interface {
	NewPlayer(id, src string) (Player, error)
}

// NoticeFunc surfaces a user-facing, non-fatal message.
type NoticeFunc func(text string)

// Deck is the clip registry owned by one activity instance. It must only be
// used from the owning event loop.
type Deck struct {
	backend Backend
	notice  NoticeFunc
	log     *logger.Logger
	players map[string]Player
	current string
}

// NewDeck creates a deck. A nil backend yields a deck whose clips fail to
// register, which is logged once per clip.
func NewDeck(backend Backend, notice NoticeFunc, log *logger.Logger) *Deck {
	if log == nil {
		log = logger.Nop()
	}
	if notice == nil {
		notice = func(string) {}
	}
	return &Deck{
		backend: backend,
		notice:  notice,
		log:     log,
		players: make(map[string]Player),
	}
}

// CreatePlayer registers a clip under id without starting it. Registering
// an id twice replaces (and closes) the previous clip.
func (d *Deck) CreatePlayer(id, src string) {
	if d.backend == nil {
		d.log.Warn("no audio backend, clip skipped", "clip", id)
		return
	}
	p, err := d.backend.NewPlayer(id, src)
	if err != nil {
		d.log.Error("creating audio player", "clip", id, "src", src, "error", err)
		return
	}
	if old, ok := d.players[id]; ok {
		if d.current == id {
			d.current = ""
		}
		_ = old.Close()
	}
	d.players[id] = p
}

// Has reports whether a clip is registered.
func (d *Deck) Has(id string) bool {
	_, ok := d.players[id]
	return ok
}

// Play stops the clip currently playing, if any, and starts id.
func (d *Deck) Play(id string) {
	p, ok := d.players[id]
	if !ok {
		d.log.Warn("play: unknown clip", "clip", id)
		return
	}
	if d.current != "" && d.current != id {
		if cur, ok := d.players[d.current]; ok {
			cur.Stop()
		}
	}
	d.current = id
	if err := p.Play(); err != nil {
		d.Fail(id, err)
	}
}

// Pause pauses id, keeping its position.
func (d *Deck) Pause(id string) {
	if p, ok := d.players[id]; ok {
		p.Pause()
	}
}

// Stop stops id and rewinds it.
func (d *Deck) Stop(id string) {
	p, ok := d.players[id]
	if !ok {
		return
	}
	p.Stop()
	if d.current == id {
		d.current = ""
	}
}

// Current returns the id of the clip marked as playing, or "".
func (d *Deck) Current() string { return d.current }

// Fail records that starting id was refused. The playing marker is
// cleared and the user is told how to unlock audio.
func (d *Deck) Fail(id string, err error) {
	d.log.Warn("audio playback refused", "clip", id, "error", err)
	if d.current == id {
		d.current = ""
	}
	d.notice(EnableAudioMessage)
}

// Close stops and releases every clip.
func (d *Deck) Close() {
	for id, p := range d.players {
		p.Stop()
		if err := p.Close(); err != nil {
			d.log.Warn("closing audio player", "clip", id, "error", err)
		}
	}
	d.players = make(map[string]Player)
	d.current = ""
}

// Len returns the number of registered clips.
func (d *Deck) Len() int { return len(d.players) }
