package activity

import (
	"bytes"
	"html/template"
	"time"

	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

// FeedbackDuration is how long a notice stays up before it fades.
const FeedbackDuration = 1500 * time.Millisecond

// CompletedMessage is the notice shown by Complete.
const CompletedMessage = "Activity complete!"

// Feedback kinds.
const (
	FeedbackSuccess = "success"
	FeedbackError   = "error"
	FeedbackInfo    = "info"
	FeedbackWarning = "warning"
)

// Base implements the shared part of the lifecycle. Variants embed a *Base
// and provide Render and Reset.
type Base struct {
	cfg         *Config
	containerID string
	env         Env
	log         *logger.Logger

	completed bool
	active    bool

	timers    map[uint64]eventloop.Timer
	nextTimer uint64
	notice    eventloop.Timer
	observers []CompletionFunc
}

// NewBase prepares the shared state of an instance bound to containerID.
func NewBase(cfg *Config, containerID string, env Env) *Base {
	log := env.Log
	if log == nil {
		log = logger.Nop()
	}
	if env.Scheduler == nil {
		env.Scheduler = eventloop.NewManual()
	}
	if env.Doc == nil {
		env.Doc = dom.NewDocument()
	}
	b := &Base{
		cfg:         cfg,
		containerID: containerID,
		env:         env,
		log:         log.With("activity", cfg.ID, "type", string(cfg.Type)),
		timers:      make(map[uint64]eventloop.Timer),
	}
	if env.OnComplete != nil {
		b.observers = append(b.observers, env.OnComplete)
	}
	return b
}

func (b *Base) ID() string             { return b.cfg.ID }
func (b *Base) Type() Type             { return b.cfg.Type }
func (b *Base) ContainerID() string    { return b.containerID }
func (b *Base) Config() *Config        { return b.cfg }
func (b *Base) Settings() Settings     { return b.cfg.Settings }
func (b *Base) IsCompleted() bool      { return b.completed }
func (b *Base) IsActive() bool         { return b.active }
func (b *Base) Log() *logger.Logger    { return b.log }
func (b *Base) Caps() dom.Capabilities { return b.env.Caps }
func (b *Base) Now() time.Time         { return b.env.Scheduler.Now() }

// OnComplete adds a completion observer.
func (b *Base) OnComplete(fn CompletionFunc) {
	b.observers = append(b.observers, fn)
}

// Element returns the mount element if it exists.
func (b *Base) Element() (*dom.Element, bool) {
	return b.env.Doc.Element(b.containerID)
}

// Mount replaces the container's content with html and lets bind attach
// listeners. A missing container is logged and the render is abandoned.
func (b *Base) Mount(html string, bind func(el *dom.Element)) bool {
	el, ok := b.Element()
	if !ok {
		b.log.Error("render aborted: container not found", "container", b.containerID)
		return false
	}
	el.Replace(html)
	if bind != nil {
		bind(el)
	}
	b.active = true
	return true
}

// Execute runs a variant template with a header frame prepended to data.
func (b *Base) Execute(tmpl *template.Template, data any) (string, bool) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Header Header
		Data   any
	}{b.Header(), data})
	if err != nil {
		b.log.Error("render aborted: template failed", "error", err)
		return "", false
	}
	return buf.String(), true
}

// Complete marks the activity done and notifies observers. Later calls
// do nothing.
func (b *Base) Complete() {
	if b.completed {
		return
	}
	b.completed = true
	b.log.Info("activity completed")
	c := Completion{ActivityID: b.cfg.ID, ActivityType: b.cfg.Type}
	for _, fn := range b.observers {
		fn(c)
	}
	b.Feedback(FeedbackSuccess, CompletedMessage)
}

// Feedback shows a notice that dismisses itself after FeedbackDuration.
// A newer notice replaces an older one.
func (b *Base) Feedback(kind, text string) {
	el, ok := b.Element()
	if !ok {
		return
	}
	if b.notice != nil {
		b.notice.Stop()
	}
	el.Notify(dom.Notice{Kind: kind, Text: text})
	b.notice = b.After(FeedbackDuration, func() {
		b.notice = nil
		el.Dismiss()
	})
}

// After schedules fn and tracks the timer so ResetState and Destroy can
// cancel it.
func (b *Base) After(d time.Duration, fn func()) eventloop.Timer {
	id := b.nextTimer
	b.nextTimer++
	t := b.env.Scheduler.After(d, func() {
		delete(b.timers, id)
		fn()
	})
	b.timers[id] = t
	return &trackedTimer{b: b, id: id, t: t}
}

// PendingTimers returns the number of live scheduled callbacks.
func (b *Base) PendingTimers() int { return len(b.timers) }

// CancelTimers stops every scheduled callback.
func (b *Base) CancelTimers() {
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.notice = nil
}

// ResetState is the shared half of Reset: timers are cancelled, the
// completion flag is cleared and any notice is taken down.
func (b *Base) ResetState() {
	b.CancelTimers()
	b.completed = false
	if el, ok := b.Element(); ok {
		el.Dismiss()
	}
}

// Destroy deactivates the instance, cancels its timers and empties the
// container.
func (b *Base) Destroy() {
	b.active = false
	b.CancelTimers()
	if el, ok := b.Element(); ok {
		el.Clear()
	}
}

// NewDeck creates an audio deck wired to this instance's container and
// feedback.
func (b *Base) NewDeck() *audio.Deck {
	var backend audio.Backend
	if b.env.Audio != nil {
		if el, ok := b.Element(); ok {
			backend = b.env.Audio(el)
		}
	}
	return audio.NewDeck(backend, func(text string) {
		b.Feedback(FeedbackWarning, text)
	}, b.log)
}

type trackedTimer struct {
	b  *Base
	id uint64
	t  eventloop.Timer
}

func (tt *trackedTimer) Stop() bool {
	delete(tt.b.timers, tt.id)
	return tt.t.Stop()
}
