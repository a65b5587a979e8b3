// Package session hosts live play over WebSocket. Each connection gets its
// own event loop, document and loader; the browser forwards input events and
// applies the patches it is sent.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audit"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/loader"
	"github.com/ziadkadry99/playdeck/internal/logger"
	"github.com/ziadkadry99/playdeck/internal/markup"
	"github.com/ziadkadry99/playdeck/internal/progress"
)

const (
	writeWait   = 10 * time.Second
	outboxSize  = 256
	loopBacklog = 128
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler accepts play connections.
type Handler struct {
	catalog  *content.Catalog
	tracker  *progress.Tracker
	markdown *markup.Renderer
	audio    activity.AudioFactory
	journal  *audit.Store
	log      *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithTracker records completions for the connected learner.
func WithTracker(t *progress.Tracker) Option {
	return func(h *Handler) { h.tracker = t }
}

// WithAudio overrides the audio backend factory (browser playback by default).
func WithAudio(f activity.AudioFactory) Option {
	return func(h *Handler) { h.audio = f }
}

// WithJournal writes session and section events to j.
func WithJournal(j *audit.Store) Option {
	return func(h *Handler) { h.journal = j }
}

// WithMarkdown sets the renderer for activity instructions.
func WithMarkdown(md *markup.Renderer) Option {
	return func(h *Handler) { h.markdown = md }
}

// NewHandler creates a handler serving activities from cat.
func NewHandler(cat *content.Catalog, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{catalog: cat, audio: activity.RemoteAudio, log: log}
	for _, opt := range opts {
		opt(h)
	}
	if h.markdown == nil {
		h.markdown = markup.New()
	}
	return h
}

// RegisterRoutes mounts the play socket on r.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/ws/play", h.ServeHTTP)
}

// ServeHTTP upgrades the request and plays until the client goes away.
// The learner id comes from the "learner" query parameter; a fresh one is
// issued (and announced in the welcome message) when it is missing.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	learner := r.URL.Query().Get("learner")
	if learner == "" {
		learner = uuid.NewString()
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := newSession(ctx, h, learner)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(conn)
	}()
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = s.loop.Run(ctx)
	}()

	s.send(serverMessage{Type: MsgWelcome, Learner: learner})
	h.log.Info("play session opened", "learner", learner)
	h.note(ctx, learner, audit.ActionSessionOpened, audit.ScopeCourse, "", "play session opened")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", "learner", learner, "error", err)
			}
			break
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.send(serverMessage{Type: MsgError, Error: "invalid message format"})
			continue
		}
		if !s.loop.Post(func() { s.handle(msg) }) {
			break
		}
	}

	// Tear down on the loop so no timer callback races the unload.
	s.loop.Post(func() {
		s.closeAll()
		s.loop.Close()
	})
	<-runDone
	cancel()
	<-writerDone
	h.log.Info("play session closed", "learner", learner)
	h.note(context.WithoutCancel(ctx), learner, audit.ActionSessionClosed, audit.ScopeCourse, "", "play session closed")
}

func (h *Handler) note(ctx context.Context, learner string, action audit.Action, scope audit.Scope, scopeID, summary string) {
	if h.journal == nil {
		return
	}
	err := h.journal.Log(ctx, audit.Entry{
		ActorType: audit.ActorLearner,
		ActorID:   learner,
		Learner:   learner,
		Action:    action,
		Scope:     scope,
		ScopeID:   scopeID,
		Summary:   summary,
	})
	if err != nil {
		h.log.Warn("writing journal entry failed", "learner", learner, "action", string(action), "error", err)
	}
}

// session is the state of one connection. Everything except the outbox is
// confined to the loop goroutine.
type session struct {
	h       *Handler
	ctx     context.Context
	learner string
	loop    *eventloop.Loop
	doc     *dom.Document
	loader  *loader.Loader
	caps    dom.Capabilities
	section string
	out     chan serverMessage
}

func newSession(ctx context.Context, h *Handler, learner string) *session {
	s := &session{
		h:       h,
		ctx:     ctx,
		learner: learner,
		loop:    eventloop.New(loopBacklog),
		doc:     dom.NewDocument(),
		caps:    dom.Capabilities{Pointer: true},
		out:     make(chan serverMessage, outboxSize),
	}
	s.loop.OnPanic(func(v any) {
		h.log.Error("play session task panicked", "learner", learner, "panic", v)
	})
	s.doc.Subscribe(func(p dom.Patch) {
		pp := p
		s.send(serverMessage{Type: MsgPatch, Patch: &pp})
	})
	return s
}

func (s *session) send(msg serverMessage) {
	select {
	case s.out <- msg:
	case <-s.ctx.Done():
	}
}

// writeLoop is the only writer on conn. After a failed write it keeps
// draining the outbox so the loop never blocks on a dead client.
func (s *session) writeLoop(conn *websocket.Conn) {
	broken := false
	for {
		select {
		case msg := <-s.out:
			if broken {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.h.log.Debug("websocket write failed", "learner", s.learner, "error", err)
				broken = true
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// ensureLoader builds the loader on first use so that the capabilities
// announced in hello reach every activity.
func (s *session) ensureLoader() *loader.Loader {
	if s.loader == nil {
		s.loader = loader.New(s.h.catalog, activity.Env{
			Doc:        s.doc,
			Scheduler:  s.loop,
			Log:        s.h.log.With("learner", s.learner),
			Audio:      s.h.audio,
			Caps:       s.caps,
			Markdown:   s.h.markdown,
			OnComplete: s.completed,
		})
	}
	return s.loader
}

func (s *session) handle(msg clientMessage) {
	switch msg.Type {
	case MsgHello:
		if msg.Caps == nil {
			s.fail("hello without capabilities")
			return
		}
		s.caps = *msg.Caps
		if s.loader != nil {
			// Capabilities are fixed per instance; rebuild what is live.
			live := s.loader.Live()
			s.loader.UnloadAll()
			s.loader = nil
			for _, id := range live {
				s.ensureLoader().Load(id)
			}
		}
	case MsgOpen:
		s.open(msg)
	case MsgEvent:
		if msg.Event == nil {
			s.fail("event message without event")
			return
		}
		if !s.live(msg.Activity) {
			return
		}
		s.doc.Dispatch(loader.ContainerID(msg.Activity), *msg.Event)
	case MsgLayout:
		if !s.live(msg.Activity) {
			return
		}
		if el, ok := s.doc.Element(loader.ContainerID(msg.Activity)); ok {
			el.SetLayout(msg.Layout)
		}
	case MsgReset:
		if !s.live(msg.Activity) {
			return
		}
		a, _ := s.loader.Instance(msg.Activity)
		a.Reset()
	default:
		s.fail("unknown message type: " + msg.Type)
	}
}

func (s *session) open(msg clientMessage) {
	l := s.ensureLoader()
	switch {
	case msg.Section != "":
		if _, ok := s.h.catalog.Section(msg.Section); !ok {
			s.fail("unknown section: " + msg.Section)
			return
		}
		if s.section != "" {
			l.UnloadSection(s.section)
		}
		s.section = msg.Section
		var ids []string
		for _, a := range l.LoadSection(msg.Section) {
			ids = append(ids, a.ID())
		}
		s.send(serverMessage{Type: MsgOpened, Section: msg.Section, Activities: ids})
		s.h.note(s.ctx, s.learner, audit.ActionSectionOpened, audit.ScopeSection, msg.Section, "opened section "+msg.Section)
	case msg.Activity != "":
		if l.Load(msg.Activity) == nil {
			s.fail("cannot load activity: " + msg.Activity)
			return
		}
		s.send(serverMessage{Type: MsgOpened, Activities: []string{msg.Activity}})
	default:
		s.fail("open needs a section or an activity")
	}
}

func (s *session) live(id string) bool {
	if s.loader != nil {
		if _, ok := s.loader.Instance(id); ok {
			return true
		}
	}
	s.fail("activity not loaded: " + id)
	return false
}

func (s *session) fail(message string) {
	s.send(serverMessage{Type: MsgError, Error: message})
}

// completed runs on the loop when an activity reports completion.
func (s *session) completed(c activity.Completion) {
	msg := serverMessage{Type: MsgCompleted, Completion: &c}
	if s.h.tracker != nil {
		badges, err := s.h.tracker.Record(s.ctx, s.learner, c)
		if err != nil {
			s.h.log.Error("recording completion failed", "learner", s.learner, "activity", c.ActivityID, "error", err)
		}
		msg.Badges = badges
	}
	s.send(msg)
}

func (s *session) closeAll() {
	if s.loader != nil {
		s.loader.UnloadAll()
	}
}
