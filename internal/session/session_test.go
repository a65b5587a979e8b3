package session

import (
	"context"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audit"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/db"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/progress"
)

func testCatalog() *content.Catalog {
	return content.New(content.File{
		Sections: []content.Section{
			{ID: "s1", Title: "One", Activities: []string{"cards"}},
			{ID: "s2", Title: "Two", Activities: []string{"more"}},
		},
		Activities: []*activity.Config{
			{ID: "cards", Type: activity.TypeFlashcards, Title: "Cards", Cards: []activity.Card{
				{ID: "c1", Front: activity.Face{Text: "hola"}, Back: activity.Face{Text: "hello"}},
			}},
			{ID: "more", Type: activity.TypeFlashcards, Title: "More", Cards: []activity.Card{
				{ID: "c2", Front: activity.Face{Text: "adiós"}, Back: activity.Face{Text: "bye"}},
			}},
		},
	})
}

func setupServer(t *testing.T) (*httptest.Server, *progress.Tracker) {
	srv, tracker, _ := setupJournaled(t)
	return srv, tracker
}

func setupJournaled(t *testing.T) (*httptest.Server, *progress.Tracker, *audit.Store) {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	cat := testCatalog()
	journal := audit.NewStore(d)
	tracker := progress.NewTracker(progress.NewStore(d), cat, nil)
	tracker.SetJournal(journal)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(cat, nil, WithTracker(tracker), WithJournal(journal)))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tracker, journal
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/play" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func write(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads messages until one of the given type arrives and returns
// it together with everything read before it.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) (serverMessage, []serverMessage) {
	t.Helper()
	var seen []serverMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v (seen %d messages)", typ, err, len(seen))
		}
		if msg.Type == typ {
			return msg, seen
		}
		seen = append(seen, msg)
	}
}

func hasPatch(msgs []serverMessage, op, container string) bool {
	for _, m := range msgs {
		if m.Type == MsgPatch && m.Patch != nil && m.Patch.Op == op && m.Patch.Container == container {
			return true
		}
	}
	return false
}

func TestPlayFlow(t *testing.T) {
	srv, tracker := setupServer(t)
	conn := dial(t, srv, "?learner=ana")

	welcome, _ := readUntil(t, conn, MsgWelcome)
	if welcome.Learner != "ana" {
		t.Errorf("welcome learner = %q, want ana", welcome.Learner)
	}

	write(t, conn, clientMessage{Type: MsgHello, Caps: &dom.Capabilities{Pointer: true}})
	write(t, conn, clientMessage{Type: MsgOpen, Section: "s1"})
	opened, before := readUntil(t, conn, MsgOpened)
	if !slices.Equal(opened.Activities, []string{"cards"}) {
		t.Errorf("opened activities = %v", opened.Activities)
	}
	if !hasPatch(before, dom.OpReplace, "activity-cards") {
		t.Error("expected the flashcards to render before opened")
	}

	write(t, conn, clientMessage{
		Type:     MsgEvent,
		Activity: "cards",
		Event:    &dom.Event{Kind: dom.Click, Action: "flip", Target: "c1"},
	})
	done, _ := readUntil(t, conn, MsgCompleted)
	if done.Completion == nil || done.Completion.ActivityID != "cards" || done.Completion.ActivityType != activity.TypeFlashcards {
		t.Fatalf("completion = %+v", done.Completion)
	}
	if !slices.Contains(done.Badges, progress.BadgeFirstSteps) || !slices.Contains(done.Badges, progress.SectionBadge("s1")) {
		t.Errorf("badges = %v", done.Badges)
	}

	recs, err := tracker.Store().Completions(context.Background(), "ana")
	if err != nil {
		t.Fatalf("Completions: %v", err)
	}
	if len(recs) != 1 || recs[0].ActivityID != "cards" || recs[0].SectionID != "s1" {
		t.Errorf("stored completions = %+v", recs)
	}
}

func TestSectionSwitchUnloadsPrevious(t *testing.T) {
	srv, _ := setupServer(t)
	conn := dial(t, srv, "?learner=ben")
	readUntil(t, conn, MsgWelcome)

	write(t, conn, clientMessage{Type: MsgOpen, Section: "s1"})
	readUntil(t, conn, MsgOpened)

	write(t, conn, clientMessage{Type: MsgOpen, Section: "s2"})
	opened, before := readUntil(t, conn, MsgOpened)
	if opened.Section != "s2" || !slices.Equal(opened.Activities, []string{"more"}) {
		t.Errorf("opened = %+v", opened)
	}
	if !hasPatch(before, dom.OpClear, "activity-cards") {
		t.Error("expected the old section to be cleared")
	}

	// The old activity no longer takes events.
	write(t, conn, clientMessage{Type: MsgEvent, Activity: "cards", Event: &dom.Event{Kind: dom.Click}})
	errMsg, _ := readUntil(t, conn, MsgError)
	if !strings.Contains(errMsg.Error, "not loaded") {
		t.Errorf("error = %q", errMsg.Error)
	}
}

func TestOpenSingleActivityAndReset(t *testing.T) {
	srv, _ := setupServer(t)
	conn := dial(t, srv, "?learner=cy")
	readUntil(t, conn, MsgWelcome)

	write(t, conn, clientMessage{Type: MsgOpen, Activity: "more"})
	opened, _ := readUntil(t, conn, MsgOpened)
	if !slices.Equal(opened.Activities, []string{"more"}) {
		t.Errorf("opened = %v", opened.Activities)
	}

	write(t, conn, clientMessage{Type: MsgReset, Activity: "more"})
	write(t, conn, clientMessage{Type: "ping"})
	_, before := readUntil(t, conn, MsgError)
	if !hasPatch(before, dom.OpReplace, "activity-more") {
		t.Error("expected reset to re-render")
	}
}

func TestProtocolErrors(t *testing.T) {
	srv, _ := setupServer(t)
	conn := dial(t, srv, "?learner=dee")
	readUntil(t, conn, MsgWelcome)

	tests := []struct {
		msg  clientMessage
		want string
	}{
		{clientMessage{Type: "bogus"}, "unknown message type"},
		{clientMessage{Type: MsgOpen, Section: "nope"}, "unknown section"},
		{clientMessage{Type: MsgOpen}, "needs a section"},
		{clientMessage{Type: MsgOpen, Activity: "ghost"}, "cannot load"},
		{clientMessage{Type: MsgHello}, "without capabilities"},
		{clientMessage{Type: MsgEvent, Activity: "cards"}, "without event"},
	}
	for _, tt := range tests {
		write(t, conn, tt.msg)
		got, _ := readUntil(t, conn, MsgError)
		if !strings.Contains(got.Error, tt.want) {
			t.Errorf("%s: error = %q, want %q", tt.msg.Type, got.Error, tt.want)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	got, _ := readUntil(t, conn, MsgError)
	if got.Error != "invalid message format" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestWelcomeIssuesLearnerID(t *testing.T) {
	srv, _ := setupServer(t)
	conn := dial(t, srv, "")
	welcome, _ := readUntil(t, conn, MsgWelcome)
	if _, err := uuid.Parse(welcome.Learner); err != nil {
		t.Errorf("learner %q is not a uuid: %v", welcome.Learner, err)
	}
}

func TestJournalRecordsSession(t *testing.T) {
	srv, _, journal := setupJournaled(t)
	conn := dial(t, srv, "?learner=eve")
	readUntil(t, conn, MsgWelcome)

	write(t, conn, clientMessage{Type: MsgOpen, Section: "s1"})
	readUntil(t, conn, MsgOpened)
	conn.Close()

	ctx := context.Background()
	want := []audit.Action{audit.ActionSessionOpened, audit.ActionSectionOpened, audit.ActionSessionClosed}
	deadline := time.Now().Add(5 * time.Second)
	for {
		entries, err := journal.Query(ctx, audit.QueryFilter{Learner: "eve"})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		var got []audit.Action
		for i := len(entries) - 1; i >= 0; i-- {
			got = append(got, entries[i].Action)
		}
		if slices.Equal(got, want) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("journal = %v, want %v", got, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
