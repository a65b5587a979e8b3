package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/playdeck/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry := Entry{
		ID:        "test-1",
		ActorType: ActorLearner,
		ActorID:   "ana",
		Learner:   "ana",
		Action:    ActionActivityCompleted,
		Scope:     ScopeActivity,
		ScopeID:   "colours",
		Summary:   "completed matching activity colours",
	}

	if err := store.Log(ctx, entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.ActorID != "ana" || got.Learner != "ana" {
		t.Errorf("actor/learner = %q/%q", got.ActorID, got.Learner)
	}
	if got.Action != ActionActivityCompleted {
		t.Errorf("Action = %q, want %q", got.Action, ActionActivityCompleted)
	}
	if got.Scope != ScopeActivity || got.ScopeID != "colours" {
		t.Errorf("scope = %q/%q", got.Scope, got.ScopeID)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestLogGeneratesID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{ActorType: ActorSystem, Action: ActionProgressReset, Scope: ScopeCourse, Learner: "ben"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := store.Query(ctx, QueryFilter{Learner: "ben"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 || entries[0].ID == "" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ActorType: ActorLearner, ActorID: "ana", Learner: "ana", Action: ActionSessionOpened, Scope: ScopeCourse, Timestamp: base},
		{ActorType: ActorLearner, ActorID: "ana", Learner: "ana", Action: ActionSectionOpened, Scope: ScopeSection, ScopeID: "week-1", Timestamp: base.Add(time.Minute)},
		{ActorType: ActorLearner, ActorID: "ana", Learner: "ana", Action: ActionActivityCompleted, Scope: ScopeActivity, ScopeID: "colours", Timestamp: base.Add(2 * time.Minute)},
		{ActorType: ActorSystem, ActorID: "tracker", Learner: "ana", Action: ActionBadgeUnlocked, Scope: ScopeCourse, ScopeID: "first-steps", Timestamp: base.Add(2 * time.Minute)},
		{ActorType: ActorLearner, ActorID: "ben", Learner: "ben", Action: ActionSessionOpened, Scope: ScopeCourse, Timestamp: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()
	since := time.Date(2024, 3, 1, 10, 2, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter QueryFilter
		want   int
	}{
		{"all", QueryFilter{}, 5},
		{"learner", QueryFilter{Learner: "ana"}, 4},
		{"actor", QueryFilter{ActorID: "tracker"}, 1},
		{"action", QueryFilter{Action: ActionSessionOpened}, 2},
		{"scope", QueryFilter{Scope: ScopeSection, ScopeID: "week-1"}, 1},
		{"since", QueryFilter{Since: &since}, 3},
		{"until", QueryFilter{Until: &since}, 4},
		{"limit", QueryFilter{Limit: 2}, 2},
		{"offset", QueryFilter{Offset: 4}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	got, err := store.Query(context.Background(), QueryFilter{Learner: "ana"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got[0].Action != ActionBadgeUnlocked || got[len(got)-1].Action != ActionSessionOpened {
		t.Errorf("order = %v ... %v", got[0].Action, got[len(got)-1].Action)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	n, err := store.DeleteBefore(ctx, time.Date(2024, 3, 1, 10, 2, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	rest, _ := store.Query(ctx, QueryFilter{})
	if len(rest) != 3 {
		t.Errorf("remaining %d, want 3", len(rest))
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	if err := store.Log(context.Background(), Entry{ID: "known", ActorType: ActorAdmin, Action: ActionProgressReset, Scope: ScopeCourse, Learner: "cy"}); err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/audit/?learner=ana&action=section_opened", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].ScopeID != "week-1" {
		t.Errorf("entries = %+v", entries)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/audit/known", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/audit/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRoutesRejectMalformedParams(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"valid", "since=2024-03-01T10:01:00Z&limit=2&offset=1", http.StatusOK},
		{"bad since", "since=yesterday", http.StatusBadRequest},
		{"bad until", "until=2024-13-01", http.StatusBadRequest},
		{"until before since", "since=2024-03-02T00:00:00Z&until=2024-03-01T00:00:00Z", http.StatusBadRequest},
		{"bad limit", "limit=ten", http.StatusBadRequest},
		{"negative limit", "limit=-1", http.StatusBadRequest},
		{"limit too large", "limit=100000", http.StatusBadRequest},
		{"bad offset", "offset=1.5", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/audit/?", "/api/progress/ana/journal?"} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest("GET", path+tt.query, nil))
				if w.Code != tt.want {
					t.Errorf("%s: got %d, want %d (%s)", path, w.Code, tt.want, w.Body.String())
				}
			}
		})
	}
}

func TestGetByIDStoreFailure(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	store := NewStore(database)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	database.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/audit/anything", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for a closed database, got %d", w.Code)
	}
}

func TestLearnerJournalRoute(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/progress/ana/journal?learner=ben&limit=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Learner != "ana" {
			t.Errorf("entry for %q leaked into ana's journal", e.Learner)
		}
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/progress/nobody/journal", nil))
	if w.Code != http.StatusOK || w.Body.String() != "[]\n" {
		t.Errorf("empty journal = %d %q", w.Code, w.Body.String())
	}
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01T10:02:00Z", time.Date(2024, 3, 1, 10, 2, 0, 0, time.UTC), false},
		{"720h", now.Add(-720 * time.Hour), false},
		{"30d", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), false},
		{"-5h", time.Time{}, true},
		{"xd", time.Time{}, true},
		{"last week", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := Cutoff(tt.value, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
