package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/db"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cat, err := content.Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	return New(cfg, database, cat, nil, nil)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestRoutesMounted(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	for _, path := range []string{
		"/",
		"/play.js",
		"/api/content/sections",
		"/api/content/sections/week-1",
		"/api/progress/ana",
		"/api/progress/ana/journal",
		"/api/dashboard/stats",
		"/api/audit/",
	} {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestMediaDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bell.wav"), []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{Port: 0, MediaDir: dir})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/media/bell.wav", nil))
	if w.Code != http.StatusOK || w.Body.String() != "RIFF" {
		t.Errorf("media: %d %q", w.Code, w.Body.String())
	}

	bare := newTestServer(t, Config{Port: 0})
	w = httptest.NewRecorder()
	bare.Router().ServeHTTP(w, httptest.NewRequest("GET", "/media/bell.wav", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a media dir, got %d", w.Code)
	}
}

func TestPlaySocket(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/play?learner=ana"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	var welcome struct {
		Type    string `json:"type"`
		Learner string `json:"learner"`
	}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read: %v", err)
	}
	if welcome.Type != "welcome" || welcome.Learner != "ana" {
		t.Errorf("welcome = %+v", welcome)
	}
}
