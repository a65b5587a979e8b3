package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audit"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/dashboard"
	"github.com/ziadkadry99/playdeck/internal/db"
	"github.com/ziadkadry99/playdeck/internal/logger"
	"github.com/ziadkadry99/playdeck/internal/markup"
	"github.com/ziadkadry99/playdeck/internal/progress"
	"github.com/ziadkadry99/playdeck/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port     int
	MediaDir string // optional directory served under /media/
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server is the course server: content API, progress API and live play.
type Server struct {
	cfg        Config
	db         *db.DB
	catalog    *content.Catalog
	tracker    *progress.Tracker
	journal    *audit.Store
	audio      activity.AudioFactory
	markdown   *markup.Renderer
	log        *logger.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for cat, persisting progress in database. A nil
// audio factory plays clips in the browser.
func New(cfg Config, database *db.DB, cat *content.Catalog, audio activity.AudioFactory, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if audio == nil {
		audio = activity.RemoteAudio
	}
	s := &Server{
		cfg:      cfg,
		db:       database,
		catalog:  cat,
		tracker:  progress.NewTracker(progress.NewStore(database), cat, log),
		journal:  audit.NewStore(database),
		audio:    audio,
		markdown: markup.New(),
		log:      log,
	}

	s.tracker.SetJournal(s.journal)
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Play sockets outlive any request timeout.
	session.RegisterRoutes(r, session.NewHandler(s.catalog, s.log,
		session.WithTracker(s.tracker),
		session.WithJournal(s.journal),
		session.WithAudio(s.audio),
		session.WithMarkdown(s.markdown),
	))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		content.RegisterRoutes(r, s.catalog, s.markdown)
		progress.RegisterRoutes(r, s.tracker)
		audit.RegisterRoutes(r, s.journal)
		dashboard.New(s.catalog, s.tracker.Store()).RegisterRoutes(r)

		if s.cfg.MediaDir != "" {
			r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaDir))))
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Tracker returns the progress tracker.
func (s *Server) Tracker() *progress.Tracker { return s.tracker }

// Journal returns the play journal.
func (s *Server) Journal() *audit.Store { return s.journal }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("playdeck server listening", "addr", addr, "sections", len(s.catalog.Sections()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. Hijacked play sockets are not
// tracked by net/http, so callers cancel their context first.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
