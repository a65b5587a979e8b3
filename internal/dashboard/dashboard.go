// Package dashboard serves the learner-facing page: the course index, the
// browser play client and a few course-wide statistics.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/progress"
)

// Dashboard provides the course page and its stats endpoint.
type Dashboard struct {
	catalog *content.Catalog
	store   *progress.Store
}

// New creates a new Dashboard. store may be nil, in which case learner
// statistics are reported as zero.
func New(cat *content.Catalog, store *progress.Store) *Dashboard {
	return &Dashboard{catalog: cat, store: store}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/play.js", d.ServeClient)
	r.Get("/api/dashboard/stats", d.handleStats)
}
