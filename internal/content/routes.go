package content

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/playdeck/internal/markup"
)

// SectionView is a section as served to clients.
type SectionView struct {
	Section
	SummaryHTML template.HTML `json:"summaryHtml,omitempty"`
}

// RegisterRoutes mounts the read-only content endpoints.
func RegisterRoutes(r chi.Router, cat *Catalog, md *markup.Renderer) {
	r.Get("/api/content/sections", listSectionsHandler(cat, md))
	r.Get("/api/content/sections/{id}", getSectionHandler(cat, md))
	r.Get("/api/content/activities/{id}", getActivityHandler(cat))
}

func view(s Section, md *markup.Renderer) SectionView {
	v := SectionView{Section: s}
	if md != nil && s.Summary != "" {
		v.SummaryHTML = md.Render(s.Summary)
	}
	return v
}

// notModified sets the ETag and reports whether the client copy is fresh.
func notModified(w http.ResponseWriter, r *http.Request, cat *Catalog) bool {
	if cat.Version() == "" {
		return false
	}
	etag := `"` + cat.Version() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func listSectionsHandler(cat *Catalog, md *markup.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notModified(w, r, cat) {
			return
		}
		result := []SectionView{}
		for _, s := range cat.Sections() {
			result = append(result, view(s, md))
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func getSectionHandler(cat *Catalog, md *markup.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := cat.Section(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "section not found", http.StatusNotFound)
			return
		}
		if notModified(w, r, cat) {
			return
		}
		writeJSON(w, http.StatusOK, view(s, md))
	}
}

func getActivityHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := cat.Activity(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		if notModified(w, r, cat) {
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
