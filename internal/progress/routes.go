package progress

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the progress endpoints.
func RegisterRoutes(r chi.Router, tracker *Tracker) {
	r.Get("/api/progress/{learner}", getProgressHandler(tracker))
	r.Delete("/api/progress/{learner}", resetProgressHandler(tracker))
}

func getProgressHandler(tracker *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := tracker.Summary(r.Context(), chi.URLParam(r, "learner"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func resetProgressHandler(tracker *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tracker.Reset(r.Context(), chi.URLParam(r, "learner"), "api"); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
