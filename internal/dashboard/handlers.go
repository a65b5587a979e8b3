package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/playdeck/internal/activity"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Sections    int                   `json:"sections"`
	Activities  int                   `json:"activities"`
	ByType      map[activity.Type]int `json:"by_type"`
	Learners    int                   `json:"learners"`
	Completions int                   `json:"completions"`
	Version     string                `json:"version"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := statsResponse{
		Sections: len(d.catalog.Sections()),
		ByType:   make(map[activity.Type]int),
		Version:  d.catalog.Version(),
	}
	for _, id := range d.catalog.ActivityIDs() {
		if cfg, ok := d.catalog.Activity(id); ok {
			resp.Activities++
			resp.ByType[cfg.Type]++
		}
	}

	if d.store != nil {
		learners, err := d.store.Learners(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Learners = len(learners)

		resp.Completions, err = d.store.CountCompletions(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
