package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// MaxPageSize caps the limit a journal request may ask for.
const MaxPageSize = 500

// RegisterRoutes mounts the journal endpoints: the admin view under
// /api/audit and the per-learner history next to the progress summary.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/audit", func(r chi.Router) {
		r.Get("/", handleQuery(store))
		r.Get("/{id}", handleGetByID(store))
	})
	r.Get("/api/progress/{learner}/journal", handleLearnerJournal(store))
}

func handleQuery(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		listEntries(w, r, store, filter)
	}
}

// handleLearnerJournal lists one learner's history. The learner in the
// path wins over any learner query parameter.
func handleLearnerJournal(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Learner = chi.URLParam(r, "learner")
		listEntries(w, r, store, filter)
	}
}

func listEntries(w http.ResponseWriter, r *http.Request, store *Store, filter QueryFilter) {
	entries, err := store.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusOK, entry)
		}
	}
}

// parseFilter reads journal query parameters. Malformed values are
// rejected rather than ignored.
func parseFilter(q url.Values) (QueryFilter, error) {
	filter := QueryFilter{
		Learner: q.Get("learner"),
		ActorID: q.Get("actor"),
		Action:  Action(q.Get("action")),
		Scope:   Scope(q.Get("scope")),
		ScopeID: q.Get("scope_id"),
	}
	var err error
	if filter.Since, err = parseTime(q, "since"); err != nil {
		return filter, err
	}
	if filter.Until, err = parseTime(q, "until"); err != nil {
		return filter, err
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return filter, errors.New("until is before since")
	}
	if filter.Limit, err = parseCount(q, "limit"); err != nil {
		return filter, err
	}
	if filter.Limit > MaxPageSize {
		return filter, fmt.Errorf("limit must be at most %d", MaxPageSize)
	}
	if filter.Offset, err = parseCount(q, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseTime(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 time: %q", key, v)
	}
	return &t, nil
}

func parseCount(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer: %q", key, v)
	}
	return n, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
