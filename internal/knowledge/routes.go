package knowledge

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// RegisterRoutes mounts knowledge endpoints under /api/knowledge on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/knowledge", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{id}", handleGet(store))
	})
}

// handleList serves ?q= keyword search, ?type= filtering, or everything.
func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var entries []Entry
		switch {
		case q.Get("q") != "":
			entries = store.Search(q.Get("q"))
		case q.Get("type") != "":
			t := patterns.Kind(q.Get("type"))
			if !slices.Contains(ValidTypes, t) {
				http.Error(w, "unknown type", http.StatusBadRequest)
				return
			}
			entries = store.ByType(t)
		default:
			entries = store.All()
		}
		if entries == nil {
			entries = []Entry{}
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
