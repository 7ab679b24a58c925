package companion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/fc-companion/internal/detector"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
	Hash string `json:"hash,omitempty"`
}

// RegisterRoutes mounts report and analysis endpoints on the given router.
// Either argument may be nil, in which case its endpoints are not mounted.
func RegisterRoutes(r chi.Router, reports *ReportStore, d *detector.Detector) {
	if reports != nil {
		r.Route("/api/reports", func(r chi.Router) {
			r.Get("/", handleListReports(reports))
			r.Get("/{date}", handleGetReport(reports))
		})
	}
	if d != nil {
		r.Post("/api/analyze", handleAnalyze(d))
	}
}

func handleListReports(reports *ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 30
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		records, err := reports.List(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []Record{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// FIDParam reads the optional ?fid= filter. A missing value is 0, which
// matches any account.
func FIDParam(r *http.Request) (int64, error) {
	v := r.URL.Query().Get("fid")
	if v == "" {
		return 0, nil
	}
	fid, err := strconv.ParseInt(v, 10, 64)
	if err != nil || fid < 0 {
		return 0, fmt.Errorf("invalid fid %q", v)
	}
	return fid, nil
}

func handleGetReport(reports *ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fid, err := FIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		report, err := reports.Get(r.Context(), chi.URLParam(r, "date"), fid)
		if errors.Is(err, ErrReportNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func handleAnalyze(d *detector.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, d.Analyze(req.Text, req.Hash))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
