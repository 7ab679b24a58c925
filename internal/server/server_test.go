package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/db"
	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/metrics"
	"github.com/ziadkadry99/fc-companion/internal/radar"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := knowledge.NewSeededStore(now)
	reports := companion.NewReportStore(database)

	item := feed.ActivityItem{
		Hash:      "0xabc",
		Author:    feed.Author{FID: 3, Username: "dwr"},
		Text:      "gm! anyone tried the new frame in /base?",
		Timestamp: now,
		Replies:   4,
		Likes:     10,
		Recasts:   1,
	}
	report := companion.NewAssembler(detector.New(store)).Assemble(
		companion.FromOpportunities([]radar.Opportunity{{Item: item, Score: 31, Reasons: []string{radar.ReasonActiveConversation}, URL: item.ConversationURL()}}),
		now, 77)
	if _, err := reports.Save(context.Background(), report); err != nil {
		t.Fatalf("saving report: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, Deps{
		Knowledge: store,
		Reports:   reports,
		Metrics:   metrics.New("test"),
		Log:       log,
	})
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{})
	w := do(t, srv, "GET", "/healthz", "")

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
	srv := newTestServer(t, Config{AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestKnowledgeRoutes(t *testing.T) {
	srv := newTestServer(t, Config{})

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantLen  int
	}{
		{"all", "/api/knowledge", http.StatusOK, 7},
		{"by type", "/api/knowledge?type=culture", http.StatusOK, 3},
		{"search", "/api/knowledge?q=bankr", http.StatusOK, 2},
		{"search miss", "/api/knowledge?q=zzzz", http.StatusOK, 0},
		{"bad type", "/api/knowledge?type=planet", http.StatusBadRequest, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "GET", tt.target, "")
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantLen < 0 {
				return
			}
			var entries []knowledge.Entry
			if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(entries) != tt.wantLen {
				t.Errorf("got %d entries, want %d", len(entries), tt.wantLen)
			}
		})
	}
}

func TestKnowledgeGet(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "GET", "/api/knowledge/gm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var e knowledge.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatal(err)
	}
	if e.ID != "gm" || e.Confidence != 1 {
		t.Errorf("entry = %+v", e)
	}

	if w := do(t, srv, "GET", "/api/knowledge/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing entry code = %d", w.Code)
	}
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "POST", "/api/analyze", `{"text":"gm, wagmi","hash":"h1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
	var a detector.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.ItemHash != "h1" || len(a.References) != 2 || !a.NeedsExplanation {
		t.Errorf("analysis = %+v", a)
	}

	for _, body := range []string{`{"text":""}`, `not json`} {
		if w := do(t, srv, "POST", "/api/analyze", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: code = %d", body, w.Code)
		}
	}
}

func TestReportRoutes(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "GET", "/api/reports", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list code = %d", w.Code)
	}
	var records []companion.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Date != "2026-03-01" || records[0].Summary.Count != 1 {
		t.Errorf("records = %+v", records)
	}

	w = do(t, srv, "GET", "/api/reports/2026-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get code = %d", w.Code)
	}
	var r companion.Report
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.FID != 77 || len(r.Opportunities) != 1 || r.Opportunities[0].Context == nil {
		t.Errorf("report = %+v", r)
	}

	if w := do(t, srv, "GET", "/api/reports/1999-01-01", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing report code = %d", w.Code)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/reports/2026-03-01?fid=77", http.StatusOK},
		{"/api/reports/2026-03-01?fid=78", http.StatusNotFound},
		{"/api/reports/2026-03-01?fid=abc", http.StatusBadRequest},
		{"/reports/2026-03-01?fid=78", http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := do(t, srv, "GET", tt.path, ""); w.Code != tt.want {
			t.Errorf("GET %s code = %d, want %d", tt.path, w.Code, tt.want)
		}
	}
}

func TestReportPage(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "GET", "/reports/2026-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"<h1", "Engagement Opportunities", "@dwr"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "tags: [companion") {
		t.Error("front matter rendered into page")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})
	do(t, srv, "GET", "/healthz", "")

	w := do(t, srv, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "companion_http_requests_total") {
		t.Errorf("metrics missing request counter:\n%s", w.Body.String())
	}
}

func TestStripFrontMatter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"---\ntitle: x\n---\n# Body\n", "# Body\n"},
		{"# No front matter\n", "# No front matter\n"},
		{"---\nunterminated\n", "---\nunterminated\n"},
	}
	for _, tt := range tests {
		if got := stripFrontMatter(tt.in); got != tt.want {
			t.Errorf("stripFrontMatter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
