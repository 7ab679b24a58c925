package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/metrics"
	"github.com/ziadkadry99/fc-companion/internal/vault"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the components the server reads from. Reports and Metrics may
// be nil.
type Deps struct {
	Knowledge *knowledge.Store
	Reports   *companion.ReportStore
	Metrics   *metrics.Collector
	Log       logrus.FieldLogger
}

// Server exposes the knowledge library and stored reports over HTTP.
type Server struct {
	cfg        Config
	deps       Deps
	md         goldmark.Markdown
	router     chi.Router
	httpServer *http.Server
}

// New creates a server and builds its routes.
func New(cfg Config, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	s := &Server{
		cfg:  cfg,
		deps: deps,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware)
	}

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	if s.deps.Knowledge != nil {
		knowledge.RegisterRoutes(r, s.deps.Knowledge)
		companion.RegisterRoutes(r, s.deps.Reports, detector.New(s.deps.Knowledge))
	} else {
		companion.RegisterRoutes(r, s.deps.Reports, nil)
	}
	if s.deps.Reports != nil {
		r.Get("/reports/{date}", s.handleReportPage)
	}

	return r
}

// handleReportPage renders a stored report's markdown as HTML.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	fid, err := companion.FIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := s.deps.Reports.Get(r.Context(), chi.URLParam(r, "date"), fid)
	if errors.Is(err, companion.ErrReportNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	src, err := vault.RenderReport(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Companion ")
	buf.WriteString(report.Date)
	buf.WriteString("</title></head><body>\n")
	if err := s.md.Convert([]byte(stripFrontMatter(src)), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	buf.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// stripFrontMatter drops a leading YAML block delimited by --- lines.
func stripFrontMatter(src string) string {
	if !strings.HasPrefix(src, "---\n") {
		return src
	}
	end := strings.Index(src[4:], "\n---\n")
	if end < 0 {
		return src
	}
	return src[4+end+5:]
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.deps.Log.WithField("addr", s.cfg.Addr).Info("server: listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
