// Package vault writes reports, feed logs and the glossary as markdown and
// JSON files under a dated directory tree.
package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// Writer lays files out as ROOT/YYYY/MM/DD/<name>-YYYYMMDD.<ext>.
type Writer struct {
	Root string
}

// New creates a Writer rooted at root.
func New(root string) *Writer {
	return &Writer{Root: root}
}

// Dir returns the directory holding artifacts for the day of t.
func (w *Writer) Dir(t time.Time) string {
	return filepath.Join(w.Root, t.Format("2006"), t.Format("01"), t.Format("02"))
}

func (w *Writer) path(prefix, ext string, t time.Time) string {
	return filepath.Join(w.Dir(t), fmt.Sprintf("%s-%s.%s", prefix, t.Format("20060102"), ext))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, append(data, '\n'))
}

type feedLog struct {
	FID       int64               `json:"fid"`
	FeedType  string              `json:"feed_type"`
	Timestamp time.Time           `json:"timestamp"`
	Items     []feed.ActivityItem `json:"items"`
}

// WriteFeedLog stores the raw batch a report was built from.
func (w *Writer) WriteFeedLog(fid int64, items []feed.ActivityItem, at time.Time) (string, error) {
	path := w.path("feed-log", "json", at)
	if err := writeJSON(path, feedLog{FID: fid, FeedType: "following", Timestamp: at, Items: items}); err != nil {
		return "", fmt.Errorf("writing feed log: %w", err)
	}
	return path, nil
}

// WriteReport writes the report as markdown and as JSON and returns both paths.
func (w *Writer) WriteReport(r companion.Report) ([]string, error) {
	md, err := RenderReport(r)
	if err != nil {
		return nil, err
	}
	mdPath := w.path("companion", "md", r.GeneratedAt)
	if err := writeFile(mdPath, []byte(md)); err != nil {
		return nil, fmt.Errorf("writing report markdown: %w", err)
	}
	jsonPath := w.path("companion", "json", r.GeneratedAt)
	if err := writeJSON(jsonPath, r); err != nil {
		return nil, fmt.Errorf("writing report json: %w", err)
	}
	return []string{mdPath, jsonPath}, nil
}

// GlossaryPath is where WriteGlossary puts the glossary.
func (w *Writer) GlossaryPath() string {
	return filepath.Join(w.Root, "knowledge", "glossary.md")
}

// WriteGlossary renders entries grouped by type.
func (w *Writer) WriteGlossary(entries []knowledge.Entry) (string, error) {
	md, err := RenderGlossary(entries)
	if err != nil {
		return "", err
	}
	path := w.GlossaryPath()
	if err := writeFile(path, []byte(md)); err != nil {
		return "", fmt.Errorf("writing glossary: %w", err)
	}
	return path, nil
}

// templateFuncs provides helper functions for the markdown templates.
var templateFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"compact": func(date string) string {
		return strings.ReplaceAll(date, "-", "")
	},
	"quote": func(s string) string {
		return "> " + strings.ReplaceAll(s, "\n", "\n> ")
	},
	"title": func(k patterns.Kind) string {
		s := string(k)
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:] + "s"
	},
}

var (
	reportTmpl   = template.Must(template.New("report").Funcs(templateFuncs).Parse(reportTemplate))
	glossaryTmpl = template.Must(template.New("glossary").Funcs(templateFuncs).Parse(glossaryTemplate))
)

// RenderReport returns the report's markdown.
func RenderReport(r companion.Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

type glossaryGroup struct {
	Type    patterns.Kind
	Entries []knowledge.Entry
}

// RenderGlossary returns markdown for entries grouped by type in a fixed
// type order. Types with no entries are omitted.
func RenderGlossary(entries []knowledge.Entry) (string, error) {
	var groups []glossaryGroup
	for _, t := range knowledge.ValidTypes {
		var g glossaryGroup
		g.Type = t
		for _, e := range entries {
			if e.Type == t {
				g.Entries = append(g.Entries, e)
			}
		}
		if len(g.Entries) > 0 {
			groups = append(groups, g)
		}
	}

	var buf bytes.Buffer
	if err := glossaryTmpl.Execute(&buf, struct{ Groups []glossaryGroup }{groups}); err != nil {
		return "", fmt.Errorf("rendering glossary: %w", err)
	}
	return buf.String(), nil
}
