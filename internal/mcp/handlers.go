package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
	"github.com/ziadkadry99/fc-companion/internal/vault"
)

// handleLookupTerm returns the entry for a term. The term is tried as an id,
// lowercased, slugged, and finally through the detector's rule tables so
// spellings like "@harmonybot" find their entry.
func (s *Server) handleLookupTerm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	if e, ok := s.lookup(term); ok {
		return mcp.NewToolResultText(formatEntry(e)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%q is not in the knowledge library yet.", term)), nil
}

func (s *Server) lookup(term string) (knowledge.Entry, bool) {
	lower := strings.ToLower(strings.TrimSpace(term))
	for _, id := range []string{term, lower, strings.Join(strings.Fields(lower), "-")} {
		if e, ok := s.store.Get(id); ok {
			return e, true
		}
	}
	for _, ref := range s.detector.Analyze(term, "").References {
		if ref.Resolved() {
			return *ref.Entry, true
		}
	}
	return knowledge.Entry{}, false
}

// handleSearchKnowledge performs keyword search over the knowledge store.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	results := s.store.Search(query)
	if typeStr := request.GetString("type_filter", ""); typeStr != "" {
		kind := patterns.Kind(typeStr)
		kept := results[:0]
		for _, e := range results {
			if e.Type == kind {
				kept = append(kept, e)
			}
		}
		results = kept
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No entries found. Run `companion learn` to grow the library."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d entr%s:\n", len(results), plural(len(results), "y", "ies")))
	for i, e := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(formatEntry(e))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleAnalyzeText runs the context detector over a post.
func (s *Server) handleAnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	return mcp.NewToolResultText(formatAnalysis(s.detector.Analyze(text, ""))), nil
}

// handleGetReport returns a stored report as markdown.
func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: date"), nil
	}

	report, err := s.reports.Get(ctx, date, int64(request.GetInt("fid", 0)))
	if errors.Is(err, companion.ErrReportNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No report for %s. Run `companion report` to generate one.", date,
		)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read report: %v", err)), nil
	}

	md, err := vault.RenderReport(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
	}
	return mcp.NewToolResultText(md), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatEntry renders one entry for agent consumption.
func formatEntry(e knowledge.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s [%s] (id: %s)\n", e.Title, e.Type, e.ID))
	if e.Description != "" {
		sb.WriteString(e.Description + "\n")
	}
	sb.WriteString("\n" + e.Explanation + "\n")
	if e.WhyMatters != "" {
		sb.WriteString("\nWhy it matters: " + e.WhyMatters + "\n")
	}
	if len(e.Examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("- " + ex + "\n")
		}
	}
	if len(e.Related) > 0 {
		sb.WriteString("Related: " + strings.Join(e.Related, ", ") + "\n")
	}
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", e.Confidence))
	return sb.String()
}

// formatAnalysis renders a detector result.
func formatAnalysis(a detector.Analysis) string {
	if len(a.References) == 0 {
		return "No community references found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d reference(s):\n", len(a.References)))
	for _, r := range a.References {
		status := "unknown"
		if r.Resolved() {
			status = "known: " + r.Entry.ID
		}
		sb.WriteString(fmt.Sprintf("- %s [%s] %s (confidence %.1f)\n", r.Text, r.Kind, status, r.Confidence))
	}
	if a.NeedsExplanation {
		sb.WriteString("\nSuggested context:\n")
		for _, c := range a.SuggestedContext {
			sb.WriteString("- " + c + "\n")
		}
	}
	return sb.String()
}
