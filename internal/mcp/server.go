package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the knowledge library to agents.
type Server struct {
	store    *knowledge.Store
	detector *detector.Detector
	reports  *companion.ReportStore
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over store. reports may be nil, in
// which case get_report is not offered.
func NewServer(store *knowledge.Store, reports *companion.ReportStore) *Server {
	s := &Server{
		store:    store,
		detector: detector.New(store),
		reports:  reports,
	}

	s.mcp = server.NewMCPServer(
		"fc-companion",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(lookupTermTool, s.handleLookupTerm)
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(analyzeTextTool, s.handleAnalyzeText)
	if s.reports != nil {
		s.mcp.AddTool(getReportTool, s.handleGetReport)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
