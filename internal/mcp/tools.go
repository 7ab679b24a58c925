package mcp

import "github.com/mark3labs/mcp-go/mcp"

// lookupTermTool defines the lookup_term MCP tool.
var lookupTermTool = mcp.NewTool("lookup_term",
	mcp.WithDescription("Explain a Farcaster term, tool or in-joke from the knowledge library."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Entry id or the term as written, e.g. \"gm\" or \"bankr\""),
	),
)

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Keyword search over knowledge entries' titles, descriptions and explanations."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Keyword to look for (case-insensitive)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("type_filter",
		mcp.Description("Only return entries of this type"),
		mcp.Enum("person", "feature", "culture", "topic", "channel", "tool"),
	),
)

// analyzeTextTool defines the analyze_text MCP tool.
var analyzeTextTool = mcp.NewTool("analyze_text",
	mcp.WithDescription("Find community references in a post and say which of them need explaining."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The post text to analyze"),
	),
)

// getReportTool defines the get_report MCP tool.
var getReportTool = mcp.NewTool("get_report",
	mcp.WithDescription("Get the stored companion report for a date."),
	mcp.WithString("date",
		mcp.Required(),
		mcp.Description("Report date as YYYY-MM-DD"),
	),
	mcp.WithNumber("fid",
		mcp.Description("Account fid; omit for the latest report of any account"),
	),
)
