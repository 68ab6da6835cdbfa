// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
)

// ServerName is the name announced to MCP clients.
const ServerName = "gitpulse Analytics Server"

// NewMCPServer initializes and configures the gitpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, sess *core.Session, store contract.StateStore) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		sess:    sess,
		store:   store,
	}

	levelOpt := mcp.WithString("level", mcp.Description("View level (executive, management, developer). Defaults to the session level."),
		mcp.Enum("executive", "management", "developer"))

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Summarize the loaded commit history: metric cards, contributors, urgency and category breakdowns."),
		levelOpt,
	), h.handleGetDashboard)

	// --- 2. Tool: get_timeline ---
	s.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("List commit counts per week or day, most recent first."),
		levelOpt,
	), h.handleGetTimeline)

	// --- 3. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Return the hour by weekday commit heatmap and the activity grid."),
		levelOpt,
	), h.handleGetHeatmap)

	// --- 4. Tool: get_detail ---
	s.AddTool(mcp.NewTool("get_detail",
		mcp.WithDescription("List the commits behind a dashboard element, newest first."),
		mcp.WithString("selector", mcp.Description("Element to open as kind=value, e.g. 'tag=bugfix', 'week=2024-01-01', 'hour-cell=22:1', 'all'."), mcp.Required()),
		mcp.WithString("mode", mcp.Description("Contributor grouping for group selectors (total, repo, individual).")),
		mcp.WithNumber("offset", mcp.Description("Index of the first commit to return.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of commits to return.")),
	), h.handleGetDetail)

	// --- 5. Tool: list_levels ---
	s.AddTool(mcp.NewTool("list_levels",
		mcp.WithDescription("List the view levels with their contributor, timing and drilldown settings."),
	), h.handleListLevels)

	// --- 6. Tool: set_level ---
	s.AddTool(mcp.NewTool("set_level",
		mcp.WithDescription("Switch the session view level."),
		mcp.WithString("level", mcp.Description("View level name; unknown names fall back to developer."), mcp.Required()),
	), h.handleSetLevel)

	// --- 7. Tool: get_filter ---
	s.AddTool(mcp.NewTool("get_filter",
		mcp.WithDescription("Return the active filter and its one-line summary."),
	), h.handleGetFilter)

	// --- 8. Tool: set_filter ---
	s.AddTool(mcp.NewTool("set_filter",
		mcp.WithDescription("Replace the active filter with a JSON filter spec."),
		mcp.WithString("filter", mcp.Description(`Filter spec JSON, e.g. {"tag":{"values":["merge"],"mode":"exclude"},"dateFrom":"2024-01-01"}.`), mcp.Required()),
	), h.handleSetFilter)

	// --- 9. Tool: toggle_filter ---
	s.AddTool(mcp.NewTool("toggle_filter",
		mcp.WithDescription("Add or remove one value of a filter dimension, optionally switching its mode."),
		mcp.WithString("dimension", mcp.Description("Filter dimension."), mcp.Required(), mcp.Enum("tag", "author", "repo", "urgency", "impact")),
		mcp.WithString("value", mcp.Description("Value to toggle; empty only changes the mode.")),
		mcp.WithString("mode", mcp.Description("Dimension mode."), mcp.Enum("include", "exclude")),
	), h.handleToggleFilter)

	// --- 10. Tool: reset_filter ---
	s.AddTool(mcp.NewTool("reset_filter",
		mcp.WithDescription("Restore the default filter, which hides merge commits."),
	), h.handleResetFilter)

	// --- 11. Tool: load_data ---
	s.AddTool(mcp.NewTool("load_data",
		mcp.WithDescription("Load and merge commit dataset files, replacing the loaded dataset."),
		mcp.WithString("paths", mcp.Description("Comma-separated dataset file paths."), mcp.Required()),
	), h.handleLoadData)

	return s
}

// StartMCPServer starts the gitpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, sess *core.Session, store contract.StateStore) error {
	s := NewMCPServer(baseCfg, sess, store)
	return server.ServeStdio(s)
}
