// Package mcp provides a Model Context Protocol server for worklog.
// It exposes the work log as MCP tools that any MCP-capable agent can use.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/worklog/internal/git"
	"github.com/gorewood/worklog/internal/worklog"
)

// Deps are the collaborators the tools read from and write to.
type Deps struct {
	Store      *worklog.Store
	Reconciler *worklog.Reconciler
	Git        git.Querier
	// ProjectMarker is passed to the percent report.
	ProjectMarker string
	// Now defaults to time.Now.
	Now func() time.Time
	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)
}

// NewServer creates an MCP server with all worklog tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "worklog",
		Version: version,
	}, nil)
	registerTools(server, withDefaults(deps))
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all worklog tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "state",
		Description: "Show the last work log record, whether a new record is due for a directory, the minutes left in the current interval, and the directory's git summary.",
		Annotations: readOnlyAnnotations(),
	}, handleState(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summary",
		Description: "Summarize the work log per calendar day: first and last record time, hours, record count and tags.",
		Annotations: readOnlyAnnotations(),
	}, handleSummary(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "percent",
		Description: "Share of work log records per project, where the project is the directory below the project marker (default 'repo').",
		Annotations: readOnlyAnnotations(),
	}, handlePercent(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tags",
		Description: "List tags used before the most recent tags line, and the tags that line introduced.",
		Annotations: readOnlyAnnotations(),
	}, handleTags(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "history",
		Description: "Notes written while working in a directory, climbing up to four parent directories when it has none.",
		Annotations: readOnlyAnnotations(),
	}, handleHistory(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "note",
		Description: "Append a free-text note to the work log.",
		Annotations: writeAnnotations(),
	}, handleNote(deps))
}
