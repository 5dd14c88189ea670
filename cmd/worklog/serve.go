package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
	worklogmcp "github.com/gorewood/worklog/internal/mcp"
	"github.com/gorewood/worklog/internal/worklog"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run worklog as a Model Context Protocol (MCP) server over stdio.

This exposes the work log as MCP tools that any MCP-capable agent
environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "worklog": {
        "command": "worklog",
        "args": ["serve"]
      }
    }
  }

Serving does not record a checkpoint. Available tools: state, summary,
percent, tags, history, note`,
		Args:        cobra.NoArgs,
		Annotations: skip(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				output.NewPrinter(cmd.ErrOrStderr(), false, false).Error(err)
				return err
			}
			server := worklogmcp.NewServer(buildVersion(), worklogmcp.Deps{
				Store:         store,
				Reconciler:    worklog.NewReconciler(a.cfg.IntervalDuration()),
				Git:           a.git,
				ProjectMarker: a.cfg.ProjectMarker,
				Now:           a.now,
				Getwd:         a.getwd,
			})
			a.logger.Info("serving MCP over stdio")
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
