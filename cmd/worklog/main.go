// Package main provides the entry point for the worklog CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against the command's output writer.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	a := newApp()
	defer a.close()

	cmd := newRootCmdWithApp(a)
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the worklog CLI.
func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(newApp())
}

func newRootCmdWithApp(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worklog [note text...]",
		Short: "A shell-prompt work session logger",
		Long: `Worklog - a shell-prompt work session logger.

Run from PROMPT_COMMAND or PS1, worklog appends a timestamped record of the
working directory and git state to an append-only log whenever the idle
interval has passed or the directory or git state changed.

  worklog                 show the last lines of the log
  worklog fixed the bug   append a free-text note
  worklog prompt          print the countdown for embedding in PS1

Text that starts with a command name must go through 'worklog note'.`,
		Version:       buildVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runShowTail(cmd, a, a.cfg.TailLines)
			}
			return runNote(cmd, a, args)
		},
	}

	// Every invocation records the working state before running the command.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.prepare(cmd)
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.Flags().SetInterspersed(false)

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd, a)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "log", Title: "Log Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "report", Title: "Report Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command, a *app) {
	addGroupedCommand(cmd, newPromptCmd(a), "log")
	addGroupedCommand(cmd, newNoteCmd(a), "log")
	addGroupedCommand(cmd, newEditCmd(a), "log")
	addGroupedCommand(cmd, newTagsCmd(a), "log")
	addGroupedCommand(cmd, newCaptureCmd(a), "log")

	addGroupedCommand(cmd, newStatusCmd(a), "report")
	addGroupedCommand(cmd, newTailCmd(a), "report")
	addGroupedCommand(cmd, newJSONCmd(a), "report")
	addGroupedCommand(cmd, newHistoryCmd(a), "report")
	addGroupedCommand(cmd, newPercentCmd(a), "report")

	addGroupedCommand(cmd, newServeCmd(a), "admin")
	addGroupedCommand(cmd, newConfigCmd(a), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
