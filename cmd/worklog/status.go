package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
	"github.com/gorewood/worklog/internal/worklog"
)

// newStatusCmd creates the status command.
func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last record and the checkpoint decision",
		Long: `Show the most recent record in the log, what this invocation's checkpoint
decided and why, the minutes left in the interval and the git summary of the
working directory.

Examples:
  worklog status          # Show human-readable status
  worklog status --json   # Output status as JSON for scripting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, a)
		},
	}
}

func runStatus(cmd *cobra.Command, a *app) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	store, err := a.openStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	state, err := store.LastState()
	if err != nil {
		printer.Error(err)
		return err
	}

	count, err := countRecords(store)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		reasons := make([]string, 0, len(a.decision.Reasons))
		for _, r := range a.decision.Reasons {
			reasons = append(reasons, string(r))
		}
		data := map[string]any{
			"log_path":          store.Path(),
			"dir":               a.dir,
			"git":               a.info.String(),
			"appended":          a.decision.Append,
			"reasons":           reasons,
			"minutes_remaining": a.decision.MinutesRemaining,
			"interval":          a.cfg.Interval,
			"has_tags":          state.HasTags,
			"record_count":      count,
		}
		if state.Record != nil {
			data["last_record"] = state.Record
		}
		return printer.Success(data)
	}

	printHumanStatus(printer, a, store.Path(), state, count)
	return nil
}

// countRecords counts the timestamped records in the whole log.
func countRecords(store *worklog.Store) (int, error) {
	n := 0
	for _, err := range store.Records() {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func printHumanStatus(printer *output.Printer, a *app, path string, state worklog.State, count int) {
	printer.Section("Last Entry")
	if state.Empty() {
		printer.KeyValue("Record", "none")
	} else {
		printer.KeyValue("Time", state.Record.Time.Format("2006-01-02 15:04"))
		printer.KeyValue("Directory", state.Record.Dir)
		printer.KeyValue("Git", orNone(state.Record.Git))
		printer.KeyValue("Tags", formatBool(state.HasTags))
	}

	printer.Section("Checkpoint")
	printer.KeyValue("Directory", a.dir)
	printer.KeyValue("Git", orNone(a.info.String()))
	printer.KeyValue("Appended", formatBool(a.decision.Append))
	if len(a.decision.Reasons) > 0 {
		reasons := make([]string, 0, len(a.decision.Reasons))
		for _, r := range a.decision.Reasons {
			reasons = append(reasons, string(r))
		}
		printer.KeyValue("Reasons", strings.Join(reasons, ", "))
	}
	printer.KeyValue("Minutes Left", strconv.Itoa(a.decision.MinutesRemaining)+" of "+strconv.Itoa(a.cfg.Interval))

	printer.Section("Log")
	printer.KeyValue("Path", path)
	printer.KeyValue("Records", strconv.Itoa(count))
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
