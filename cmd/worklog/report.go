package main

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
	"github.com/gorewood/worklog/internal/report"
	"github.com/gorewood/worklog/internal/worklog"
)

// newJSONCmd creates the json command.
func newJSONCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "json",
		Aliases: []string{"j"},
		Short:   "Dump per-day summaries as JSON",
		Long: `Print a JSON array with one object per calendar day: date, start and end
time of the first and last record, hours between them, record count (hits)
and the tags added that day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
			store, err := a.openStore()
			if err != nil {
				printer.Error(err)
				return err
			}
			blocks, err := report.Summarize(store.Lines())
			if err != nil {
				printer.Error(err)
				return err
			}
			if blocks == nil {
				blocks = []report.DayBlock{}
			}
			return printer.WriteJSON(blocks)
		},
	}
}

// newHistoryCmd creates the history command.
func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Show notes written in the current directory",
		Long: `Show every note written while working in the directory of the most recent
record. When there are none, parent directories are tried, up to four levels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, a)
		},
	}
}

func runHistory(cmd *cobra.Command, a *app) error {
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
	if state.Empty() {
		printer.Println("No previous work log entry found.")
		return nil
	}

	open := func() iter.Seq2[worklog.Line, error] { return store.Lines() }
	res, err := report.History(open, state.Record.Dir)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(res)
	}
	styles := printer.Styles()
	for _, block := range res.Blocks {
		header := styles.Record.Render("# " + block.Record.Raw)
		if res.LevelsUp > 0 {
			header += styles.Level.Render(fmt.Sprintf(" %d LEVEL UP", res.LevelsUp))
		}
		printer.Println(header)
		for _, note := range block.Notes {
			printer.Println(note)
		}
	}
	return nil
}

// newPercentCmd creates the percent command.
func newPercentCmd(a *app) *cobra.Command {
	var marker string
	cmd := &cobra.Command{
		Use:     "percent",
		Aliases: []string{"P"},
		Short:   "Show the share of records per project",
		Long: `Count records per project, where the project is the directory right below the
project marker directory (default "repo"), and print "project: hits percent".

Examples:
  worklog percent              # ~/repo/<project>/...
  worklog percent --marker src # ~/src/<project>/...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if marker == "" {
				marker = a.cfg.ProjectMarker
			}
			return runPercent(cmd, a, marker)
		},
	}
	cmd.Flags().StringVar(&marker, "marker", "", "Directory name under which projects live (default from config)")
	return cmd
}

func runPercent(cmd *cobra.Command, a *app, marker string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	store, err := a.openStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	shares, err := report.Percent(store.Lines(), marker, worklog.ResolvePath)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(shares)
	}
	for _, share := range shares {
		printer.Println(share.String())
	}
	return nil
}
