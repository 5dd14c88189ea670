package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
)

// newNoteCmd creates the note command.
func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note <text...>",
		Short: "Append a free-text note",
		Long: `Append the arguments, joined by spaces, as one line of the log.

Plain 'worklog <text>' does the same unless the first word is a command name.

Examples:
  worklog note tail recursion not working
  worklog note -- -v flag ignored by parser`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNote(cmd, a, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runNote(cmd *cobra.Command, a *app, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := a.openStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	text := strings.Join(args, " ")
	if err := store.AppendRaw(text); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "ok", "line": text})
	}
	return nil
}

// runShowTail prints the last n lines of the log.
func runShowTail(cmd *cobra.Command, a *app, n int) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	store, err := a.openStore()
	if err != nil {
		printer.Error(err)
		return err
	}
	lines, err := store.Tail(n)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		if lines == nil {
			lines = []string{}
		}
		return printer.Success(map[string]any{"path": store.Path(), "lines": lines})
	}
	for _, line := range lines {
		printer.Println(line)
	}
	return nil
}
