package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/follow"
	"github.com/gorewood/worklog/internal/output"
)

// newTailCmd creates the tail command.
func newTailCmd(a *app) *cobra.Command {
	var (
		lines      int
		followFlag bool
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the last lines of the log",
		Long: `Show the last lines of the log (default from tail_lines, 25).

Examples:
  worklog tail           # last 25 lines
  worklog tail -n 100    # last 100 lines
  worklog tail -f        # keep printing lines as other shells append them`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if followFlag && isJSONMode(cmd) {
				err := output.NewUserError("--follow cannot be combined with --json")
				output.NewPrinter(cmd.OutOrStdout(), true, false).Error(err)
				return err
			}
			n := a.cfg.TailLines
			if cmd.Flags().Changed("lines") {
				n = lines
			}
			if err := runShowTail(cmd, a, n); err != nil {
				return err
			}
			if !followFlag {
				return nil
			}
			return runFollow(cmd, a)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 25, "Number of lines to show")
	cmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "Keep printing appended lines")
	return cmd
}

func runFollow(cmd *cobra.Command, a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	offset, err := store.Size()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	err = follow.Follow(cmd.Context(), store.Path(), offset, func(line string) {
		_, _ = fmt.Fprintln(out, line)
	})
	if err != nil {
		return output.NewSystemErrorWithCause("failed to follow work log", err)
	}
	return nil
}
