package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPromptCmd creates the prompt command.
func newPromptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "prompt",
		Aliases: []string{"PS1"},
		Short:   "Print the countdown and git state for embedding in PS1",
		Long: `Record the working state if needed, then print the minutes left until the
idle interval forces a new record followed by the short git summary, with no
trailing newline.

Examples:
  PS1='$(worklog prompt) \$ '
  worklog PS1               # same as prompt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrompt(cmd, a)
		},
	}
}

func runPrompt(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	if a.decision.IntervalElapsed() {
		if _, err := fmt.Fprintf(out, "\n\n%d+ minutes since last work log entry ", a.cfg.Interval); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%d%s", a.decision.MinutesRemaining, a.info.Prompt())
	return err
}
