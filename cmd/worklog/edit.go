package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
	"github.com/gorewood/worklog/internal/report"
)

// captureLines is how much of the screen scrollback capture keeps.
const captureLines = 100

// newEditCmd creates the edit command.
func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "edit",
		Aliases: []string{"e"},
		Short:   "Open the log in the editor at the last line",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			return a.editor(cmd.Context(), cmd, a.editorArgv(store.Path(), "normal G"))
		},
	}
}

// newTagsCmd creates the tags command.
func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tags",
		Aliases: []string{"t"},
		Short:   "Edit the tags of the last record",
		Long: `Open the log with the cursor on the tags line of the most recent record,
adding a "tags:" line below it when it has none. After the editor exits, any
tag not used before is reported so that typos stand out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTags(cmd, a)
		},
	}
}

func runTags(cmd *cobra.Command, a *app) error {
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

	if err := a.editor(cmd.Context(), cmd, a.editorArgv(store.Path(), tagsCommands(state)...)); err != nil {
		printer.Error(err)
		return err
	}

	inv, err := report.TagInventory(store.Lines())
	if err != nil {
		printer.Error(err)
		return err
	}
	if printer.IsJSON() {
		return printer.WriteJSON(inv)
	}
	if len(inv.New) > 0 {
		printer.Println("Previous tags:", strings.Join(inv.Previous, ", "))
		printer.Println("New tags:", printer.Styles().Warning.Render(strings.Join(inv.New, ", ")))
	}
	return nil
}

// newCaptureCmd creates the capture command.
func newCaptureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "capture",
		Aliases: []string{"s"},
		Short:   "Append the screen scrollback to the log and edit it",
		Long: `Inside a GNU screen session, copy the last 100 lines of the current window's
scrollback into the log, then open the editor at the most recent record so
the capture can be trimmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCapture(cmd, a)
		},
	}
}

func runCapture(cmd *cobra.Command, a *app) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if os.Getenv("STY") == "" {
		err := output.NewUserError("not inside a screen session")
		printer.Error(err)
		return err
	}
	store, err := a.openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	tmp, err := os.MkdirTemp("", "worklog-capture-")
	if err != nil {
		err = output.NewSystemErrorWithCause("failed to create temp dir", err)
		printer.Error(err)
		return err
	}
	defer os.RemoveAll(tmp) //nolint:errcheck // temp cleanup

	hardcopy := filepath.Join(tmp, "hardcopy")
	if err := a.hardcopy(cmd.Context(), hardcopy); err != nil {
		printer.Error(err)
		return err
	}
	data, err := os.ReadFile(hardcopy)
	if err != nil {
		err = output.NewSystemErrorWithCause("failed to read screen capture", err)
		printer.Error(err)
		return err
	}

	if err := store.AppendRaw(lastLines(string(data), captureLines)); err != nil {
		printer.Error(err)
		return err
	}
	return a.editor(cmd.Context(), cmd, a.editorArgv(store.Path(), "normal G", lastRecordSearch, "normal zz"))
}

// lastLines returns the final n lines of text without a trailing newline.
func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
