package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/output"
	"github.com/gorewood/worklog/internal/worklog"
)

// editorFunc runs argv[0] with argv[1:] attached to the terminal.
type editorFunc func(ctx context.Context, cmd *cobra.Command, argv []string) error

// lastRecordSearch is a vim search for the most recent record line.
const lastRecordSearch = `?^\d\{8\}-\d\{4\}`

// editorArgv builds the full command line for opening path. Vim-style
// commands are only passed to editors that understand them. The editor is
// wrapped in screen inside a screen session so that it does not overwrite
// the terminal contents.
func (a *app) editorArgv(path string, vimCmds ...string) []string {
	var argv []string
	if a.cfg.Screen && os.Getenv("STY") != "" {
		argv = append(argv, "screen")
	}

	editor := strings.Fields(a.cfg.EditorCommand())
	argv = append(argv, editor...)
	if isVimLike(editor[0]) {
		for _, c := range vimCmds {
			argv = append(argv, "-c", c)
		}
	}
	return append(argv, path)
}

func isVimLike(editor string) bool {
	switch filepath.Base(editor) {
	case "vi", "vim", "nvim", "gvim", "mvim", "view":
		return true
	default:
		return false
	}
}

// tagsCommands positions the cursor on the tags line of the last record,
// opening a new one below the record when it has none.
func tagsCommands(state worklog.State) []string {
	cmds := []string{"normal G"}
	if state.Record.FromEnd > 0 {
		cmds = append(cmds, "normal "+strconv.Itoa(state.Record.FromEnd)+"k")
	}
	if state.HasTags {
		cmds = append(cmds, "normal j")
	} else {
		cmds = append(cmds, "normal otags: ")
	}
	return append(cmds, "normal $zz")
}

func execEditor(ctx context.Context, cmd *cobra.Command, argv []string) error {
	c := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // editor comes from the user's own config
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return output.NewSystemErrorWithCause("editor failed: "+strings.Join(argv, " "), err)
	}
	return nil
}

// screenHardcopy writes the current screen window and its scrollback to path.
func screenHardcopy(ctx context.Context, path string) error {
	out, err := exec.CommandContext(ctx, "screen", "-X", "hardcopy", "-h", path).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return output.NewSystemErrorWithCause("screen hardcopy failed: "+msg, err)
	}
	return nil
}
