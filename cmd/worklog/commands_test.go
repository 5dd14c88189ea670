package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/worklog/internal/config"
	"github.com/gorewood/worklog/internal/output"
)

const workDir = "/home/u/repo/proj"

type stubGit struct{ status string }

func (s stubGit) Status(context.Context, string) (string, error) { return s.status, nil }

func (stubGit) RemoteURL(context.Context, string, string) (string, error) {
	return "git@github.com:u/proj.git", nil
}

func (stubGit) ShortHead(context.Context, string) (string, error) { return "1a2b3c4", nil }

type testEnv struct {
	t       *testing.T
	app     *app
	logPath string
	// editor invocations, in order
	edits [][]string
	// onEdit runs in place of the editor
	onEdit func(argv []string)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.Local)
}

// newTestEnv builds an app around a temp log holding content, a fixed clock
// and a fixed working directory outside any repository.
func newTestEnv(t *testing.T, content string, now time.Time) *testEnv {
	t.Helper()
	t.Setenv("STY", "")
	t.Setenv("WORKLOG_CONFIG_HOME", t.TempDir())

	logPath := filepath.Join(t.TempDir(), ".worklog")
	if content != "" {
		require.NoError(t, os.WriteFile(logPath, []byte(content), 0o600))
	}

	env := &testEnv{t: t, logPath: logPath}
	a := newApp()
	a.loadConfig = func() (*config.Config, error) {
		cfg := config.Default()
		cfg.LogPath = logPath
		cfg.Editor = "vim"
		cfg.LogLevel = "off"
		return cfg, nil
	}
	a.git = stubGit{status: "fatal: not a git repository"}
	a.now = func() time.Time { return now }
	a.getwd = func() (string, error) { return workDir, nil }
	a.editor = func(_ context.Context, _ *cobra.Command, argv []string) error {
		env.edits = append(env.edits, argv)
		if env.onEdit != nil {
			env.onEdit(argv)
		}
		return nil
	}
	a.hardcopy = func(context.Context, string) error { return errors.New("no screen in tests") }
	env.app = a
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmdWithApp(e.app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func (e *testEnv) log() string {
	e.t.Helper()
	data, err := os.ReadFile(e.logPath)
	require.NoError(e.t, err)
	return string(data)
}

func (e *testEnv) appendLog(text string) {
	e.t.Helper()
	f, err := os.OpenFile(e.logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(e.t, err)
	_, err = f.WriteString(text)
	require.NoError(e.t, err)
	require.NoError(e.t, f.Close())
}

func TestPrompt_EmptyLogAppendsRecord(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))

	out, err := env.run("prompt")
	require.NoError(t, err)
	assert.Equal(t, "15", out)
	assert.Equal(t, "20240101-0900 /home/u/repo/proj \n", env.log())
}

func TestPrompt_WithinInterval(t *testing.T) {
	content := "20240101-0900 /home/u/repo/proj []\n20240101-0915 /home/u/repo/proj []\n"
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("prompt")
	require.NoError(t, err)
	assert.Equal(t, "10", out)
	assert.Equal(t, content, env.log())
}

func TestPrompt_IntervalElapsed(t *testing.T) {
	content := "20240101-0915 /home/u/repo/proj []\n"
	env := newTestEnv(t, content, at(9, 31))

	out, err := env.run("PS1")
	require.NoError(t, err)
	assert.Equal(t, "\n\n15+ minutes since last work log entry 15", out)
	assert.Equal(t, content+"20240101-0931 /home/u/repo/proj \n", env.log())
}

func TestPrompt_GitSummary(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))
	env.app.git = stubGit{status: "On branch main\nYour branch is up to date with 'origin/main'.\n\tmodified:   a.go\n"}

	out, err := env.run("prompt")
	require.NoError(t, err)
	assert.Equal(t, "15[main !]", out)
	assert.Equal(t, "20240101-0900 /home/u/repo/proj [main ! github.com:u/proj.git 1a2b3c4]\n", env.log())
}

func TestRoot_AppendsNote(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))

	out, err := env.run("fixed", "the", "-v", "flag")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "20240101-0900 /home/u/repo/proj \nfixed the -v flag\n", env.log())
}

func TestRoot_NoArgsShowsTail(t *testing.T) {
	var b strings.Builder
	for i := range 30 {
		b.WriteString("line " + string(rune('a'+i%26)) + "\n")
	}
	b.WriteString("20240101-0915 /home/u/repo/proj \n")
	env := newTestEnv(t, b.String(), at(9, 20))

	out, err := env.run()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 25)
	assert.Equal(t, "20240101-0915 /home/u/repo/proj ", lines[24])
}

func TestNote(t *testing.T) {
	env := newTestEnv(t, "20240101-0915 /home/u/repo/proj \n", at(9, 20))

	out, err := env.run("--json", "note", "tail", "recursion", "not", "working")
	require.NoError(t, err)
	assert.Contains(t, out, `"line": "tail recursion not working"`)
	assert.Equal(t, "20240101-0915 /home/u/repo/proj \ntail recursion not working\n", env.log())

	_, err = env.run("note")
	require.Error(t, err)
}

func TestTail(t *testing.T) {
	env := newTestEnv(t, "a\nb\nc\n20240101-0915 /home/u/repo/proj \n", at(9, 20))

	out, err := env.run("tail", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "c\n20240101-0915 /home/u/repo/proj \n", out)

	_, err = env.run("--json", "tail", "-f")
	require.Error(t, err)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(err))
}

func TestJSON(t *testing.T) {
	content := "20240101-0900 /home/u/repo/proj \ntags: a\n20240101-0915 /home/u/repo/proj \n"
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("j")
	require.NoError(t, err)

	var blocks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &blocks))
	require.Len(t, blocks, 1)
	assert.Equal(t, "Mon Jan 01 2024", blocks[0]["date"])
	assert.Equal(t, "09:00", blocks[0]["start"])
	assert.Equal(t, "09:15", blocks[0]["end"])
	assert.InDelta(t, 2.0, blocks[0]["hits"], 0)
	assert.InDelta(t, 0.25, blocks[0]["hours"], 1e-9)
	assert.Equal(t, []any{"a"}, blocks[0]["tags"])
}

func TestTags(t *testing.T) {
	content := "20240101-0900 /x \ntags: a b\n20240101-0915 /home/u/repo/proj \n"
	env := newTestEnv(t, content, at(9, 20))
	env.onEdit = func([]string) { env.appendLog("tags: b c\n") }

	out, err := env.run("t")
	require.NoError(t, err)

	require.Len(t, env.edits, 1)
	assert.Equal(t, []string{
		"vim", "-c", "normal G", "-c", "normal otags: ", "-c", "normal $zz", env.logPath,
	}, env.edits[0])
	assert.Contains(t, out, "Previous tags: a, b\n")
	assert.Contains(t, out, "New tags: c\n")
}

func TestTags_ExistingTagsLine(t *testing.T) {
	content := "20240101-0900 /x \ntags: a\n20240101-0915 /home/u/repo/proj \ntags: a\nnote\n"
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("tags")
	require.NoError(t, err)
	require.Len(t, env.edits, 1)
	assert.Equal(t, []string{
		"vim", "-c", "normal G", "-c", "normal 2k", "-c", "normal j", "-c", "normal $zz", env.logPath,
	}, env.edits[0])
	assert.Empty(t, out)
}

func TestEdit(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))

	_, err := env.run("e")
	require.NoError(t, err)
	require.Len(t, env.edits, 1)
	assert.Equal(t, []string{"vim", "-c", "normal G", env.logPath}, env.edits[0])
}

func TestCapture(t *testing.T) {
	env := newTestEnv(t, "20240101-0915 /home/u/repo/proj \n", at(9, 20))

	_, err := env.run("s")
	require.Error(t, err)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(err))

	t.Setenv("STY", "1234.pts-0.host")
	var screen strings.Builder
	for i := range 150 {
		screen.WriteString("$ command " + strings.Repeat("x", i%3) + "\n")
	}
	env.app.hardcopy = func(_ context.Context, path string) error {
		return os.WriteFile(path, []byte(screen.String()+"\n\n"), 0o600)
	}

	_, err = env.run("capture")
	require.NoError(t, err)

	logged := strings.Split(strings.TrimSuffix(env.log(), "\n"), "\n")
	assert.Len(t, logged, 1+captureLines)
	require.Len(t, env.edits, 1)
	argv := env.edits[0]
	assert.Equal(t, []string{"screen", "vim"}, argv[:2])
	assert.Contains(t, argv, lastRecordSearch)
	assert.Equal(t, env.logPath, argv[len(argv)-1])
}

func TestHistory(t *testing.T) {
	content := strings.Join([]string{
		"20240101-0900 /home/u/repo/proj ",
		"first idea",
		"20240101-0910 /elsewhere ",
		"unrelated",
		"20240101-0915 /home/u/repo/proj ",
		"",
	}, "\n")
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("h")
	require.NoError(t, err)
	assert.Equal(t, "# 20240101-0900 /home/u/repo/proj \nfirst idea\n", out)
}

func TestHistory_LevelUp(t *testing.T) {
	content := "20240101-0900 /home/u/repo \nparent note\n20240101-0915 /home/u/repo/proj \n"
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("history")
	require.NoError(t, err)
	assert.Equal(t, "# 20240101-0900 /home/u/repo  1 LEVEL UP\nparent note\n", out)
}

func TestPercent(t *testing.T) {
	content := strings.Join([]string{
		"20240101-0900 /home/u/repo/site ",
		"20240101-0910 /home/u/src/other ",
		"20240101-0915 /home/u/repo/proj ",
		"",
	}, "\n")
	env := newTestEnv(t, content, at(9, 20))

	out, err := env.run("P")
	require.NoError(t, err)
	assert.Equal(t, "site: 1 50.00\nproj: 1 50.00\n", out)

	out, err = env.run("percent", "--marker", "src")
	require.NoError(t, err)
	assert.Equal(t, "other: 1 100.00\n", out)
}

func TestStatus_JSON(t *testing.T) {
	env := newTestEnv(t, "20240101-0900 /elsewhere \n", at(9, 5))

	out, err := env.run("status", "--json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["appended"])
	assert.Equal(t, []any{"directory"}, result["reasons"])
	assert.Equal(t, workDir, result["dir"])
	assert.InDelta(t, 15.0, result["minutes_remaining"], 0)
	assert.InDelta(t, 2.0, result["record_count"], 0)
}

func TestStatus_Human(t *testing.T) {
	env := newTestEnv(t, "20240101-0915 /home/u/repo/proj \n", at(9, 20))

	out, err := env.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Appended: no")
	assert.Contains(t, out, "Minutes Left: 10 of 15")
	assert.Contains(t, out, "Directory: /home/u/repo/proj")
	assert.Contains(t, out, "Records: 1")
}

func TestConfigCommands_SkipCheckpoint(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))

	out, err := env.run("config", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"interval": 15`)

	out, err = env.run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")
	_, err = os.Stat(config.Path())
	require.NoError(t, err)

	_, err = env.run("config", "init")
	require.Error(t, err)

	_, err = os.Stat(env.logPath)
	assert.True(t, os.IsNotExist(err), "config commands must not create the log")
}

func TestPrepare_ConfigError(t *testing.T) {
	env := newTestEnv(t, "", at(9, 0))
	env.app.loadConfig = func() (*config.Config, error) {
		return nil, errors.New("invalid config: interval must be at least 1 minute, got 0")
	}

	_, err := env.run("prompt")
	require.Error(t, err)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(err))
}

func TestSkipsCheckpoint(t *testing.T) {
	root := newRootCmdWithApp(newApp())
	for _, tc := range []struct {
		args []string
		want bool
	}{
		{[]string{"prompt"}, false},
		{[]string{"serve"}, true},
		{[]string{"config", "show"}, true},
		{[]string{"tail"}, false},
	} {
		cmd, _, err := root.Find(tc.args)
		require.NoError(t, err)
		assert.Equal(t, tc.want, skipsCheckpoint(cmd), strings.Join(tc.args, " "))
	}
}

func TestEditorArgv(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		sty    string
		screen bool
		want   []string
	}{
		{"vim", "vim", "", true, []string{"vim", "-c", "normal G", "/log"}},
		{"nvim path", "/usr/bin/nvim", "", true, []string{"/usr/bin/nvim", "-c", "normal G", "/log"}},
		{"non-vim editor gets no commands", "code --wait", "", true, []string{"code", "--wait", "/log"}},
		{"inside screen", "vim", "1.pts", true, []string{"screen", "vim", "-c", "normal G", "/log"}},
		{"screen disabled", "nano", "1.pts", false, []string{"nano", "/log"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STY", tt.sty)
			a := newApp()
			a.cfg.Editor = tt.editor
			a.cfg.Screen = tt.screen
			assert.Equal(t, tt.want, a.editorArgv("/log", "normal G"))
		})
	}
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "b\nc", lastLines("a\nb\nc\n\n", 2))
	assert.Equal(t, "a\nb", lastLines("a\nb", 5))
	assert.Empty(t, lastLines("\n\n", 3))
}
