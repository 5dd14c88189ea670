package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/gorewood/worklog/internal/output"
)

// RunInDir executes a git command in dir (the current directory when empty)
// and returns its stdout trimmed.
// Returns an *output.ExitError on failure with appropriate exit code.
func RunInDir(ctx context.Context, dir string, args ...string) (string, error) {
	stdout, stderr, err := run(ctx, dir, args...)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr)
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}
	return strings.TrimSpace(stdout), nil
}

// run executes git with a fixed C locale so status phrases parse the same
// everywhere, returning both streams untrimmed.
func run(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "LC_ALL=C", "GIT_OPTIONAL_LOCKS=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
