package git

import (
	"context"
	"errors"
	"os/exec"

	gogit "github.com/go-git/go-git/v5"

	"github.com/gorewood/worklog/internal/output"
)

// ExecQuerier answers queries against the real repository. Status and HEAD
// go through the git executable; remotes are read from the repository
// config with go-git and fall back to `git remote get-url`.
type ExecQuerier struct{}

var _ Querier = ExecQuerier{}

// Status returns `git status` stdout and stderr joined by a newline. A
// non-zero exit is not an error: outside a repository git exits 128 and the
// "fatal:" text is what callers look for.
func (ExecQuerier) Status(ctx context.Context, dir string) (string, error) {
	stdout, stderr, err := run(ctx, dir, "status")
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", output.NewSystemErrorWithCause("git status failed", err)
		}
	}
	return stdout + "\n" + stderr, nil
}

// RemoteURL returns the first URL configured for the named remote.
func (ExecQuerier) RemoteURL(ctx context.Context, dir, name string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err == nil {
		if remote, err := repo.Remote(name); err == nil {
			if urls := remote.Config().URLs; len(urls) > 0 {
				return urls[0], nil
			}
		}
	}
	return RunInDir(ctx, dir, "remote", "get-url", name)
}

// ShortHead returns `git rev-parse --short HEAD`.
func (ExecQuerier) ShortHead(ctx context.Context, dir string) (string, error) {
	return RunInDir(ctx, dir, "rev-parse", "--short", "HEAD")
}
