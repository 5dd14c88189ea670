// Package git captures a one-shot summary of repository state for the work
// log.
//
// A summary has the textual form
//
//	[branch flags origin commit]
//
// where flags is drawn from "!?*+>x" (modified, untracked, ahead, new file,
// renamed, deleted) and origin is the sanitized URL of the tracked remote.
// Outside a repository the summary is the empty string.
//
// # Queries
//
// Capture never talks to git directly. It goes through a Querier:
//
//	info := git.Capture(ctx, git.ExecQuerier{}, cwd)
//	fmt.Println(info)          // [main ! github.com/u/proj.git 1a2b3c4]
//	fmt.Println(info.Prompt()) // [main !]
//
// ExecQuerier shells out to the git executable for status and HEAD, and
// reads remotes from the repository config with go-git. Tests substitute a
// fixture implementation.
//
// # Running Git Commands
//
// For other commands, use RunInDir:
//
//	out, err := git.RunInDir(ctx, dir, "log", "--oneline", "-5")
//
// # Error Handling
//
// RunInDir returns *output.ExitError values with ExitSystemError.
// Capture swallows every failure: a query that fails leaves its field
// empty, and a failed status query yields an empty Info.
package git
