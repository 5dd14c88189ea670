package git

import (
	"context"
	"regexp"
	"strings"
)

var (
	httpRegex   = regexp.MustCompile(`https?://`)
	credsRegex  = regexp.MustCompile(`[^/]*@`)
	originRegex = regexp.MustCompile(`Your branch .*'(.+)'`)
)

// notARepo appears in status output when dir is outside any repository.
const notARepo = "fatal: "

// statusFlags maps status phrases to flag characters, in output order.
var statusFlags = []struct {
	phrase string
	flag   byte
}{
	{"modified:", '!'},
	{"Untracked files", '?'},
	{"Your branch is ahead of", '*'},
	{"new file:", '+'},
	{"renamed:", '>'},
	{"deleted:", 'x'},
}

// Querier answers the version control questions Capture asks.
type Querier interface {
	// Status returns the human-readable status output (stdout and stderr).
	Status(ctx context.Context, dir string) (string, error)
	// RemoteURL returns the configured URL of the named remote.
	RemoteURL(ctx context.Context, dir, name string) (string, error)
	// ShortHead returns the abbreviated HEAD commit hash.
	ShortHead(ctx context.Context, dir string) (string, error)
}

// Info is a repository state summary. The zero value means "not a
// repository".
type Info struct {
	Branch string `json:"branch"`
	Flags  string `json:"flags"`
	Origin string `json:"origin"`
	Commit string `json:"commit"`
}

// String returns the bracketed summary stored in the log, or "" outside a
// repository.
func (i Info) String() string {
	if i.Branch == "" {
		return ""
	}
	return "[" + i.Branch + i.Flags + " " + i.Origin + " " + i.Commit + "]"
}

// Prompt returns the reduced form shown in the shell prompt.
func (i Info) Prompt() string {
	if i.Branch == "" {
		return ""
	}
	return "[" + i.Branch + i.Flags + "]"
}

// Capture summarizes the repository containing dir.
func Capture(ctx context.Context, q Querier, dir string) Info {
	status, err := q.Status(ctx, dir)
	if err != nil || strings.Contains(status, notARepo) {
		return Info{}
	}

	lines := strings.Split(status, "\n")
	first := strings.Fields(lines[0])
	if len(first) == 0 {
		return Info{}
	}

	info := Info{
		Branch: first[len(first)-1],
		Flags:  parseFlags(status),
	}

	if name := trackedRemote(lines); name != "" {
		if url, err := q.RemoteURL(ctx, dir, name); err == nil {
			info.Origin = SanitizeRemote(strings.TrimSpace(url))
		}
	}

	if head, err := q.ShortHead(ctx, dir); err == nil {
		info.Commit = strings.TrimSpace(head)
	}
	return info
}

func parseFlags(status string) string {
	var flags []byte
	for _, f := range statusFlags {
		if strings.Contains(status, f.phrase) {
			flags = append(flags, f.flag)
		}
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + string(flags)
}

// trackedRemote extracts the remote name from the first "Your branch" line,
// e.g. "origin" from "Your branch is up to date with 'origin/main'.".
func trackedRemote(lines []string) string {
	for _, line := range lines {
		if !strings.HasPrefix(line, "Your branch") {
			continue
		}
		m := originRegex.FindStringSubmatch(line)
		if m == nil {
			return ""
		}
		fields := strings.Fields(m[1])
		if len(fields) == 0 {
			return ""
		}
		ref := strings.Trim(fields[len(fields)-1], "'.")
		name, _, _ := strings.Cut(ref, "/")
		return name
	}
	return ""
}

// SanitizeRemote strips credentials and scheme from a remote URL.
// Credentials are only removed from http(s) URLs; git@ and the scheme are
// removed from any URL.
func SanitizeRemote(url string) string {
	if httpRegex.MatchString(url) {
		url = credsRegex.ReplaceAllString(url, "")
	}
	url = strings.ReplaceAll(url, "git@", "")
	return httpRegex.ReplaceAllString(url, "")
}
