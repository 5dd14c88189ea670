package report

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/gorewood/worklog/internal/worklog"
)

// DefaultMarker is the directory name under which projects live.
const DefaultMarker = "repo"

// ProjectShare is the number of records logged under one project.
type ProjectShare struct {
	Project string  `json:"project"`
	Hits    int     `json:"hits"`
	Percent float64 `json:"percent"`
}

func (s ProjectShare) String() string {
	return fmt.Sprintf("%s: %d %.2f", s.Project, s.Hits, s.Percent)
}

// Percent attributes each record to the path component following the first
// component named marker, e.g. "worklog" for /home/u/repo/worklog/cmd. The
// marker directory itself counts as project "". Records outside any marker
// directory are ignored. resolve canonicalizes directories before
// splitting; nil leaves them as logged. Shares are returned in first-seen
// order.
func Percent(lines iter.Seq2[worklog.Line, error], marker string, resolve func(string) string) ([]ProjectShare, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	if resolve == nil {
		resolve = func(s string) string { return s }
	}

	var (
		order []string
		hits  = map[string]int{}
		total int
	)
	for line, err := range lines {
		if err != nil {
			return nil, err
		}
		if line.Kind != worklog.KindRecord || line.Record.Dir == "" {
			continue
		}
		project, ok := projectOf(resolve(line.Record.Dir), marker)
		if !ok {
			continue
		}
		if _, seen := hits[project]; !seen {
			order = append(order, project)
		}
		hits[project]++
		total++
	}

	shares := make([]ProjectShare, 0, len(order))
	for _, project := range order {
		shares = append(shares, ProjectShare{
			Project: project,
			Hits:    hits[project],
			Percent: float64(hits[project]) / float64(total) * 100,
		})
	}
	return shares, nil
}

func projectOf(dir, marker string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/")
	for i, part := range parts {
		if part != marker {
			continue
		}
		if i+1 < len(parts) {
			return parts[i+1], true
		}
		return "", true
	}
	return "", false
}
