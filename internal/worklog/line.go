package worklog

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// TimeLayout is the on-disk timestamp format (YYYYMMDD-HHMM).
const TimeLayout = "20060102-1504"

// TagsPrefix starts a tag annotation line.
const TagsPrefix = "tags:"

var (
	timeRegex = regexp.MustCompile(`^\d{8}-\d{4} `)
	gitRegex  = regexp.MustCompile(`\[.*\]$`)
)

// Kind classifies a log line.
type Kind int

// Line kinds.
const (
	KindText Kind = iota
	KindRecord
	KindTags
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindTags:
		return "tags"
	default:
		return "text"
	}
}

// Record is one timestamped work log entry.
type Record struct {
	Time time.Time `json:"time"`
	Dir  string    `json:"dir"`
	Git  string    `json:"git"`
	Raw  string    `json:"raw"`

	// FromEnd is the number of lines between this record and the end of the
	// tail window. Only LastState sets it.
	FromEnd int `json:"from_end,omitempty"`
}

// Line is a parsed log line. Exactly one of Record or Tags is meaningful,
// depending on Kind; Text always holds the line without its newline.
type Line struct {
	Kind   Kind
	Record Record
	Tags   []string
	Text   string
}

// FormatTime renders t in the on-disk timestamp form, truncated to the minute.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses an on-disk timestamp in the local time zone.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// ParseLine classifies a single log line. A trailing newline is ignored.
// Lines that look like records but carry an impossible date, and lines that
// are not valid UTF-8, are returned as KindText.
func ParseLine(s string) Line {
	s = strings.TrimRight(s, "\r\n")
	line := Line{Kind: KindText, Text: s}

	if !utf8.ValidString(s) {
		return line
	}

	if strings.HasPrefix(s, TagsPrefix) {
		line.Kind = KindTags
		line.Tags = strings.Fields(s[len(TagsPrefix):])
		return line
	}

	loc := timeRegex.FindStringIndex(s)
	if loc == nil {
		return line
	}
	stamp := s[:loc[1]-1]
	t, err := ParseTime(stamp)
	if err != nil {
		return line
	}

	rest := s[loc[1]:]
	git := gitRegex.FindString(rest)
	dir := strings.TrimSpace(strings.TrimSuffix(rest, git))
	if git == "[]" {
		git = ""
	}

	line.Kind = KindRecord
	line.Record = Record{Time: t, Dir: dir, Git: git, Raw: s}
	return line
}

// FormatRecord renders an entry line including its trailing newline.
// git already carries its brackets, or is empty.
func FormatRecord(t time.Time, dir, git string) string {
	return FormatTime(t) + " " + dir + " " + git + "\n"
}
