package report

import (
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/gorewood/worklog/internal/worklog"
)

// Layouts used in day blocks.
const (
	DateLayout  = "Mon Jan 02 2006"
	ClockLayout = "15:04"
)

// DayBlock summarizes the records of one calendar date.
type DayBlock struct {
	Date  string   `json:"date"`
	End   string   `json:"end"`
	Hits  int      `json:"hits"`
	Hours float64  `json:"hours"`
	Start string   `json:"start"`
	Tags  []string `json:"tags"`
}

type dayBuilder struct {
	date       string
	start, end time.Time
	hits       int
	tags       map[string]struct{}
}

func (b *dayBuilder) block() DayBlock {
	tags := slices.Sorted(maps.Keys(b.tags))
	if tags == nil {
		tags = []string{}
	}
	return DayBlock{
		Date:  b.date,
		End:   b.end.Format(ClockLayout),
		Hits:  b.hits,
		Hours: b.end.Sub(b.start).Hours(),
		Start: b.start.Format(ClockLayout),
		Tags:  tags,
	}
}

// Summarize groups records into day blocks in log order. A record on a new
// date closes the open block. Tag lines attach to the block open when they
// are read; tags before the first record are dropped.
func Summarize(lines iter.Seq2[worklog.Line, error]) ([]DayBlock, error) {
	var blocks []DayBlock
	current := &dayBuilder{tags: map[string]struct{}{}}

	for line, err := range lines {
		if err != nil {
			return nil, err
		}
		switch line.Kind {
		case worklog.KindTags:
			for _, tag := range line.Tags {
				current.tags[tag] = struct{}{}
			}
		case worklog.KindRecord:
			at := line.Record.Time
			date := at.Format(DateLayout)
			if date != current.date {
				if current.date != "" {
					blocks = append(blocks, current.block())
				}
				current = &dayBuilder{date: date, start: at, tags: map[string]struct{}{}}
			}
			current.end = at
			current.hits++
		case worklog.KindText:
		}
	}
	if current.date != "" {
		blocks = append(blocks, current.block())
	}
	return blocks, nil
}
