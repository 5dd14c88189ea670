package report

import (
	"iter"
	"path/filepath"

	"github.com/gorewood/worklog/internal/worklog"
)

// MaxHistoryLevels bounds how many directories History tries: the target
// and up to four parents.
const MaxHistoryLevels = 5

// HistoryBlock is a record in the target directory and the non-record lines
// written after it.
type HistoryBlock struct {
	Record worklog.Record `json:"record"`
	Notes  []string       `json:"notes"`
}

// HistoryResult is what History found. Target is the directory that
// matched, LevelsUp how many parents were climbed to reach it.
type HistoryResult struct {
	Target   string         `json:"target"`
	LevelsUp int            `json:"levels_up"`
	Blocks   []HistoryBlock `json:"blocks"`
}

// History collects the notes written while working in dir. A run of lines
// belongs to dir when the record that opened it has exactly that directory.
// Records with nothing written after them are omitted. When dir has no
// notes the parent is tried, up to MaxHistoryLevels directories in total.
// open is called once per attempt and must return a fresh pass over the log.
func History(open func() iter.Seq2[worklog.Line, error], dir string) (HistoryResult, error) {
	target := dir
	for level := range MaxHistoryLevels {
		blocks, err := historyIn(open(), target)
		if err != nil {
			return HistoryResult{}, err
		}
		if len(blocks) > 0 {
			return HistoryResult{Target: target, LevelsUp: level, Blocks: blocks}, nil
		}
		target = filepath.Dir(target)
	}
	return HistoryResult{Target: dir, Blocks: []HistoryBlock{}}, nil
}

func historyIn(lines iter.Seq2[worklog.Line, error], target string) ([]HistoryBlock, error) {
	var (
		blocks   []HistoryBlock
		printing bool
		pending  *worklog.Record
	)
	for line, err := range lines {
		if err != nil {
			return nil, err
		}
		if line.Kind == worklog.KindRecord {
			printing = line.Record.Dir == target
			if printing {
				rec := line.Record
				pending = &rec
			}
			continue
		}
		if !printing {
			continue
		}
		if pending != nil {
			blocks = append(blocks, HistoryBlock{Record: *pending})
			pending = nil
		}
		last := &blocks[len(blocks)-1]
		last.Notes = append(last.Notes, line.Text)
	}
	return blocks, nil
}
