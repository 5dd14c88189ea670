package worklog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gorewood/worklog/internal/output"
)

// TailWindow is the maximum number of bytes LastState reads.
const TailWindow = 10_000

// maxLineSize bounds a single line when streaming the whole file.
// Screen captures can produce long lines; anything longer is an error.
const maxLineSize = 1 << 20

// State is the most recent work state found in the tail window.
type State struct {
	// Record is nil when the window holds no parseable record.
	Record *Record
	// HasTags is true when a tags line follows the record.
	HasTags bool
}

// Empty reports whether no record was found.
func (s State) Empty() bool {
	return s.Record == nil
}

// Store is the append-only log file. Each operation opens and closes the
// file; no handle is held between calls.
type Store struct {
	path   string
	logger *zap.Logger
}

// Open returns a Store for path, creating the file and its parent directory
// if needed. A nil logger discards diagnostics.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}
	if err := s.EnsureExists(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureExists creates an empty log file if none exists. Idempotent.
func (s *Store) EnsureExists() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create log directory", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to create work log: "+s.path, err)
	}
	if err := f.Close(); err != nil {
		return output.NewSystemErrorWithCause("failed to close work log: "+s.path, err)
	}
	return nil
}

// Size returns the current size of the log in bytes.
func (s *Store) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, output.NewSystemErrorWithCause("failed to stat work log: "+s.path, err)
	}
	return info.Size(), nil
}

// LastState returns the most recent record in the final TailWindow bytes.
// An empty log, or a window with no record in it, yields an empty State and
// a nil error.
func (s *Store) LastState() (State, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, output.NewSystemErrorWithCause("failed to open work log: "+s.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return State{}, output.NewSystemErrorWithCause("failed to stat work log: "+s.path, err)
	}

	// One byte before the window tells whether its first line is whole.
	start := max(0, info.Size()-TailWindow)
	from := max(0, start-1)
	if _, err := f.Seek(from, io.SeekStart); err != nil {
		return State{}, output.NewSystemErrorWithCause("failed to seek work log", err)
	}
	window, err := io.ReadAll(io.LimitReader(f, TailWindow+start-from))
	if err != nil {
		return State{}, output.NewSystemErrorWithCause("failed to read work log", err)
	}

	partial := false
	if start > 0 && len(window) > 0 {
		partial = window[0] != '\n'
		window = window[1:]
	}
	return scanWindow(window, partial, s.logger), nil
}

// scanWindow walks the window's lines from last to first. When partial is
// set the window began inside a line and its first line is a fragment.
func scanWindow(window []byte, partial bool, logger *zap.Logger) State {
	lines := splitLines(window)
	if partial && len(lines) > 0 {
		lines = lines[1:]
	}

	var state State
	for fromEnd := 0; fromEnd < len(lines); fromEnd++ {
		raw := lines[len(lines)-1-fromEnd]
		line := ParseLine(string(raw))
		switch line.Kind {
		case KindTags:
			state.HasTags = true
		case KindRecord:
			rec := line.Record
			rec.FromEnd = fromEnd
			state.Record = &rec
			return state
		case KindText:
			// free text, notes, or bytes split by the window edge
		}
	}
	logger.Debug("no record in tail window", zap.Int("lines", len(lines)))
	return state
}

// splitLines splits data after each newline. A final line without a
// newline (an interrupted append) is kept as its own element.
func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	lines := bytes.SplitAfter(data, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Append writes one record line for t, dir and git.
func (s *Store) Append(t time.Time, dir, git string) error {
	line := FormatRecord(t, dir, git)
	if err := s.write(line); err != nil {
		return err
	}
	s.logger.Debug("appended record",
		zap.String("time", FormatTime(t)),
		zap.String("dir", dir),
		zap.String("git", git),
	)
	return nil
}

// AppendRaw writes text verbatim followed by a newline.
func (s *Store) AppendRaw(text string) error {
	if strings.TrimSpace(text) == "" {
		return output.NewUserError("nothing to add: note text is empty")
	}
	return s.write(text + "\n")
}

// write appends data with a single write call so that concurrent appends
// from other shells interleave as whole lines.
func (s *Store) write(data string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to open work log for append: "+s.path, err)
	}
	if _, err := f.WriteString(data); err != nil {
		_ = f.Close()
		return output.NewSystemErrorWithCause("failed to append to work log: "+s.path, err)
	}
	if err := f.Close(); err != nil {
		return output.NewSystemErrorWithCause("failed to close work log: "+s.path, err)
	}
	return nil
}

// Lines streams every line of the log from the top. Each call reopens the
// file. Iteration stops at the first read error, which is yielded once.
func (s *Store) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return
			}
			yield(Line{}, output.NewSystemErrorWithCause("failed to open work log: "+s.path, err))
			return
		}
		defer f.Close() //nolint:errcheck // read-only

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if !yield(ParseLine(scanner.Text()), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Line{}, fmt.Errorf("reading work log: %w", err))
		}
	}
}

// Records streams only the timestamped records of the log.
func (s *Store) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for line, err := range s.Lines() {
			if err != nil {
				yield(Record{}, err)
				return
			}
			if line.Kind != KindRecord {
				continue
			}
			if !yield(line.Record, nil) {
				return
			}
		}
	}
}

// Tail returns the last n lines of the log without their newlines.
func (s *Store) Tail(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ring := make([]string, 0, n)
	next := 0
	for line, err := range s.Lines() {
		if err != nil {
			return nil, err
		}
		if len(ring) < n {
			ring = append(ring, line.Text)
			continue
		}
		ring[next] = line.Text
		next = (next + 1) % n
	}
	if len(ring) < n {
		return ring, nil
	}
	ordered := make([]string, 0, n)
	ordered = append(ordered, ring[next:]...)
	return append(ordered, ring[:next]...), nil
}
