// Package follow streams lines appended to the work log as they arrive.
package follow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Follow emits every complete line written to path after offset until ctx
// is done. A line is emitted without its newline once the newline lands; a
// trailing partial line is held back. When the file shrinks below the read
// position (truncated or replaced by an editor) reading restarts from the
// new end.
//
// The parent directory is watched rather than the file so that editors that
// save by renaming a temporary file over the log are still seen.
func Follow(ctx context.Context, path string, offset int64, emit func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // best effort on shutdown

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	t := &tailer{path: path, pos: offset, emit: emit}
	if err := t.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := t.drain(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			// events were dropped; the file may have grown
			if err := t.drain(); err != nil {
				return err
			}
		}
	}
}

type tailer struct {
	path string
	pos  int64
	emit func(string)
}

// drain emits the complete lines between pos and the end of the file.
func (t *tailer) drain() error {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// mid-rename; the Create event follows
			return nil
		}
		return fmt.Errorf("opening %s: %w", t.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}
	if info.Size() < t.pos {
		t.pos = info.Size()
		return nil
	}
	if info.Size() == t.pos {
		return nil
	}

	if _, err := f.Seek(t.pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s: %w", t.path, err)
	}
	data, err := io.ReadAll(io.LimitReader(f, info.Size()-t.pos))
	if err != nil {
		return fmt.Errorf("reading %s: %w", t.path, err)
	}

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		t.emit(string(bytes.TrimRight(data[:i], "\r")))
		t.pos += int64(i + 1)
		data = data[i+1:]
	}
	return nil
}
