package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Tail is a file reader that, instead of stopping at end of file, waits for
// the file to grow. Reads return io.EOF once ctx is done or the file is
// removed or renamed.
type Tail struct {
	ctx     context.Context
	path    string
	file    *os.File
	watcher *fsnotify.Watcher
	log     *slog.Logger
	offset  int64
}

// OpenTail opens path for following.
func OpenTail(ctx context.Context, path string, logger *slog.Logger) (*Tail, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		_ = file.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Tail{ctx: ctx, path: path, file: file, watcher: watcher, log: logger}, nil
}

func (t *Tail) Read(p []byte) (int, error) {
	for {
		n, err := t.file.Read(p)
		t.offset += int64(n)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if !t.wait() {
			return 0, io.EOF
		}
	}
}

// wait blocks until the file may have more data. It reports false when
// following should end.
func (t *Tail) wait() bool {
	for {
		select {
		case <-t.ctx.Done():
			return false
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return false
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				t.log.Debug("followed file went away", "path", ev.Name, "op", ev.Op.String())
				return false
			case ev.Has(fsnotify.Write):
				t.checkTruncated()
				return true
			case ev.Has(fsnotify.Chmod):
				// An unlink of a file we hold open surfaces only as a link
				// count change.
				if t.replaced() {
					t.log.Debug("followed file unlinked", "path", t.path)
					return false
				}
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return false
			}
			t.log.Warn("watch error", "error", err)
		}
	}
}

// replaced reports whether path no longer names the open file.
func (t *Tail) replaced() bool {
	current, err := os.Stat(t.path)
	if err != nil {
		return true
	}
	held, err := t.file.Stat()
	if err != nil {
		return true
	}
	return !os.SameFile(held, current)
}

// checkTruncated rewinds when the file shrank below what was already read.
func (t *Tail) checkTruncated() {
	info, err := t.file.Stat()
	if err != nil || info.Size() >= t.offset {
		return
	}
	t.log.Debug("followed file truncated", "size", info.Size(), "offset", t.offset)
	if _, err := t.file.Seek(0, io.SeekStart); err == nil {
		t.offset = 0
	}
}

func (t *Tail) Close() error {
	werr := t.watcher.Close()
	ferr := t.file.Close()
	return errors.Join(werr, ferr)
}
