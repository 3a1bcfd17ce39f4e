// Package watch re-lints source files as they change on disk.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/engine"
)

// DefaultDebounce batches the event bursts editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// WatchOp is a bitmask of filesystem operations observed on a path.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is one observed change to a watched path.
type Event struct {
	Path string
	Op   WatchOp
}

// Handler receives the batch of changed source files after debounce.
type Handler func(paths []string)

// Watcher watches directories and invokes a handler with changed
// source files.
type Watcher struct {
	w        *fsnotify.Watcher
	evC      chan Event
	debounce time.Duration
	log      *zap.Logger
}

// New creates a watcher. A non-positive debounce uses the default.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{w: w, evC: make(chan Event, 128), debounce: debounce, log: log}, nil
}

// Add watches a file, or a directory tree recursively.
func (fw *Watcher) Add(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.w.Add(path)
		}
		return nil
	})
}

func (fw *Watcher) Close() error { return fw.w.Close() }

// Run pumps events until the context is canceled. Changed .cpp, .cxx,
// .cc, .h and .hpp files are collected and handed to the handler once
// per debounce window.
func (fw *Watcher) Run(ctx context.Context, handler Handler) error {
	go fw.loop(ctx)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-fw.evC:
			if ev.Op&(OpCreate|OpWrite|OpRename) == 0 {
				continue
			}
			if !engine.IsSourceFile(ev.Path) {
				// A created directory needs its own watch.
				if ev.Op&OpCreate != 0 {
					if err := fw.Add(ev.Path); err != nil {
						fw.log.Debug("watch add failed", zap.String("path", ev.Path), zap.Error(err))
					}
				}
				continue
			}
			pending[ev.Path] = true
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C
		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]bool)
			fire = nil
			fw.log.Debug("files changed", zap.Int("count", len(paths)))
			handler(paths)
		}
	}
}

// loop translates fsnotify events into the op-mask form.
func (fw *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op WatchOp
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watch error", zap.Error(err))
		}
	}
}
