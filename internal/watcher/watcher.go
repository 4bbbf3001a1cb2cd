// Package watcher reports debounced changes to a planner's task storage.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of events (an atomic rename is a create
// plus a remove) into a single notification.
const debounceDelay = 100 * time.Millisecond

// ignored lists file names whose changes never affect the task list.
var ignored = map[string]bool{
	"activity.jsonl": true,
	".lock":          true,
}

// Watcher watches planner directories and signals on Changes after activity
// settles.
type Watcher struct {
	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	changes chan struct{}
}

// New creates a Watcher that monitors the given directories.
func New(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		fsw:     fsw,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes delivers one value per settled burst of changes. Bursts that
// arrive while a value is pending are merged into it.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run starts the watch loop. It blocks until the context is canceled or the
// watcher is closed. Errors from fsnotify go to the optional errFn.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !Relevant(event) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Relevant reports whether event can change what the planner shows.
func Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if ignored[name] || strings.HasSuffix(name, ".tmp") {
		return false
	}
	return !strings.HasSuffix(name, "-journal") && !strings.HasSuffix(name, "-wal")
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.notify)
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
