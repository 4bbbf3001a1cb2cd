package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/p/tasks/01ABC-x.md", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/tasks/01ABC-x.md", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/p/tasks/01ABC-x.md", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/p/tasks/01ABC-x.md.tmp", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/p/activity.jsonl", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/tasks.db-journal", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/tasks.db", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.event))
		})
	}
}

func TestWatcherSignalsOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := range 3 {
		name := filepath.Join(dir, string(rune('a'+i))+".md")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled")
	}

	select {
	case <-w.Changes():
		t.Fatal("burst signalled twice")
	case <-time.After(3 * debounceDelay):
	}
}
