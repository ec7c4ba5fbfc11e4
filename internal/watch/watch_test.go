package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkippedPath(t *testing.T) {
	tests := []struct {
		path    string
		skipped bool
	}{
		{filepath.Join("docs", "userguides", "guide.md"), false},
		{filepath.Join("docs", "_build", "ape", "latest", "index.html"), true},
		{filepath.Join("docs", ".doctrees", "environment.pickle"), true},
		{filepath.Join(".", "docs", "index.rst"), false},
		{filepath.Join("..", "docs", "index.rst"), false},
		{filepath.Join("docs", ".hidden.md"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.skipped, skippedPath(tt.path), tt.path)
	}
}

func TestRelevant(t *testing.T) {
	write := fsnotify.Event{Name: filepath.Join("docs", "guide.md"), Op: fsnotify.Write}
	assert.True(t, relevant(write))

	chmod := fsnotify.Event{Name: filepath.Join("docs", "guide.md"), Op: fsnotify.Chmod}
	assert.False(t, relevant(chmod))

	buildWrite := fsnotify.Event{Name: filepath.Join("docs", "_build", "index.html"), Op: fsnotify.Write}
	assert.False(t, relevant(buildWrite))

	remove := fsnotify.Event{Name: filepath.Join("docs", "guide.md"), Op: fsnotify.Remove}
	assert.True(t, relevant(remove))
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	docsDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(docsDir, "userguides"), 0o750))

	var rebuilds atomic.Int32
	w := NewWatcher(docsDir, func() error {
		rebuilds.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "userguides", "guide.md"), []byte("# Guide\n"), 0o644))

	deadline := time.Now().Add(3 * time.Second)
	for rebuilds.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, int32(1), rebuilds.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestSchedulerRunsRebuild(t *testing.T) {
	var rebuilds atomic.Int32
	s, err := NewScheduler(50*time.Millisecond, func() error {
		rebuilds.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for rebuilds.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	assert.Greater(t, rebuilds.Load(), int32(0))
}
