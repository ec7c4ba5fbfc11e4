// Package watch triggers rebuilds while serving: a debounced fsnotify
// watcher over the docs tree, plus an optional gocron periodic rebuild for
// picking up autodoc changes that no file event covers.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// Watcher rebuilds documentation when the docs tree changes.
type Watcher struct {
	docsDir string
	rebuild func() error
}

// NewWatcher creates a watcher over docsDir calling rebuild on changes.
func NewWatcher(docsDir string, rebuild func() error) *Watcher {
	return &Watcher{docsDir: docsDir, rebuild: rebuild}
}

// Run watches until ctx is cancelled. Rebuild failures are logged and
// watching continues; the next save gets another chance.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := addRecursive(fw, w.docsDir); err != nil {
		return err
	}
	slog.Info("Watching docs for changes", logfields.Path(w.docsDir))

	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories need to be watched too.
			if event.Op.Has(fsnotify.Create) {
				_ = addRecursive(fw, event.Name)
			}
			slog.Debug("Docs change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case rebuildReq <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))

		case <-rebuildReq:
			slog.Info("Rebuilding documentation after change")
			if err := w.rebuild(); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// relevant filters events down to content changes outside _build and hidden
// paths. Rebuilding on our own output would loop forever.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return !skippedPath(event.Name)
}

func skippedPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == project.BuildDirName || strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// addRecursive registers dir and every subdirectory, skipping _build and
// hidden directories.
func addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // race with deletes; the next event re-registers
		}
		if !d.IsDir() {
			return nil
		}
		if skippedPath(path) && path != dir {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
