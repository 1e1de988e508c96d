// Package watch observes the project tree and records the most recently
// changed logical path for the dev server's polling endpoint.
//
// The watcher is deliberately decoupled from the change-detection core: it
// shares no state with the fingerprint store and never mutates it. It is a
// last-write-wins notification, not a queue.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	lf "git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Watcher records the last modified logical path under a project root.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	modified string
}

// New creates a watcher over the project root and all its subdirectories.
func New(root string) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{root: absRoot, watcher: fsWatcher, logger: slog.Default()}

	// fsnotify does not recurse; register every directory up front. New
	// directories are added as their create events arrive.
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return fsWatcher.Add(p)
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Start runs the event loop until the context is canceled.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		defer w.watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Watcher error", lf.Error(err))
			}
		}
	}()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		// Newly created directories must join the watch set.
		if err := w.watcher.Add(event.Name); err == nil {
			w.logger.Debug("Watching new path", lf.Path(event.Name))
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logical := w.logicalPath(event.Name)
	if logical == "" {
		return
	}

	w.mu.Lock()
	w.modified = logical
	w.mu.Unlock()
	w.logger.Debug("Change observed", lf.Path(logical))
}

// logicalPath maps an absolute event path to the form the browser polls
// for: relative to the templates or assets tree when inside one (else the
// project root), slash-separated, with .html/.md extensions stripped.
func (w *Watcher) logicalPath(name string) string {
	base := w.root
	for _, dir := range []string{"templates", "assets"} {
		prefix := filepath.Join(w.root, dir)
		if strings.HasPrefix(name, prefix+string(filepath.Separator)) {
			base = prefix
			break
		}
	}

	rel, err := filepath.Rel(base, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	logical := filepath.ToSlash(rel)
	switch filepath.Ext(logical) {
	case ".html", ".md":
		logical = strings.TrimSuffix(logical, filepath.Ext(logical))
	}
	return logical
}

// TakeModified returns the most recently changed logical path and clears
// it. Subsequent calls return empty until the next change.
func (w *Watcher) TakeModified() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	modified := w.modified
	w.modified = ""
	return modified
}
