package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/dkildau/passctl/internal/log"
)

// Watcher invalidates cached entries when the backing store changes on
// disk behind the engine's back (a git pull, another pass client, manual
// edits). It watches the store root and every subdirectory, skipping the
// version-control directory.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher

	// onChange, when set, is called with the entry path of each
	// invalidated record. Used by shells to refresh their listing.
	onChange func(path string)
}

// NewWatcher creates a watcher over the store's root. The caller runs it
// with Run and must Close it when done.
func NewWatcher(s *Store, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{store: s, watcher: fsw, onChange: onChange}
	if err := w.addRecursive(s.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until the context is cancelled or the
// event stream closes.
func (w *Watcher) Run(ctx context.Context) {
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
			log.WithError(err).Warnf("store watcher error")
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.ToSlash(event.Name)
	if strings.Contains(name, "/"+versionControlDir+"/") {
		return
	}

	// New directories must be watched to see their future contents.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	if !strings.HasSuffix(name, EncryptedSuffix) {
		return
	}
	rel, err := filepath.Rel(w.store.Root(), event.Name)
	if err != nil {
		return
	}
	path := filepath.ToSlash(strings.TrimSuffix(rel, EncryptedSuffix))

	log.Debugf("store change detected: %s (%s)", path, event.Op)
	w.store.Cache().Invalidate(path)
	if w.onChange != nil {
		w.onChange(path)
	}
}

// addRecursive registers dir and every subdirectory, skipping the
// version-control directory. Non-directories are ignored.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root may not exist yet; watching starts once it does.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == versionControlDir {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
