package store

import (
	"context"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestWatcherHandleInvalidatesChangedEntry(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})
	s.cache.Put("web/github", &Entry{Path: "web/github"})

	var changed []string
	w := &Watcher{store: s, onChange: func(path string) { changed = append(changed, path) }}

	w.handle(fsnotify.Event{
		Name: s.root + "/web/github" + EncryptedSuffix,
		Op:   fsnotify.Write,
	})

	_, ok := s.cache.Get("web/github")
	assert.False(t, ok)
	assert.Equal(t, []string{"web/github"}, changed)
}

func TestWatcherHandleIgnoresVersionControlAndStrayFiles(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})
	s.cache.Put("web/github", &Entry{Path: "web/github"})

	w := &Watcher{store: s, onChange: func(string) { t.Fatal("unexpected change callback") }}

	w.handle(fsnotify.Event{Name: s.root + "/.git/index.gpg", Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: s.root + "/notes.txt", Op: fsnotify.Write})

	assert.Equal(t, 1, s.cache.Len())
}

func TestWatcherEndToEnd(t *testing.T) {
	s := newTestStore(t, &fakeRunner{})
	s.cache.Put("acc", &Entry{Path: "acc"})

	changes := make(chan string, 1)
	w, err := NewWatcher(s, func(path string) { changes <- path })
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeEntryFile(t, s.root, "acc")

	select {
	case path := <-changes:
		assert.Equal(t, "acc", path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event within deadline")
	}
}
