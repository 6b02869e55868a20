// Package watch flags a served index as stale when its source corpus
// changes on disk. The watcher never rebuilds anything itself; a
// rebuild replaces vectors and must stay an explicit operator action.
package watch

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/erules-cli/internal/logger"
)

// CorpusWatcher watches one corpus file and records whether it changed
// since the store was last built.
type CorpusWatcher struct {
	watcher    *fsnotify.Watcher
	corpusPath string
	stale      atomic.Bool
	done       chan struct{}
}

// NewCorpusWatcher starts watching the corpus file. Editors and
// downloads typically replace the file rather than write in place, so
// the watch is on the parent directory and events are filtered by name.
func NewCorpusWatcher(corpusPath string) (*CorpusWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	abs, err := filepath.Abs(corpusPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolving corpus path: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching corpus directory: %w", err)
	}

	w := &CorpusWatcher{
		watcher:    fsw,
		corpusPath: abs,
		done:       make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *CorpusWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent marks the index stale on any mutation of the corpus file.
func (w *CorpusWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.corpusPath {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if w.stale.CompareAndSwap(false, true) {
		logger.Warn("watch: corpus %s changed, index is stale until the next build", w.corpusPath)
	}
}

// Stale reports whether the corpus changed since the watcher started.
func (w *CorpusWatcher) Stale() bool {
	return w.stale.Load()
}

// Close stops watching.
func (w *CorpusWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
