package file

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Watcher monitors the settings file for external edits so a
// long-running server picks up changes without a restart. The watch
// is placed on the parent directory because editors typically replace
// the file via rename, which drops a watch on the file itself.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchSettings watches the settings file at path and invokes onChange
// whenever it is written or recreated. Close stops the watch.
func WatchSettings(path string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	target := filepath.Clean(path)

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Settings file changed: %s", event.Op)
				onChange()
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("Settings watcher error: %v", err)
			}
		}
	}()

	return w, nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
