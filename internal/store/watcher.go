package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports changes to storage entries in a directory. The
// directory is watched rather than the files because FileStorage
// replaces files by rename.
type Watcher struct {
	watcher  *fsnotify.Watcher
	keys     map[string]bool
	onChange func(string)
	mu       sync.Mutex
	pending  map[string]*time.Timer
	done     chan struct{}
}

func NewWatcher(dir string, keys []string, onChange func(key string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  watcher,
		keys:     make(map[string]bool, len(keys)),
		onChange: onChange,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, key := range keys {
		w.keys[key] = true
	}

	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			key := filepath.Base(event.Name)
			if !w.keys[key] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule(key)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a dropped event only delays the next reload.

		case <-w.done:
			return
		}
	}
}

// schedule debounces bursts of events for the same key.
func (w *Watcher) schedule(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[key]; exists {
		timer.Stop()
	}

	w.pending[key] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.pending, key)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		if w.onChange != nil {
			w.onChange(key)
		}
	})
}

func (w *Watcher) Close() error {
	close(w.done)

	w.mu.Lock()
	for key, timer := range w.pending {
		timer.Stop()
		delete(w.pending, key)
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
