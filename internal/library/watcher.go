package library

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change signals that the show folder's content is no longer what the last
// scan saw.
type Change struct {
	// Path is the file or directory the event was raised for.
	Path string
}

// Watcher monitors a show folder recursively and reports debounced change
// notifications, so callers can invalidate their scan cache or rescan.
type Watcher struct {
	// Changes delivers at most one notification per debounce window.
	Changes <-chan Change

	root     string
	exts     []string
	debounce time.Duration
	changes  chan Change
	watcher  *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	pending Change
}

// NewWatcher starts watching root and every directory below it. A zero
// debounce defaults to 500ms.
func NewWatcher(root string, exts []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if len(exts) == 0 {
		exts = defaultExts
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Changes:  ch,
		root:     root,
		exts:     exts,
		debounce: debounce,
		changes:  ch,
		watcher:  fw,
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Close stops the watcher. The Changes channel is not closed; pending
// notifications are simply dropped.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New directories must be watched before their content events matter.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			w.schedule(Change{Path: event.Name})
			return
		}
	}

	relevant := w.isImage(event.Name)
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		// Removals lose the file type; treat them all as relevant.
		relevant = true
	}
	if relevant && event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.schedule(Change{Path: event.Name})
	}
}

// schedule coalesces bursts of events into a single notification per
// debounce window.
func (w *Watcher) schedule(c Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = c
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		c := w.pending
		w.timer = nil
		w.mu.Unlock()

		select {
		case w.changes <- c:
		case <-w.done:
		}
	})
}

func (w *Watcher) isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}
