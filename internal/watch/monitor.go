// Package watch observes a single directory for filesystem events and
// reports them through a debounced callback, coalescing bursts into one
// notification.
package watch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/termdeck/termdeck/internal/timing"
)

// DefaultDebounce is the quiet period after the last event before the
// change callback fires.
const DefaultDebounce = 300 * time.Millisecond

// relevantOps are the event kinds that trigger a refresh. Chmod-only events
// are noise for a directory listing.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Monitor watches one directory. The change callback runs on a background
// goroutine; callers that own UI state must marshal back themselves. A
// reload raced by fresh events may deliver a stale-but-valid listing; the
// next debounced callback corrects it.
type Monitor struct {
	path     string
	onChange func()
	debounce *timing.Debouncer

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewMonitor creates a stopped monitor for path. delay <= 0 means
// DefaultDebounce.
func NewMonitor(path string, delay time.Duration, onChange func()) *Monitor {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Monitor{
		path:     path,
		onChange: onChange,
		debounce: timing.NewDebouncer(delay),
	}
}

// Start subscribes to filesystem events for the directory. Calling Start on
// a running monitor is a no-op; no duplicate subscription is created.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(m.path); err != nil {
		w.Close()
		return err
	}
	m.watcher = w

	go m.loop(w)
	return nil
}

// Stop cancels any pending debounced callback and releases the watch. The
// callback will not fire after Stop returns. Safe to call when stopped;
// the monitor may be started again afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if w != nil {
		w.Close()
	}
	m.debounce.Cancel()
}

// Running reports whether the monitor currently holds a watch.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watcher != nil
}

func (m *Monitor) loop(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			m.debounce.Trigger(m.fire)
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
			// Watch errors are ignored; the periodic refresh path
			// covers anything missed.
		}
	}
}

// fire invokes the callback only while the monitor is still running, so a
// debounce that slips past Stop's Cancel cannot observe a stopped monitor.
func (m *Monitor) fire() {
	m.mu.Lock()
	running := m.watcher != nil
	m.mu.Unlock()
	if running && m.onChange != nil {
		m.onChange()
	}
}
