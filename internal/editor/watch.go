package editor

import (
	"sync"

	"github.com/limetext/log4go"
	"github.com/rjeczalik/notify"
)

// watcher runs a registered action when a watched file changes on disk
// (the editor registers only config.ron), adapted from the teacher's backend/watch.Watcher onto
// rjeczalik/notify's channel-based API in place of the teacher's
// (archived) howeyc/fsnotify.
type watcher struct {
	events  chan notify.EventInfo
	watched map[string]func()
	mu      sync.Mutex
	done    chan struct{}
}

func newWatcher() *watcher {
	return &watcher{
		events:  make(chan notify.EventInfo, 16),
		watched: make(map[string]func()),
		done:    make(chan struct{}),
	}
}

// Watch starts watching path itself for notify.Write and notify.Create
// events and runs action whenever one arrives for it.
func (w *watcher) Watch(path string, action func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := notify.Watch(path, w.events, notify.Write, notify.Create); err != nil {
		log4go.Error("watch: could not watch %s: %s", path, err)
		return err
	}
	w.watched[path] = action
	return nil
}

// UnwatchAll stops all watches and releases the notify channel.
func (w *watcher) UnwatchAll() {
	notify.Stop(w.events)
	close(w.done)
}

// Observe runs the dispatch loop; call it in its own goroutine.
func (w *watcher) Observe() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.mu.Lock()
			action, ok := w.watched[ev.Path()]
			w.mu.Unlock()
			if ok && action != nil {
				action()
			}
		}
	}
}
