// ABOUTME: Polling file watcher used to hot-reload the mood catalog
// ABOUTME: Compares mtime and size each tick; reports the changed path to a callback

package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is the polling period used when none is given.
const DefaultWatchInterval = 2 * time.Second

type fileStamp struct {
	mod  time.Time
	size int64
}

// Watcher reports changes to a fixed set of files by polling.
type Watcher struct {
	paths    []string
	interval time.Duration
	onChange func(path string)

	mu     sync.Mutex
	stamps map[string]fileStamp
}

// NewWatcher creates a watcher. interval <= 0 selects DefaultWatchInterval.
func NewWatcher(paths []string, interval time.Duration, onChange func(path string)) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	w := &Watcher{
		paths:    paths,
		interval: interval,
		onChange: onChange,
		stamps:   make(map[string]fileStamp, len(paths)),
	}
	for _, p := range paths {
		if st, ok := stampOf(p); ok {
			w.stamps[p] = st
		}
	}
	return w
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check compares every file against its last stamp and calls onChange for
// each one that appeared, disappeared, or was modified. It returns the
// changed paths.
func (w *Watcher) Check() []string {
	w.mu.Lock()
	var changed []string
	for _, p := range w.paths {
		prev, had := w.stamps[p]
		cur, has := stampOf(p)
		switch {
		case !had && !has:
			continue
		case had && !has:
			delete(w.stamps, p)
		case !had || cur != prev:
			w.stamps[p] = cur
		default:
			continue
		}
		changed = append(changed, p)
	}
	w.mu.Unlock()

	for _, p := range changed {
		w.onChange(p)
	}
	return changed
}

func stampOf(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}, true
}
