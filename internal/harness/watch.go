package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"testkit/pkg/logging"
)

// DefaultDebounceInterval is the quiet period after the last change to a
// watched file before a change is signalled.
const DefaultDebounceInterval = 500 * time.Millisecond

// WatchFile signals on the returned channel whenever path is written or
// re-created. Bursts of events within debounce collapse into one signal.
// The channel is closed when ctx is done.
func WatchFile(ctx context.Context, path string, debounce time.Duration) (<-chan struct{}, error) {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// editors replace files, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		var mu sync.Mutex
		var timer *time.Timer
		closed := false
		defer func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			closed = true
			close(changes)
			watcher.Close()
		}()

		signal := func() {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logging.Debug(subsystem, "Watched file changed: %s", event.Name)
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, signal)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Error(subsystem, err, "File watcher error")
			}
		}
	}()

	logging.Info(subsystem, "Watching %s for changes", abs)
	return changes, nil
}
