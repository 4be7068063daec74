package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// watchDebounce collapses editor write bursts into one event.
const watchDebounce = 150 * time.Millisecond

// WatchDocument observes the agenda file for changes made outside this
// process and emits one event per settled change. The document itself is
// not re-read; consumers decide whether to reload. The channel closes when
// ctx is cancelled.
//
// The store has no lock around load-mutate-save, so an external writer can
// still race a request; watching makes that visible instead of silent.
func WatchDocument(ctx context.Context, config Config) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: atomic renames replace the inode
	// and a file-level watch would go stale after the first save.
	dir := filepath.Dir(config.DataFile)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event, 8)

	go func() {
		defer close(events)
		defer watcher.Close()

		var pending *core.Event
		timer := time.NewTimer(watchDebounce)
		if !timer.Stop() {
			<-timer.C
		}

		target := filepath.Clean(config.DataFile)

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}

				etype := core.EventModify
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					etype = core.EventDelete
				}
				pending = &core.Event{
					Type:      etype,
					Path:      target,
					Timestamp: time.Now().Unix(),
				}
				timer.Reset(watchDebounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if config.Logger != nil {
					config.Logger.Warn("watcher error", "error", err)
				}

			case <-timer.C:
				if pending == nil {
					continue
				}
				select {
				case events <- *pending:
				case <-ctx.Done():
					return
				}
				pending = nil
			}
		}
	}()

	return events, nil
}
