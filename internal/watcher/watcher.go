// Package watcher reruns a build when files under watched directories
// change. All watch state is owned by a single goroutine: events arrive on
// the fsnotify channel, builds run in a worker goroutine, and changes seen
// while a build is in flight are counted and reported, not queued.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

type state int

const (
	stateIdle state = iota
	stateBuilding
)

// Watcher observes directory trees and triggers rebuilds.
type Watcher struct {
	fsw   *fsnotify.Watcher
	build func() error
	logf  func(format string, args ...interface{})
}

// New creates a Watcher over the given root directories, watching each tree
// recursively. Roots that do not exist are skipped with a notice.
func New(build func() error, roots ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:   fsw,
		build: build,
		logf:  log.Printf,
	}

	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			w.logf("Directory %s not found, not watching.", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.fsw.Add(path)
			}
			return nil
		})
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
		w.logf("Watching %s", root)
	}

	return w, nil
}

// Run blocks consuming filesystem events until ctx is cancelled, then stops
// the observer and waits for any in-flight build before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	return w.loop(ctx, w.fsw.Events, w.fsw.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	st := stateIdle
	changedWhileBuilding := 0
	done := make(chan error, 1)

	for {
		select {
		case <-ctx.Done():
			if st == stateBuilding {
				<-done
			}
			w.logf("Watcher stopped.")
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !relevant(ev) {
				continue
			}
			// New subdirectories are not watched automatically.
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := w.fsw.Add(ev.Name); err != nil {
					w.logf("Failed to watch new directory %s: %v", ev.Name, err)
				}
			}
			if st == stateBuilding {
				changedWhileBuilding++
				continue
			}
			st = stateBuilding
			w.logf("Change detected: %s (%s), building site...", ev.Name, ev.Op)
			go func() {
				done <- w.build()
			}()

		case err := <-done:
			if err != nil {
				w.logf("Build failed: %v", err)
			} else {
				w.logf("Done! %d files changed while building", changedWhileBuilding)
			}
			changedWhileBuilding = 0
			st = stateIdle

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logf("Watcher error: %v", err)
		}
	}
}

// relevant reports whether the event can change build input. Chmod-only
// events are ignored.
func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
