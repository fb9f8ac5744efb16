package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/quire/pkg/core"
)

// Watch implements core.Watchable. pattern is a doublestar glob matched against note IDs;
// an empty pattern matches everything. The returned channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}
	known, err := r.knownIDs()
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, 100)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, matched := r.translate(event, pattern, known)
				if !matched {
					continue
				}
				r.recordEvent()
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("fsnotify error", "error", wErr)
				if r.config.ErrorHandler != nil {
					r.config.ErrorHandler(wErr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(fmt.Errorf("watcher panic: %w", err))
			return
		}
		r.config.Logger.Error("watcher panic", "error", err)
	}))

	return events, nil
}

// knownIDs lists the notes present when a watch starts.
func (r *Repository) knownIDs() (map[string]bool, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store dir: %w", err)
	}
	known := make(map[string]bool, len(entries))
	for _, d := range entries {
		if id, ok := noteID(d.Name()); ok && !d.IsDir() {
			known[id] = true
		}
	}
	return known, nil
}

// noteID returns the ID for a note file name, rejecting temp and hidden files.
func noteID(name string) (string, bool) {
	if filepath.Ext(name) != noteExt || strings.HasPrefix(name, TempFilePrefix) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return strings.TrimSuffix(name, noteExt), true
}

// translate maps a raw filesystem event to a note event, filtering temp files and
// anything outside pattern. Atomic saves land as a Create on the target, so a Create
// for an ID already in known is reported as a modification. known is owned by the
// watch goroutine.
func (r *Repository) translate(event fsnotify.Event, pattern string, known map[string]bool) (core.Event, bool) {
	id, ok := noteID(filepath.Base(event.Name))
	if !ok {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
		if known[id] {
			t = core.EventModify
		}
		known[id] = true
	case event.Has(fsnotify.Write):
		t = core.EventModify
		known[id] = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
		delete(known, id)
	default:
		return core.Event{}, false
	}

	if ok, err := doublestar.Match(pattern, id); err != nil || !ok {
		return core.Event{}, false
	}

	r.config.Logger.Debug("event received", "type", t, "id", id)
	return core.Event{Type: t, ID: id, Timestamp: time.Now().Unix()}, true
}
