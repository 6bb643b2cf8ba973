// Package watch re-ingests files written into a directory.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one changed file.
type Handler func(ctx context.Context, path string) error

// Watcher calls Handle for files created or written in Dir. Bursts of events
// for the same file collapse into one call after Debounce.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	// Accept filters paths; nil accepts everything.
	Accept func(path string) bool
	Handle Handler
}

// New returns a Watcher with the default debounce.
func New(dir string, accept func(string) bool, handle Handler) *Watcher {
	return &Watcher{Dir: dir, Debounce: DefaultDebounce, Accept: accept, Handle: handle}
}

// Run watches until ctx is done. Handler errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir, err := filepath.Abs(w.Dir)
	if err != nil {
		return fmt.Errorf("bad watch dir %q: %w", w.Dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch dir %q: %w", dir, err)
	}
	log.Printf("[MKTABLE] Watching %s", dir)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		mu      sync.Mutex
		timers  = make(map[string]*time.Timer)
		pending sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			if t.Stop() {
				pending.Done()
			}
		}
		mu.Unlock()
		pending.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, _ := filepath.Abs(event.Name)
			if w.Accept != nil && !w.Accept(path) {
				continue
			}

			mu.Lock()
			if t, exists := timers[path]; exists && t.Stop() {
				pending.Done()
			}
			pending.Add(1)
			var timer *time.Timer
			timer = time.AfterFunc(debounce, func() {
				defer pending.Done()
				mu.Lock()
				if timers[path] == timer {
					delete(timers, path)
				}
				mu.Unlock()

				log.Printf("[MKTABLE] File changed %q, ingesting", path)
				if err := w.Handle(ctx, path); err != nil {
					log.Printf("[MKTABLE] Ingest failed for %q: %v", path, err)
				}
			})
			timers[path] = timer
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[MKTABLE] Watcher error: %v", err)
		}
	}
}
