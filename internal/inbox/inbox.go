// Package inbox watches a directory and hands newly dropped PDFs to a
// callback. It is the CLI's stand-in for the browser's drag-and-drop surface.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/claimlens/claimlens/internal/pdfinfo"
)

// settleDelay is how long a new file must sit unchanged before it is
// considered fully written. Copies into the watched directory are not atomic.
const settleDelay = 500 * time.Millisecond

// Watcher watches one directory for incoming PDFs.
type Watcher struct {
	dir    string
	logger *slog.Logger
	fn     func(path string)
}

// New creates a watcher that invokes fn for each PDF dropped into dir.
func New(dir string, logger *slog.Logger, fn func(path string)) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{dir: dir, logger: logger.With("component", "inbox"), fn: fn}
}

// Run blocks watching the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for PDFs", "dir", w.dir)

	// Timers fire into the loop so all map access stays on one goroutine.
	fired := make(chan string)
	pendingTimers := make(map[string]*time.Timer)
	handled := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !pdfinfo.IsPDF(event.Name) {
				continue
			}
			path := event.Name
			// A file already handed off is done; later writes to it must
			// not enqueue the same path again.
			if handled[path] {
				continue
			}
			// Restart the settle timer on every write to the same file.
			if t, ok := pendingTimers[path]; ok {
				t.Stop()
			}
			pendingTimers[path] = time.AfterFunc(settleDelay, func() {
				select {
				case fired <- path:
				case <-ctx.Done():
				}
			})

		case path := <-fired:
			delete(pendingTimers, path)
			if handled[path] {
				continue
			}
			handled[path] = true
			w.logger.Info("picked up document", "file", filepath.Base(path))
			w.fn(path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
