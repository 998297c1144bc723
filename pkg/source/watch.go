package source

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deepgen/famtree/pkg/person"
)

// DefaultDebounce is the quiet period before a changed file is reloaded.
const DefaultDebounce = 150 * time.Millisecond

// ReloadHandler receives the reloaded list, or the error that prevented the
// reload. It is called from a single goroutine.
type ReloadHandler func(persons []person.Record, err error)

// WatchOptions configures a [Watcher].
type WatchOptions struct {
	// Debounce is how long to wait for more changes before reloading.
	// Default: DefaultDebounce
	Debounce time.Duration
}

// Watcher reloads a person file whenever it changes.
//
// The parent directory is watched rather than the file itself so that
// editors that save by writing a temporary file and renaming it over the
// original keep triggering reloads. Bursts of events are collapsed into one
// reload once no event has arrived for the debounce period.
type Watcher struct {
	file     *File
	target   string
	watcher  *fsnotify.Watcher
	handler  ReloadHandler
	debounce time.Duration

	changes  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for f. Call Start to begin watching.
func NewWatcher(f *File, handler ReloadHandler, opts *WatchOptions) (*Watcher, error) {
	debounce := DefaultDebounce
	if opts != nil && opts.Debounce > 0 {
		debounce = opts.Debounce
	}

	target, err := filepath.Abs(f.Path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		file:     f,
		target:   target,
		watcher:  fw,
		handler:  handler,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Watch creates and starts a watcher in one step.
func Watch(ctx context.Context, f *File, handler ReloadHandler, opts *WatchOptions) (*Watcher, error) {
	w, err := NewWatcher(f, handler, opts)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// Start begins watching. Watching ends when ctx is canceled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.target)); err != nil {
		return err
	}
	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops watching and waits for the background goroutines to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// One pending signal is enough; the reload reads the latest content.
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changes:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			persons, err := w.file.Load(ctx)
			if w.handler != nil {
				w.handler(persons, err)
			}
		}
	}
}
