package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dpshade/prompt-overflow/internal/logging"
)

// DefaultDebounce coalesces editor save bursts into one reload
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to prompt files under a library directory
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWatcher watches dir and its subdirectories. onChange runs on the
// watcher goroutine once per burst of changes.
func NewWatcher(dir string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		watcher:  fsw,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}

	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Start begins delivering change notifications
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logging.Logger.Warnw("library watcher could not follow new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if !isPromptEvent(event) {
				continue
			}

			logging.Logger.Debugw("library watcher detected change",
				"file", event.Name,
				"op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warnw("library watcher error", "error", err)
		}
	}
}

func isPromptEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".md") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Stop ends watching and waits for the watcher goroutine to exit
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
