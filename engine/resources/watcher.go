package resources

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/ember/engine/core"
)

// Watcher records which assets under a directory changed on disk.
type Watcher struct {
	root   string
	logger *core.Logger

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	changed  map[string]struct{}
	isClosed bool
}

func NewWatcher(root string, logger *core.Logger) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		root:     abs,
		logger:   core.LoggerOrDefault(logger),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		changed:  make(map[string]struct{}),
	}
	if err := w.watchRecursive(abs); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Changed returns the asset ids modified since the previous call.
func (w *Watcher) Changed() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if len(w.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.changed))
	for id := range w.changed {
		out = append(out, id)
	}
	clear(w.changed)
	slices.Sort(out)
	return out
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := w.watchRecursive(e.Name); err != nil {
						w.logger.Warn("failed to watch '%s': %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.markChanged(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.reportError(err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds path and all directories below it to the watch list.
func (w *Watcher) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}

func (w *Watcher) markChanged(name string) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return
	}
	id := NormalizeAssetID(filepath.ToSlash(rel))
	if id == "" {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.changed[id] = struct{}{}
}

func (w *Watcher) reportError(err error) {
	w.logger.Error("watcher error: %s", err)
}
