package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/pathutil"
)

// CatalogChangedMsg reports a change below the catalog root. Name is the
// top-level folder the change belongs to, or empty for the root itself.
type CatalogChangedMsg struct {
	Name string
	Op   fsnotify.Op
}

type CatalogWatcherErrMsg struct {
	Err error
}

// CatalogWatcher watches the root and its immediate subfolders. Deeper
// levels are ignored since only top-level folders and their sidecars feed
// the catalog.
type CatalogWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	onChange func(string)
}

func NewCatalogWatcher(root string) (*CatalogWatcher, error) {
	normalized := pathutil.NormalizePath(root)
	if normalized == "" {
		return nil, errors.New("catalog root cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &CatalogWatcher{
		watcher: w,
		root:    normalized,
		done:    make(chan struct{}),
	}

	if err := watcher.addTopLevel(); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant event. The
// receiver re-issues it after handling each message.
func (w *CatalogWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !isRelevant(event) {
					continue
				}

				name, err := pathutil.TopLevelEntry(w.root, event.Name)
				if err != nil {
					continue
				}

				if event.Has(fsnotify.Create) && name != "" && isDirectChild(w.root, event.Name, name) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.watcher.Add(event.Name)
					}
				}

				if fn := w.changeHandler(); fn != nil {
					fn(name)
				}
				return CatalogChangedMsg{Name: name, Op: event.Op}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return CatalogWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *CatalogWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})

	return closeErr
}

// OnChange registers a callback that receives the top-level folder name of
// every relevant change.
func (w *CatalogWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *CatalogWatcher) changeHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onChange
}

func (w *CatalogWatcher) addTopLevel() error {
	if err := w.watcher.Add(w.root); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(w.root, entry.Name())
		if err := w.watcher.Add(path); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("not watching folder")
		}
	}
	return nil
}

func isRelevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func isDirectChild(root, path, name string) bool {
	rel, err := pathutil.RootRelative(root, path)
	return err == nil && rel == name && !strings.Contains(rel, "/")
}
