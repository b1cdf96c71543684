package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// ChangeFunc is told about every file the watcher parsed again or dropped.
type ChangeFunc func(path string, removed bool)

// FileWatcher polls the workspace root for grammar files that were added,
// modified or deleted.
type FileWatcher struct {
	workspace    *Workspace
	onChange     ChangeFunc
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(w *Workspace, onChange ChangeFunc) *FileWatcher {
	return &FileWatcher{
		workspace:    w,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) WithInterval(d time.Duration) *FileWatcher {
	w.pollInterval = d
	return w
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	current := make(map[string]bool)
	root := w.workspace.RootDir()

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if LanguageOf(path) == LanguageUnknown {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.workspace.ScanFile(path); err != nil {
				logger().Warningf("%s", err)
				return nil
			}
			w.notify(path, false)
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.workspace.RemoveFile(path)
			w.notify(path, true)
		}
	}
}

func (w *FileWatcher) notify(path string, removed bool) {
	if w.onChange != nil {
		w.onChange(path, removed)
	}
}
