package mindset

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Registry's models whenever a .jellyfish file in dir
// changes on disk.
type Watcher struct {
	dir string
	w   *fsnotify.Watcher
}

// NewWatcher starts watching dir for .jellyfish file changes.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{dir: dir, w: fw}, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run blocks, reloading reg from dir on every relevant filesystem event,
// until the watcher is closed. Intended to run in its own goroutine.
func (w *Watcher) Run(reg *Registry) {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".jellyfish") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := w.reload(reg); err != nil {
				log.Printf("mindset: reload after %s: %v", ev.Name, err)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			log.Printf("mindset: watch error: %v", err)
		}
	}
}

func (w *Watcher) reload(reg *Registry) error {
	matches, err := filepath.Glob(filepath.Join(w.dir, "*.jellyfish"))
	if err != nil {
		return err
	}

	fresh := make(map[string]*Model)
	for _, path := range matches {
		models, err := LoadFile(path)
		if err != nil {
			log.Printf("mindset: skip %s: %v", path, err)
			continue
		}
		for _, m := range models {
			if err := m.Validate(); err != nil {
				log.Printf("mindset: skip invalid model in %s: %v", path, err)
				continue
			}
			fresh[m.Name] = m
		}
	}

	reg.Models = fresh
	return nil
}
