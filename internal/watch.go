package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	tt "github.com/gnolang/shapelint/internal/types"
)

// watchDebounce groups bursts of writes to one file into a single run.
const watchDebounce = 100 * time.Millisecond

// ReportFunc receives the result of re-linting a changed file.
type ReportFunc func(filename string, issues []tt.Issue, err error)

// Watch re-lints .go and .gno files under dirs whenever they are written,
// until ctx is cancelled. Directories created while watching are added too.
func (e *Engine) Watch(ctx context.Context, dirs []string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addTree(watcher, dir); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e.handleFileEvent(watcher, event, pending)
			if len(pending) > 0 {
				timer.Reset(watchDebounce)
			}

		case <-timer.C:
			for name := range pending {
				issues, err := e.Run(name)
				report(name, issues, err)
				delete(pending, name)
			}
			if err := e.Flush(); err != nil {
				report("", nil, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report("", nil, err)
		}
	}
}

func (e *Engine) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event, pending map[string]struct{}) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if isDir(event.Name) {
			_ = addTree(watcher, event.Name)
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !IsSourceFile(event.Name) || e.isIgnoredPath(event.Name) {
		return
	}
	pending[event.Name] = struct{}{}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsSourceFile reports whether path names a file the engine lints.
func IsSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".go", ".gno":
		return true
	default:
		return false
	}
}
