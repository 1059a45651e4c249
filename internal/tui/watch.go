package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type externalChangeMsg struct{}

type watchErrMsg struct{ err error }

// workspaceWatcher watches the workspace dir for writes from other processes
// (a second TUI, the CLI, a sync job) so the outline can reload without
// polling.
type workspaceWatcher struct {
	fs *fsnotify.Watcher
}

func watchWorkspace(dir string) (*workspaceWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}
	return &workspaceWatcher{fs: fs}, nil
}

func (w *workspaceWatcher) close() {
	_ = w.fs.Close()
}

// waitForChange blocks until a relevant write lands, then debounces briefly:
// SQLite and the tmp+rename state writers produce bursts of events per save.
func waitForChange(w *workspaceWatcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if !relevantChange(ev) {
					continue
				}
				drain(w, 150*time.Millisecond)
				return externalChangeMsg{}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func relevantChange(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, "index.sqlite") {
		return true
	}
	return name == "blueprint.yaml"
}

func drain(w *workspaceWatcher, d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case <-w.fs.Events:
		case <-deadline:
			return
		}
	}
}
