package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState stores small, user-facing UI state: the persisted expansion map and
// the bulk-operation signal counters, plus the last selection for restoring
// the outline on relaunch.
//
// It is intentionally "best effort": a missing or corrupt file falls back to
// defaults with a warning, never an error. Writes are write-through: every
// toggle saves immediately; entries are small and user-driven.
type UIState struct {
	Version int `json:"version"`

	// Expanded maps node id -> true. Absent means collapsed.
	Expanded map[string]bool `json:"expanded,omitempty"`

	ExpandAllSignal   int `json:"expandAllSignal,omitempty"`
	CollapseAllSignal int `json:"collapseAllSignal,omitempty"`

	SelectedNodeID string `json:"selectedNodeId,omitempty"`
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateFileName)
}

// LoadUIState reads the UI state. It never fails hard: warn is non-nil when
// the file existed but could not be used, and the returned state is then the
// default (all collapsed). Callers surface warn and continue.
func (s Store) LoadUIState() (st *UIState, warn error) {
	fresh := &UIState{Version: 1, Expanded: map[string]bool{}}
	if strings.TrimSpace(s.Dir) == "" {
		return fresh, nil
	}
	b, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fresh, nil
		}
		return fresh, fmt.Errorf("read ui state: %w", err)
	}
	var loaded UIState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return fresh, fmt.Errorf("corrupt ui state (starting collapsed): %w", err)
	}
	if loaded.Version == 0 {
		loaded.Version = 1
	}
	if loaded.Expanded == nil {
		loaded.Expanded = map[string]bool{}
	}
	return &loaded, nil
}

// SaveUIState writes the UI state atomically (tmp + rename).
func (s Store) SaveUIState(st *UIState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.uiStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
