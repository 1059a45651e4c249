package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"callsheet-cli/internal/model"
)

const workspaceDirName = ".callsheet"

// Store locates a workspace directory on disk. All persisted workspace state
// lives under Dir: the SQLite node table, the blueprint file, the UI state
// file, and the event log.
type Store struct {
	Dir string
}

// DB is the in-memory workspace state: the flat node table the tree model is
// built from. Order of Nodes is load order (roots first by stored position);
// sibling order is carried by each node's Children list.
type DB struct {
	Version int          `json:"version"`
	Nodes   []model.Node `json:"nodes"`
}

// FindNode returns a pointer into Nodes so callers can mutate in place
// (mutate package only; everything else should treat nodes as read-only).
func (db *DB) FindNode(id string) (*model.Node, bool) {
	for i := range db.Nodes {
		if db.Nodes[i].ID == id {
			return &db.Nodes[i], true
		}
	}
	return nil, false
}

// Snapshot returns a copy of the node table for building a tree.Model.
func (db *DB) Snapshot() []model.Node {
	out := make([]model.Node, len(db.Nodes))
	copy(out, db.Nodes)
	return out
}

// DiscoverDir walks up from start looking for a .callsheet directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, workspaceDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir for the current working directory:
// the nearest .callsheet up the tree, or a fresh one here.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, workspaceDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Load reads the workspace state. SQLite is the source of truth.
func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

// Save writes the workspace state back.
func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

// SeedDB builds the starter production skeleton written by `callsheet init`.
func SeedDB(now time.Time) *DB {
	pre := "phase-preprod"
	s1 := "phase-season1"
	node := func(id, typ, name string, parentID *string, children ...string) model.Node {
		return model.Node{
			ID: id, Type: typ, Name: name, ParentID: parentID, Children: children,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return &DB{
		Version: 1,
		Nodes: []model.Node{
			node(pre, "phase", "Pre-production", nil, "task-outline"),
			node(s1, "phase", "Season 1", nil, "ep-101", "ep-102"),
			node("inv-root", "inventory", "Inventory", nil),
			node("task-outline", "task", "Outline the season arc", &pre),
			node("ep-101", "episode", "Episode 101", &s1),
			node("ep-102", "episode", "Episode 102", &s1),
		},
	}
}
