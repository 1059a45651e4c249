package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"callsheet-cli/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "index.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers across processes; busy_timeout
	// avoids "database is locked" flakiness when CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite loads the node table from the workspace SQLite db. A missing or
// empty db yields an empty DB (callers decide whether that means "run init").
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1}

	var versionStr string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'version'`).Scan(&versionStr)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if n, convErr := parseIntMeta(versionStr); convErr == nil && n > 0 {
		out.Version = n
	}

	rows, err := db.QueryContext(ctx, `SELECT parent_id, position, json FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type loaded struct {
		parentID string
		position int
		node     model.Node
	}
	var all []loaded
	for rows.Next() {
		var l loaded
		var blob string
		if err := rows.Scan(&l.parentID, &l.position, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &l.node); err != nil {
			return nil, fmt.Errorf("corrupt node row: %w", err)
		}
		all = append(all, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable snapshot order: roots first by position, then the rest grouped by
	// parent. Sibling order authority is each parent's Children list.
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].parentID == "") != (all[j].parentID == "") {
			return all[i].parentID == ""
		}
		if all[i].parentID != all[j].parentID {
			return all[i].parentID < all[j].parentID
		}
		return all[i].position < all[j].position
	})
	for _, l := range all {
		out.Nodes = append(out.Nodes, l.node)
	}
	return out, nil
}

// SaveSQLite writes the whole node table inside one transaction.
// Replace-all keeps the write path simple; workspaces are small.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES('version', ?)`, fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}

	// Positions: index within the parent's Children list; roots by their
	// relative order in Nodes.
	position := map[string]int{}
	rootPos := 0
	for _, n := range st.Nodes {
		if n.ParentID == nil {
			position[n.ID] = rootPos
			rootPos++
		}
		for i, childID := range n.Children {
			position[childID] = i
		}
	}

	now := time.Now().UnixMilli()
	for _, n := range st.Nodes {
		blob, err := json.Marshal(n)
		if err != nil {
			return err
		}
		parentID := ""
		if n.ParentID != nil {
			parentID = *n.ParentID
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes(id, type, name, parent_id, position, json, updated_at_unixms)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Type, n.Name, parentID, position[n.ID], string(blob), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func parseIntMeta(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty")
	}
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
