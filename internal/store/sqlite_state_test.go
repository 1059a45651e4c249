package store

import (
	"testing"
	"time"

	"callsheet-cli/internal/tree"
)

func TestSQLiteRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := SeedDB(time.Now().UTC())

	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Nodes) != len(db.Nodes) {
		t.Fatalf("expected %d nodes, got %d", len(db.Nodes), len(got.Nodes))
	}

	// Sibling order survives via Children lists.
	s1, ok := got.FindNode("phase-season1")
	if !ok {
		t.Fatalf("phase-season1 missing after round trip")
	}
	if len(s1.Children) != 2 || s1.Children[0] != "ep-101" || s1.Children[1] != "ep-102" {
		t.Fatalf("children order lost: %v", s1.Children)
	}

	// Round-tripped snapshots stay structurally sound.
	if problems := tree.CheckIntegrity(got.Snapshot()); len(problems) != 0 {
		t.Fatalf("integrity problems after round trip: %v", problems)
	}
}

func TestSQLiteLoadEmptyWorkspace(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Nodes) != 0 {
		t.Fatalf("fresh workspace must be empty, got %v", got.Nodes)
	}
}

func TestSQLiteRootOrderStable(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := SeedDB(time.Now().UTC())

	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m := tree.Build(got.Snapshot())
	roots := m.Roots()
	if len(roots) != 3 || roots[0] != "phase-preprod" || roots[1] != "phase-season1" || roots[2] != "inv-root" {
		t.Fatalf("root order lost: %v", roots)
	}
}
