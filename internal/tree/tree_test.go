package tree

import (
	"testing"

	"callsheet-cli/internal/model"
)

func strPtr(s string) *string { return &s }

// season1 -> [ep-a, ep-b], ep-a -> [task-1]
func sampleSnapshot() []model.Node {
	return []model.Node{
		{ID: "season-1", Type: "phase", Name: "Season 1", Children: []string{"ep-a", "ep-b"}},
		{ID: "ep-a", Type: "episode", Name: "Episode A", ParentID: strPtr("season-1"), Children: []string{"task-1"}},
		{ID: "ep-b", Type: "episode", Name: "Episode B", ParentID: strPtr("season-1")},
		{ID: "task-1", Type: "task", Name: "Write script", ParentID: strPtr("ep-a")},
	}
}

func TestModelQueries(t *testing.T) {
	m := Build(sampleSnapshot())

	if got := m.Children("season-1"); len(got) != 2 || got[0] != "ep-a" || got[1] != "ep-b" {
		t.Fatalf("Children(season-1): got %v", got)
	}
	if got := m.Children("task-1"); len(got) != 0 {
		t.Fatalf("leaf children: got %v", got)
	}
	if p, ok := m.ParentOf("task-1"); !ok || p != "ep-a" {
		t.Fatalf("ParentOf(task-1): got %q, %v", p, ok)
	}
	if _, ok := m.ParentOf("season-1"); ok {
		t.Fatalf("root must have no parent")
	}
	if _, ok := m.ParentOf("nope"); ok {
		t.Fatalf("unknown id must have no parent")
	}
	if roots := m.Roots(); len(roots) != 1 || roots[0] != "season-1" {
		t.Fatalf("Roots: got %v", roots)
	}
}

func TestDescendants(t *testing.T) {
	m := Build(sampleSnapshot())

	d := m.Descendants("season-1")
	for _, id := range []string{"ep-a", "ep-b", "task-1"} {
		if _, ok := d[id]; !ok {
			t.Fatalf("Descendants(season-1) missing %s (got %v)", id, d)
		}
	}
	if _, ok := d["season-1"]; ok {
		t.Fatalf("Descendants must exclude the node itself")
	}
	if d := m.Descendants("task-1"); len(d) != 0 {
		t.Fatalf("leaf descendants: got %v", d)
	}
}

func TestCheckIntegrityCleanSnapshot(t *testing.T) {
	if problems := CheckIntegrity(sampleSnapshot()); len(problems) != 0 {
		t.Fatalf("clean snapshot reported problems: %v", problems)
	}
}

func TestCheckIntegrityFindings(t *testing.T) {
	cases := []struct {
		name     string
		snapshot []model.Node
		wantKind string
	}{
		{
			name: "duplicate id",
			snapshot: []model.Node{
				{ID: "a", Type: "task"},
				{ID: "a", Type: "task"},
			},
			wantKind: "duplicate-id",
		},
		{
			name: "dangling child",
			snapshot: []model.Node{
				{ID: "a", Type: "phase", Children: []string{"ghost"}},
			},
			wantKind: "dangling-child",
		},
		{
			name: "multiple parents",
			snapshot: []model.Node{
				{ID: "a", Type: "phase", Children: []string{"c"}},
				{ID: "b", Type: "phase", Children: []string{"c"}},
				{ID: "c", Type: "task", ParentID: strPtr("a")},
			},
			wantKind: "multiple-parents",
		},
		{
			name: "parent mismatch",
			snapshot: []model.Node{
				{ID: "a", Type: "phase", Children: []string{"c"}},
				{ID: "c", Type: "task"},
			},
			wantKind: "parent-mismatch",
		},
		{
			name: "unlisted child",
			snapshot: []model.Node{
				{ID: "a", Type: "phase"},
				{ID: "c", Type: "task", ParentID: strPtr("a")},
			},
			wantKind: "unlisted-child",
		},
		{
			name: "cycle",
			snapshot: []model.Node{
				{ID: "a", Type: "phase", ParentID: strPtr("b"), Children: []string{"b"}},
				{ID: "b", Type: "phase", ParentID: strPtr("a"), Children: []string{"a"}},
			},
			wantKind: "cycle",
		},
	}
	for _, tc := range cases {
		problems := CheckIntegrity(tc.snapshot)
		found := false
		for _, p := range problems {
			if p.Kind == tc.wantKind {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%s: expected a %q finding, got %v", tc.name, tc.wantKind, problems)
		}
	}
}
