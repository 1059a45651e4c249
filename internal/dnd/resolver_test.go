package dnd

import (
	"testing"

	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

func strPtr(s string) *string { return &s }

func testBlueprint(t *testing.T) *schema.Blueprint {
	t.Helper()
	bp, err := schema.Parse([]byte(`
id: test
name: Test
node_types:
  - id: season
    name: Season
    allowed_children: [episode]
  - id: episode
    name: Episode
    allowed_children: [task]
  - id: task
    name: Task
    allowed_children: [none]
`))
	if err != nil {
		t.Fatalf("parse blueprint: %v", err)
	}
	return bp
}

// season-1[ep-a[task-1, task-2], ep-b], season-2[]
func testSnapshot() []model.Node {
	return []model.Node{
		{ID: "season-1", Type: "season", Name: "Season 1", Children: []string{"ep-a", "ep-b"}},
		{ID: "ep-a", Type: "episode", Name: "Episode A", ParentID: strPtr("season-1"), Children: []string{"task-1", "task-2"}},
		{ID: "ep-b", Type: "episode", Name: "Episode B", ParentID: strPtr("season-1")},
		{ID: "task-1", Type: "task", Name: "Write script", ParentID: strPtr("ep-a")},
		{ID: "task-2", Type: "task", Name: "Record foley", ParentID: strPtr("ep-a")},
		{ID: "season-2", Type: "season", Name: "Season 2"},
	}
}

func testModel() *tree.Model { return tree.Build(testSnapshot()) }

func capture(t *testing.T, m *tree.Model, id string) Payload {
	t.Helper()
	p, ok := Capture(m, id)
	if !ok {
		t.Fatalf("capture %s: node not found", id)
	}
	return p
}

func rowFor(m *tree.Model, id string) RowTarget {
	n, _ := m.Node(id)
	return RowTarget{ID: n.ID, Type: n.Type, ParentID: n.ParentID}
}

// pointer position at a given ratio within a row of height 10 at top 100.
const (
	rowTop    = 100.0
	rowHeight = 10.0
)

func atRatio(ratio float64) float64 { return rowTop + ratio*rowHeight }

func TestResolveSelfDrop(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-a")

	for _, ratio := range []float64{0.1, 0.5, 0.9} {
		got := ResolveIntent(bp, p, rowFor(m, "ep-a"), atRatio(ratio), rowTop, rowHeight)
		if got.Kind != IntentRejected || got.Reason != ReasonSelfDrop {
			t.Fatalf("ratio %.2f: expected self-drop rejection, got %+v", ratio, got)
		}
	}
}

func TestResolveDescendantDrop(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "season-1")

	for _, targetID := range []string{"ep-a", "ep-b", "task-1", "task-2"} {
		got := ResolveIntent(bp, p, rowFor(m, targetID), atRatio(0.5), rowTop, rowHeight)
		if got.Kind != IntentRejected || got.Reason != ReasonDescendant {
			t.Fatalf("target %s: expected descendant rejection, got %+v", targetID, got)
		}
	}
}

func TestResolveZones(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b") // sibling of ep-a, episode type

	cases := []struct {
		ratio float64
		want  IntentKind
	}{
		{0.10, IntentReorderAbove},
		{0.24, IntentReorderAbove},
		{0.25, IntentReorderAbove}, // boundary belongs to the reorder zone
		{0.26, IntentRejected},     // inside; episode does not accept episode -> fallback handled below
		{0.50, IntentRejected},
		{0.75, IntentReorderBelow}, // boundary belongs to the reorder zone
		{0.90, IntentReorderBelow},
	}
	// ep-a does not accept episode children, and ep-a/ep-b share a parent, so
	// "inside" falls back to a midpoint reorder instead of rejecting.
	for _, tc := range cases {
		got := ResolveIntent(bp, p, rowFor(m, "ep-a"), atRatio(tc.ratio), rowTop, rowHeight)
		want := tc.want
		if want == IntentRejected {
			// Same-parent fallback: nearest half.
			if tc.ratio < 0.5 {
				want = IntentReorderAbove
			} else {
				want = IntentReorderBelow
			}
		}
		if got.Kind != want {
			t.Fatalf("ratio %.2f: expected %s, got %+v", tc.ratio, want, got)
		}
		if got.TargetID != "ep-a" {
			t.Fatalf("ratio %.2f: expected target ep-a, got %+v", tc.ratio, got)
		}
	}
}

func TestResolveMoveIntoCompatibleTarget(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b") // episode; season-2 accepts episodes

	got := ResolveIntent(bp, p, rowFor(m, "season-2"), atRatio(0.5), rowTop, rowHeight)
	if got.Kind != IntentMoveInto || got.TargetID != "season-2" {
		t.Fatalf("expected move-into season-2, got %+v", got)
	}
}

func TestResolveInsideIncompatibleCrossParentRejects(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b") // parent season-1

	// task-1's parent is ep-a: different parent, and tasks don't accept episodes.
	got := ResolveIntent(bp, p, rowFor(m, "task-1"), atRatio(0.5), rowTop, rowHeight)
	if got.Kind != IntentRejected || got.Reason != ReasonIncompatibleType {
		t.Fatalf("expected incompatible-type rejection, got %+v", got)
	}
}

func TestResolveInsideIncompatibleSameParentFallsBack(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "task-2") // sibling of task-1; task does not accept task

	upper := ResolveIntent(bp, p, rowFor(m, "task-1"), atRatio(0.40), rowTop, rowHeight)
	if upper.Kind != IntentReorderAbove || upper.TargetID != "task-1" {
		t.Fatalf("upper half: expected reorder-above, got %+v", upper)
	}
	lower := ResolveIntent(bp, p, rowFor(m, "task-1"), atRatio(0.60), rowTop, rowHeight)
	if lower.Kind != IntentReorderBelow || lower.TargetID != "task-1" {
		t.Fatalf("lower half: expected reorder-below, got %+v", lower)
	}
}

func TestResolveCrossParentReorderRejects(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "task-1") // parent ep-a

	got := ResolveIntent(bp, p, rowFor(m, "ep-b"), atRatio(0.1), rowTop, rowHeight)
	if got.Kind != IntentRejected || got.Reason != ReasonDifferentParent {
		t.Fatalf("expected different-parent rejection, got %+v", got)
	}
}

func TestResolveRootSiblingReorder(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "season-2") // root; season-1 is a root too

	got := ResolveIntent(bp, p, rowFor(m, "season-1"), atRatio(0.1), rowTop, rowHeight)
	if got.Kind != IntentReorderAbove || got.TargetID != "season-1" {
		t.Fatalf("expected root reorder-above, got %+v", got)
	}
}

func TestResolveDegenerateRowHeight(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	// Zero-height rows resolve to "inside" rather than dividing by zero.
	got := ResolveIntent(bp, p, rowFor(m, "season-2"), rowTop, rowTop, 0)
	if got.Kind != IntentMoveInto {
		t.Fatalf("expected move-into for zero-height row, got %+v", got)
	}
}
