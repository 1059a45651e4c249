package dnd

import (
	"testing"

	"callsheet-cli/internal/model"
	"callsheet-cli/internal/tree"
)

func TestValidateMoveInto(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	cmd, err := ValidateDrop(m, bp, p, Intent{Kind: IntentMoveInto, TargetID: "season-2"})
	if err != nil {
		t.Fatalf("ValidateDrop: %v", err)
	}
	want := model.Command{Type: model.CommandMoveNode, NodeID: "ep-b", NewParentID: "season-2"}
	if cmd != want {
		t.Fatalf("expected %+v, got %+v", want, cmd)
	}
}

func TestValidateMoveIntoNoOp(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b") // already under season-1

	_, err := ValidateDrop(m, bp, p, Intent{Kind: IntentMoveInto, TargetID: "season-1"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonNoOp {
		t.Fatalf("expected no-op rejection, got %v", err)
	}
}

func TestValidateMoveIntoIncompatibleType(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "task-1")

	// Seasons accept episodes only.
	_, err := ValidateDrop(m, bp, p, Intent{Kind: IntentMoveInto, TargetID: "season-2"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonIncompatibleType {
		t.Fatalf("expected incompatible-type rejection, got %v", err)
	}
}

func TestValidateMoveIntoVanishedTarget(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	_, err := ValidateDrop(m, bp, p, Intent{Kind: IntentMoveInto, TargetID: "ghost"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonStaleTarget {
		t.Fatalf("expected stale-target rejection, got %v", err)
	}
}

func TestValidateMoveIntoTargetEnteredDraggedSubtreeMidGesture(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-a")

	// Mid-gesture, another actor moved ep-b under ep-a. The drag-start payload
	// does not list ep-b as a descendant, but the live model does.
	changed := []model.Node{
		{ID: "season-1", Type: "season", Children: []string{"ep-a"}},
		{ID: "ep-a", Type: "episode", ParentID: strPtr("season-1"), Children: []string{"ep-b"}},
		{ID: "ep-b", Type: "episode", ParentID: strPtr("ep-a")},
	}
	live := tree.Build(changed)

	_, err := ValidateDrop(live, bp, p, Intent{Kind: IntentMoveInto, TargetID: "ep-b"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonDescendant {
		t.Fatalf("expected descendant rejection against live model, got %v", err)
	}
}

func TestValidateReorderAboveAndBelow(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	// Siblings of ep-b with ep-b removed: [ep-a]. Above ep-a -> index 0.
	cmd, err := ValidateDrop(m, bp, p, Intent{Kind: IntentReorderAbove, TargetID: "ep-a"})
	if err != nil {
		t.Fatalf("reorder above: %v", err)
	}
	if cmd.Type != model.CommandReorderNode || cmd.NodeID != "ep-b" || cmd.NewIndex != 0 {
		t.Fatalf("reorder above: got %+v", cmd)
	}

	cmd, err = ValidateDrop(m, bp, p, Intent{Kind: IntentReorderBelow, TargetID: "ep-a"})
	if err != nil {
		t.Fatalf("reorder below: %v", err)
	}
	if cmd.NewIndex != 1 {
		t.Fatalf("reorder below: expected index 1, got %+v", cmd)
	}
}

func TestValidateReorderIndexExcludesDraggedNode(t *testing.T) {
	bp := testBlueprint(t)
	// Parent with children [a, b, c]; dragging a below c must give index 2,
	// not 3: the index is computed with a already excluded.
	snapshot := []model.Node{
		{ID: "ep", Type: "episode", Children: []string{"a", "b", "c"}},
		{ID: "a", Type: "task", ParentID: strPtr("ep")},
		{ID: "b", Type: "task", ParentID: strPtr("ep")},
		{ID: "c", Type: "task", ParentID: strPtr("ep")},
	}
	m := tree.Build(snapshot)
	p := capture(t, m, "a")

	cmd, err := ValidateDrop(m, bp, p, Intent{Kind: IntentReorderBelow, TargetID: "c"})
	if err != nil {
		t.Fatalf("ValidateDrop: %v", err)
	}
	if cmd.NewIndex != 2 {
		t.Fatalf("expected index 2 (dragged node excluded), got %d", cmd.NewIndex)
	}

	cmd, err = ValidateDrop(m, bp, p, Intent{Kind: IntentReorderAbove, TargetID: "b"})
	if err != nil {
		t.Fatalf("ValidateDrop: %v", err)
	}
	if cmd.NewIndex != 0 {
		t.Fatalf("expected index 0, got %d", cmd.NewIndex)
	}
}

func TestValidateReorderStaleTarget(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "task-1")

	// ep-b is not a sibling of task-1: same rejection as a removed target.
	_, err := ValidateDrop(m, bp, p, Intent{Kind: IntentReorderAbove, TargetID: "ep-b"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonStaleTarget {
		t.Fatalf("expected stale-target rejection, got %v", err)
	}

	_, err = ValidateDrop(m, bp, p, Intent{Kind: IntentReorderBelow, TargetID: "ghost"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonStaleTarget {
		t.Fatalf("expected stale-target rejection, got %v", err)
	}
}

func TestValidateReorderAmongRoots(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "season-2")

	cmd, err := ValidateDrop(m, bp, p, Intent{Kind: IntentReorderAbove, TargetID: "season-1"})
	if err != nil {
		t.Fatalf("root reorder: %v", err)
	}
	if cmd.Type != model.CommandReorderNode || cmd.NewIndex != 0 {
		t.Fatalf("root reorder: got %+v", cmd)
	}
}

func TestValidateDraggedNodeVanished(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	// The dragged node itself was deleted mid-gesture.
	live := tree.Build([]model.Node{
		{ID: "season-1", Type: "season", Children: nil},
	})
	_, err := ValidateDrop(live, bp, p, Intent{Kind: IntentMoveInto, TargetID: "season-1"})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonStaleTarget {
		t.Fatalf("expected stale-target rejection, got %v", err)
	}
}

func TestValidatePassesThroughRejectedIntent(t *testing.T) {
	bp := testBlueprint(t)
	m := testModel()
	p := capture(t, m, "ep-b")

	_, err := ValidateDrop(m, bp, p, Intent{Kind: IntentRejected, Reason: ReasonSelfDrop})
	if reason, ok := RejectionReason(err); !ok || reason != ReasonSelfDrop {
		t.Fatalf("expected self-drop passthrough, got %v", err)
	}
}
