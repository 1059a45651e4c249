package dnd

import "callsheet-cli/internal/schema"

// Rejection reasons. These are data, not errors: the caller decides whether
// to surface them.
const (
	ReasonSelfDrop         = "self-drop"
	ReasonDescendant       = "descendant"
	ReasonIncompatibleType = "incompatible-type"
	ReasonDifferentParent  = "different-parent"
	ReasonStaleTarget      = "stale-target"
	ReasonNoOp             = "no-op"
	ReasonNoActiveDrag     = "no-active-drag"
)

type IntentKind string

const (
	IntentMoveInto     IntentKind = "move-into"
	IntentReorderAbove IntentKind = "reorder-above"
	IntentReorderBelow IntentKind = "reorder-below"
	IntentRejected     IntentKind = "rejected"
)

// Intent is the resolved meaning of one pointer position over one target row.
// Created fresh on every pointer-over; never persisted.
//
// TargetID is the new parent for move-into and the reference sibling for the
// reorder kinds. Reason is set only for rejected.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	TargetID string     `json:"targetId,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

func rejected(reason string) Intent { return Intent{Kind: IntentRejected, Reason: reason} }

// RowTarget identifies the row under the pointer.
type RowTarget struct {
	ID       string
	Type     string
	ParentID *string
}

type zone int

const (
	zoneAbove zone = iota
	zoneInside
	zoneBelow
)

// Drop-zone thresholds as a fraction of row height. The boundary values
// themselves belong to the adjacent reorder zone, not "inside", so the
// resolved zone is stable at the exact threshold.
const (
	zoneAboveMax = 0.25
	zoneBelowMin = 0.75
)

func zoneForOffset(pointerY, rowTop, rowHeight float64) zone {
	if rowHeight <= 0 {
		return zoneInside
	}
	ratio := (pointerY - rowTop) / rowHeight
	switch {
	case ratio <= zoneAboveMax:
		return zoneAbove
	case ratio >= zoneBelowMin:
		return zoneBelow
	default:
		return zoneInside
	}
}

// ResolveIntent translates pointer geometry over a target row into an edit
// intent. Pure and allocation-light: it is called on every pointer-over event,
// many times per second during a gesture, and must stay side-effect-free.
//
// The inside zone prefers insert-as-child when the blueprint accepts the
// dragged type under the target. When it does not but the target is a sibling,
// the gesture still resolves to a reorder by the row's vertical midpoint
// rather than silently doing nothing.
func ResolveIntent(bp *schema.Blueprint, p Payload, target RowTarget, pointerY, rowTop, rowHeight float64) Intent {
	if p.NodeID == target.ID {
		return rejected(ReasonSelfDrop)
	}
	if p.IsDescendant(target.ID) {
		// Dropping a node into its own subtree would disconnect the tree.
		return rejected(ReasonDescendant)
	}

	z := zoneForOffset(pointerY, rowTop, rowHeight)
	if z == zoneInside {
		if bp.AcceptsChildType(target.Type, p.NodeType) {
			return Intent{Kind: IntentMoveInto, TargetID: target.ID}
		}
		if !sameParent(p.ParentID, target.ParentID) {
			return rejected(ReasonIncompatibleType)
		}
		// Same-parent fallback: split the row at its midpoint only.
		if pointerY < rowTop+rowHeight/2 {
			z = zoneAbove
		} else {
			z = zoneBelow
		}
	}

	// Reorder is sibling-scoped only.
	if !sameParent(p.ParentID, target.ParentID) {
		return rejected(ReasonDifferentParent)
	}
	if z == zoneAbove {
		return Intent{Kind: IntentReorderAbove, TargetID: target.ID}
	}
	return Intent{Kind: IntentReorderBelow, TargetID: target.ID}
}
