package dnd

import (
	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

// RejectionError carries a drop rejection reason as data. It is the only
// error kind ValidateDrop produces for invalid drops; callers may surface the
// reason or ignore it.
type RejectionError struct {
	Reason string
}

func (e RejectionError) Error() string { return "drop rejected: " + e.Reason }

// Reject builds a RejectionError for a reason string.
func Reject(reason string) error { return RejectionError{Reason: reason} }

// RejectionReason extracts the reason from a RejectionError; ok is false for
// other errors.
func RejectionReason(err error) (string, bool) {
	if re, ok := err.(RejectionError); ok {
		return re.Reason, true
	}
	return "", false
}

// ValidateDrop re-validates an intent against the CURRENT model at drop time
// and produces the mutation command for the external executor. The payload
// was captured at gesture start, so the tree may have changed underneath it;
// every applicable check runs again here against live state.
//
// All outcomes are terminal: the engine never retries or queues.
func ValidateDrop(m *tree.Model, bp *schema.Blueprint, p Payload, intent Intent) (model.Command, error) {
	if _, ok := m.Node(p.NodeID); !ok {
		// The dragged node itself vanished mid-gesture.
		return model.Command{}, Reject(ReasonStaleTarget)
	}

	switch intent.Kind {
	case IntentMoveInto:
		return validateMoveInto(m, bp, p, intent.TargetID)
	case IntentReorderAbove:
		return validateReorder(m, p, intent.TargetID, false)
	case IntentReorderBelow:
		return validateReorder(m, p, intent.TargetID, true)
	case IntentRejected:
		return model.Command{}, Reject(intent.Reason)
	default:
		return model.Command{}, Reject(ReasonNoActiveDrag)
	}
}

func validateMoveInto(m *tree.Model, bp *schema.Blueprint, p Payload, newParentID string) (model.Command, error) {
	if newParentID == p.NodeID {
		return model.Command{}, Reject(ReasonSelfDrop)
	}
	parent, ok := m.Node(newParentID)
	if !ok {
		return model.Command{}, Reject(ReasonStaleTarget)
	}
	// The target may have been moved into the dragged subtree mid-gesture;
	// recompute from live state, not the drag-start snapshot.
	if _, inSubtree := m.Descendants(p.NodeID)[newParentID]; inSubtree {
		return model.Command{}, Reject(ReasonDescendant)
	}
	if cur, hasParent := m.ParentOf(p.NodeID); hasParent && cur == newParentID {
		return model.Command{}, Reject(ReasonNoOp)
	}
	if !bp.AcceptsChildType(parent.Type, p.NodeType) {
		return model.Command{}, Reject(ReasonIncompatibleType)
	}
	return model.Command{
		Type:        model.CommandMoveNode,
		NodeID:      p.NodeID,
		NewParentID: newParentID,
	}, nil
}

func validateReorder(m *tree.Model, p Payload, targetSiblingID string, below bool) (model.Command, error) {
	if targetSiblingID == p.NodeID {
		return model.Command{}, Reject(ReasonSelfDrop)
	}

	// Sibling set from the live model: the node's current parent's children,
	// or the root list for parentless nodes.
	var siblingIDs []string
	if parentID, hasParent := m.ParentOf(p.NodeID); hasParent {
		siblingIDs = m.Children(parentID)
	} else {
		siblingIDs = m.Roots()
	}

	// Index against the list with the dragged node already excluded, so no
	// off-by-one correction is needed regardless of its original position.
	idx := -1
	pos := 0
	for _, id := range siblingIDs {
		if id == p.NodeID {
			continue
		}
		if id == targetSiblingID {
			idx = pos
			break
		}
		pos++
	}
	if idx < 0 {
		// Target removed, reparented, or itself dragged away mid-gesture.
		return model.Command{}, Reject(ReasonStaleTarget)
	}
	if below {
		idx++
	}
	return model.Command{
		Type:     model.CommandReorderNode,
		NodeID:   p.NodeID,
		NewIndex: idx,
	}, nil
}
