// Package mutate is the command executor: the single authority that applies
// structural mutations to the workspace state. The edit engine (internal/dnd)
// only produces commands; nothing mutates the tree until one lands here.
package mutate

import (
	"strings"
	"time"

	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/store"
)

// Apply executes one command against db in place. The caller persists the db
// and appends the event log entry after a nil return.
//
// Apply re-checks the hard invariants (existence, acyclicity, child-type
// compatibility) even though the edit engine validated them: the engine's
// model may have been stale, and the executor is the last line of defense for
// tree well-formedness.
func Apply(db *store.DB, bp *schema.Blueprint, cmd model.Command, now time.Time) error {
	switch cmd.Type {
	case model.CommandMoveNode:
		return MoveNode(db, bp, cmd.NodeID, cmd.NewParentID, now)
	case model.CommandReorderNode:
		return ReorderNode(db, cmd.NodeID, cmd.NewIndex, now)
	case model.CommandCreateNode:
		_, err := CreateNode(db, bp, cmd.NodeType, cmd.Name, cmd.NewParentID, now)
		return err
	case model.CommandRenameNode:
		return RenameNode(db, cmd.NodeID, cmd.Name, now)
	case model.CommandDeleteNode:
		return DeleteNode(db, cmd.NodeID)
	default:
		return constraintf("unknown command type %q", cmd.Type)
	}
}

// MoveNode reparents a node: removed from its old parent's children, appended
// to the END of the new parent's children.
func MoveNode(db *store.DB, bp *schema.Blueprint, nodeID, newParentID string, now time.Time) error {
	nodeID = strings.TrimSpace(nodeID)
	newParentID = strings.TrimSpace(newParentID)
	if nodeID == "" || newParentID == "" {
		return constraintf("move: missing node or parent id")
	}
	if nodeID == newParentID {
		return constraintf("move: node %s cannot be its own parent", nodeID)
	}

	n, ok := db.FindNode(nodeID)
	if !ok {
		return NotFoundError{Kind: "node", ID: nodeID}
	}
	parent, ok := db.FindNode(newParentID)
	if !ok {
		return NotFoundError{Kind: "node", ID: newParentID}
	}
	if isInSubtree(db, nodeID, newParentID) {
		return constraintf("move: %s is inside the subtree of %s", newParentID, nodeID)
	}
	if !bp.AcceptsChildType(parent.Type, n.Type) {
		return constraintf("move: type %s not allowed under %s", n.Type, parent.Type)
	}
	if n.ParentID != nil && *n.ParentID == newParentID {
		return nil // already there
	}

	detachFromParent(db, n)
	parent.Children = append(parent.Children, n.ID)
	parentID := parent.ID
	n.ParentID = &parentID
	n.UpdatedAt = now
	parent.UpdatedAt = now
	return nil
}

// ReorderNode moves a node to newIndex among its siblings. The index is
// interpreted against the sibling list with the node already removed, exactly
// as the edit validator computes it.
func ReorderNode(db *store.DB, nodeID string, newIndex int, now time.Time) error {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return NotFoundError{Kind: "node", ID: nodeID}
	}
	if newIndex < 0 {
		return constraintf("reorder: negative index %d", newIndex)
	}

	if n.ParentID == nil {
		return reorderRoot(db, n, newIndex, now)
	}
	parent, ok := db.FindNode(*n.ParentID)
	if !ok {
		return NotFoundError{Kind: "node", ID: *n.ParentID}
	}

	rest := removeID(parent.Children, n.ID)
	if newIndex > len(rest) {
		return constraintf("reorder: index %d out of range (have %d siblings)", newIndex, len(rest))
	}
	parent.Children = insertID(rest, n.ID, newIndex)
	n.UpdatedAt = now
	parent.UpdatedAt = now
	return nil
}

// reorderRoot reorders among parentless nodes. Root order is the relative
// order of root entries in db.Nodes; non-root entries keep their slots.
func reorderRoot(db *store.DB, n *model.Node, newIndex int, now time.Time) error {
	var rootIDs []string
	for i := range db.Nodes {
		if db.Nodes[i].ParentID == nil && db.Nodes[i].ID != n.ID {
			rootIDs = append(rootIDs, db.Nodes[i].ID)
		}
	}
	if newIndex > len(rootIDs) {
		return constraintf("reorder: index %d out of range (have %d roots)", newIndex, len(rootIDs))
	}
	order := insertID(rootIDs, n.ID, newIndex)

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	// Rewrite only the root slots, in the new order.
	var slots []int
	for i := range db.Nodes {
		if db.Nodes[i].ParentID == nil {
			slots = append(slots, i)
		}
	}
	roots := make([]model.Node, len(slots))
	for _, i := range slots {
		roots[pos[db.Nodes[i].ID]] = db.Nodes[i]
	}
	for k, i := range slots {
		db.Nodes[i] = roots[k]
	}
	if moved, ok := db.FindNode(n.ID); ok {
		moved.UpdatedAt = now
	}
	return nil
}

// CreateNode adds a node under parentID (empty = new root at the end).
func CreateNode(db *store.DB, bp *schema.Blueprint, nodeType, name, parentID string, now time.Time) (*model.Node, error) {
	nodeType = strings.TrimSpace(nodeType)
	name = strings.TrimSpace(name)
	parentID = strings.TrimSpace(parentID)
	if nodeType == "" {
		return nil, constraintf("create: missing node type")
	}
	if name == "" {
		name = "New node"
	}

	var parent *model.Node
	if parentID != "" {
		p, ok := db.FindNode(parentID)
		if !ok {
			return nil, NotFoundError{Kind: "node", ID: parentID}
		}
		if !bp.AcceptsChildType(p.Type, nodeType) {
			return nil, constraintf("create: type %s not allowed under %s", nodeType, p.Type)
		}
		parent = p
	}

	id, err := store.NewNodeID(db)
	if err != nil {
		return nil, err
	}
	n := model.Node{ID: id, Type: nodeType, Name: name, CreatedAt: now, UpdatedAt: now}
	if parent != nil {
		pid := parent.ID
		n.ParentID = &pid
	}
	db.Nodes = append(db.Nodes, n)
	if parent != nil {
		// FindNode again: the append above may have moved the backing array.
		p, _ := db.FindNode(parent.ID)
		p.Children = append(p.Children, id)
		p.UpdatedAt = now
	}
	created, _ := db.FindNode(id)
	return created, nil
}

func RenameNode(db *store.DB, nodeID, name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return constraintf("rename: empty name")
	}
	n, ok := db.FindNode(strings.TrimSpace(nodeID))
	if !ok {
		return NotFoundError{Kind: "node", ID: nodeID}
	}
	if n.Name == name {
		return nil
	}
	n.Name = name
	n.UpdatedAt = now
	return nil
}

// DeleteNode removes a node and its whole subtree.
func DeleteNode(db *store.DB, nodeID string) error {
	nodeID = strings.TrimSpace(nodeID)
	n, ok := db.FindNode(nodeID)
	if !ok {
		return NotFoundError{Kind: "node", ID: nodeID}
	}
	detachFromParent(db, n)

	doomed := map[string]bool{nodeID: true}
	collectSubtree(db, nodeID, doomed)

	kept := db.Nodes[:0]
	for _, x := range db.Nodes {
		if !doomed[x.ID] {
			kept = append(kept, x)
		}
	}
	db.Nodes = kept
	return nil
}

func collectSubtree(db *store.DB, id string, out map[string]bool) {
	n, ok := db.FindNode(id)
	if !ok {
		return
	}
	for _, childID := range n.Children {
		if out[childID] {
			continue
		}
		out[childID] = true
		collectSubtree(db, childID, out)
	}
}

// isInSubtree reports whether candidate lies at or below rootID.
func isInSubtree(db *store.DB, rootID, candidate string) bool {
	if rootID == candidate {
		return true
	}
	seen := map[string]bool{}
	cur := candidate
	for {
		n, ok := db.FindNode(cur)
		if !ok || n.ParentID == nil {
			return false
		}
		if *n.ParentID == rootID {
			return true
		}
		if seen[cur] {
			return false // malformed cycle; don't loop forever
		}
		seen[cur] = true
		cur = *n.ParentID
	}
}

func detachFromParent(db *store.DB, n *model.Node) {
	if n.ParentID == nil {
		return
	}
	if old, ok := db.FindNode(*n.ParentID); ok {
		old.Children = removeID(old.Children, n.ID)
	}
	n.ParentID = nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func insertID(ids []string, id string, at int) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, id)
	out = append(out, ids[at:]...)
	return out
}
