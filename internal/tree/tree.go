package tree

import (
	"fmt"
	"strings"

	"callsheet-cli/internal/model"
)

// Model is a read-only view over a flat node snapshot. It answers structural
// queries (children, parent, descendants) and nothing else: all edits happen
// through commands applied by internal/mutate, after which the caller rebuilds
// the model from the authoritative snapshot.
type Model struct {
	nodes map[string]model.Node
	roots []string
}

// Build indexes a snapshot. Root order follows snapshot order. Build does not
// validate the snapshot; use CheckIntegrity for that.
func Build(snapshot []model.Node) *Model {
	m := &Model{nodes: make(map[string]model.Node, len(snapshot))}
	for _, n := range snapshot {
		m.nodes[n.ID] = n
		if n.ParentID == nil {
			m.roots = append(m.roots, n.ID)
		}
	}
	return m
}

func (m *Model) Len() int { return len(m.nodes) }

func (m *Model) Node(id string) (model.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Roots returns the ids of all parentless nodes in snapshot order.
func (m *Model) Roots() []string { return m.roots }

// Children returns the ordered child ids of a node (empty for leaves and
// unknown ids).
func (m *Model) Children(id string) []string {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	return n.Children
}

// ParentOf returns the parent id of a node; ok is false for roots and unknown
// ids.
func (m *Model) ParentOf(id string) (string, bool) {
	n, ok := m.nodes[id]
	if !ok || n.ParentID == nil {
		return "", false
	}
	return *n.ParentID, true
}

// Descendants collects every node reachable below id (id itself excluded) in
// one depth-first traversal. Used at drag start to freeze the forbidden
// drop-target set for the gesture.
func (m *Model) Descendants(id string) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(string)
	walk = func(cur string) {
		for _, child := range m.Children(cur) {
			if _, seen := out[child]; seen {
				// Defensive: a malformed snapshot could loop; stop here.
				continue
			}
			out[child] = struct{}{}
			walk(child)
		}
	}
	walk(id)
	return out
}

// Problem is one integrity finding. Kind is a stable machine-readable tag;
// Detail is for humans.
type Problem struct {
	Kind   string `json:"kind"`
	NodeID string `json:"nodeId"`
	Detail string `json:"detail"`
}

// CheckIntegrity validates the structural invariants of a snapshot:
// unique ids, children/parentId agreement, single-parent, no dangling
// references, acyclicity. An empty result means the snapshot is well formed.
func CheckIntegrity(snapshot []model.Node) []Problem {
	var problems []Problem
	add := func(kind, nodeID, format string, args ...any) {
		problems = append(problems, Problem{Kind: kind, NodeID: nodeID, Detail: fmt.Sprintf(format, args...)})
	}

	byID := make(map[string]model.Node, len(snapshot))
	for _, n := range snapshot {
		if strings.TrimSpace(n.ID) == "" {
			add("empty-id", "", "node with empty id (name %q)", n.Name)
			continue
		}
		if _, dup := byID[n.ID]; dup {
			add("duplicate-id", n.ID, "id %s appears more than once", n.ID)
			continue
		}
		byID[n.ID] = n
	}

	// Single-parent: no id may appear in two children lists (or twice in one).
	claimedBy := map[string]string{}
	for _, n := range snapshot {
		for _, childID := range n.Children {
			child, ok := byID[childID]
			if !ok {
				add("dangling-child", n.ID, "children of %s reference missing node %s", n.ID, childID)
				continue
			}
			if prev, claimed := claimedBy[childID]; claimed {
				add("multiple-parents", childID, "node %s is listed under both %s and %s", childID, prev, n.ID)
				continue
			}
			claimedBy[childID] = n.ID
			if child.ParentID == nil || *child.ParentID != n.ID {
				add("parent-mismatch", childID, "node %s is a child of %s but its parentId disagrees", childID, n.ID)
			}
		}
	}
	for _, n := range snapshot {
		if n.ParentID == nil {
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok {
			add("dangling-parent", n.ID, "node %s has missing parent %s", n.ID, *n.ParentID)
			continue
		}
		if !containsID(parent.Children, n.ID) {
			add("unlisted-child", n.ID, "node %s has parent %s but is not in its children", n.ID, parent.ID)
		}
	}

	// Acyclicity: follow parent links; a chain longer than the node count loops.
	for _, n := range snapshot {
		steps := 0
		cur := n
		for cur.ParentID != nil {
			next, ok := byID[*cur.ParentID]
			if !ok {
				break // already reported as dangling-parent
			}
			if next.ID == n.ID {
				add("cycle", n.ID, "node %s is its own ancestor", n.ID)
				break
			}
			steps++
			if steps > len(snapshot) {
				add("cycle", n.ID, "parent chain from %s does not terminate", n.ID)
				break
			}
			cur = next
		}
	}

	return problems
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
