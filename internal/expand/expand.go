// Package expand tracks which tree nodes are expanded in the outline views.
// The state is independent of structural edits: moving or reordering a node
// never touches it, and ids may linger after their nodes are gone (they are
// harmless and cleared by the next collapse-all).
package expand

// State maps node id -> expanded. Absent means collapsed (the default).
//
// The bulk operations are gated by caller-supplied signal counters so that a
// repeated "expand all" with an unchanged tree still re-triggers: the state
// compares counter values, never tree content.
type State struct {
	expanded map[string]bool

	lastExpandAllSignal   int
	lastCollapseAllSignal int
}

func NewState() *State {
	return &State{expanded: map[string]bool{}}
}

// FromMap restores persisted state. Only true entries are kept; a nil map is
// a valid empty state.
func FromMap(m map[string]bool) *State {
	s := NewState()
	for id, v := range m {
		if v {
			s.expanded[id] = true
		}
	}
	return s
}

// Snapshot returns a copy of the expanded set for persistence.
func (s *State) Snapshot() map[string]bool {
	out := make(map[string]bool, len(s.expanded))
	for id := range s.expanded {
		out[id] = true
	}
	return out
}

func (s *State) IsExpanded(id string) bool { return s.expanded[id] }

func (s *State) Len() int { return len(s.expanded) }

// Toggle flips exactly one node.
func (s *State) Toggle(id string) {
	if s.expanded[id] {
		delete(s.expanded, id)
		return
	}
	s.expanded[id] = true
}

// ExpandAll marks every id in ids as expanded. ids is a fresh traversal per
// call: nodes added to the tree later stay collapsed until the next call.
// The call is applied only when signal is greater than the last applied
// expand-all signal; it returns whether it was applied.
func (s *State) ExpandAll(ids []string, signal int) bool {
	if signal <= s.lastExpandAllSignal {
		return false
	}
	s.lastExpandAllSignal = signal
	for _, id := range ids {
		s.expanded[id] = true
	}
	return true
}

// CollapseAll clears the entire set, including ids that no longer exist in
// the tree. Gated by its own signal counter, like ExpandAll.
func (s *State) CollapseAll(signal int) bool {
	if signal <= s.lastCollapseAllSignal {
		return false
	}
	s.lastCollapseAllSignal = signal
	s.expanded = map[string]bool{}
	return true
}
