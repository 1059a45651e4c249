package model

import "time"

// Node is a single entry in the production tree (a phase, episode, task,
// inventory category, asset, ...). Nodes form a forest: ParentID == nil means
// the node is a root. Children holds the ordered child ids; the parent/child
// relation is kept acyclic and single-parent by the store and checked by
// tree.CheckIntegrity.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	ParentID *string  `json:"parentId,omitempty"`
	Children []string `json:"children,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommandType string

const (
	CommandMoveNode    CommandType = "MoveNode"
	CommandReorderNode CommandType = "ReorderNode"
	CommandCreateNode  CommandType = "CreateNode"
	CommandRenameNode  CommandType = "RenameNode"
	CommandDeleteNode  CommandType = "DeleteNode"
)

// Command is a validated, ready-to-execute structural mutation. The edit
// engine produces at most one Command per drop and hands it to the executor
// (internal/mutate); it never applies the mutation itself.
//
// Field relevance by type:
//   - MoveNode:    NodeID, NewParentID (append to end of the new parent)
//   - ReorderNode: NodeID, NewIndex (index among siblings with the node removed)
//   - CreateNode:  NodeType, Name, NewParentID (empty = root)
//   - RenameNode:  NodeID, Name
//   - DeleteNode:  NodeID (removes the whole subtree)
type Command struct {
	Type CommandType `json:"type"`

	NodeID      string `json:"node_id,omitempty"`
	NewParentID string `json:"new_parent_id,omitempty"`
	NewIndex    int    `json:"new_index"`
	NodeType    string `json:"node_type,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Event is one applied-command record in the workspace event log.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload,omitempty"`
}
