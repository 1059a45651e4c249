package dnd

import (
	"encoding/json"
	"strings"

	"callsheet-cli/internal/tree"
)

// Payload is an immutable snapshot of a dragged node, captured once at
// gesture start. Descendants freezes the forbidden drop-target set for the
// whole gesture; it is never updated mid-drag (the validator re-checks
// against the live model at drop time instead).
type Payload struct {
	NodeID      string
	NodeType    string
	ParentID    *string
	Descendants map[string]struct{}
}

// Capture snapshots nodeID and its descendant set from the model. ok is false
// when the node does not exist.
func Capture(m *tree.Model, nodeID string) (Payload, bool) {
	n, ok := m.Node(nodeID)
	if !ok {
		return Payload{}, false
	}
	return Payload{
		NodeID:      n.ID,
		NodeType:    n.Type,
		ParentID:    n.ParentID,
		Descendants: m.Descendants(n.ID),
	}, true
}

// IsDescendant reports whether id was below the dragged node at capture time.
func (p Payload) IsDescendant(id string) bool {
	_, ok := p.Descendants[id]
	return ok
}

// wirePayload is the drag-data channel shape. The parent id key is snake_case
// for compatibility with the platform drag format.
type wirePayload struct {
	NodeID      string   `json:"nodeId"`
	NodeType    string   `json:"nodeType"`
	ParentID    *string  `json:"parent_id"`
	Descendants []string `json:"descendants"`
}

// EncodePayload serializes a payload for a platform drag-data channel.
func EncodePayload(p Payload) []byte {
	w := wirePayload{
		NodeID:      p.NodeID,
		NodeType:    p.NodeType,
		ParentID:    p.ParentID,
		Descendants: make([]string, 0, len(p.Descendants)),
	}
	for id := range p.Descendants {
		w.Descendants = append(w.Descendants, id)
	}
	b, err := json.Marshal(w)
	if err != nil {
		// wirePayload contains only marshalable fields.
		return nil
	}
	return b
}

// DecodePayload parses a drag-data payload. A missing, empty, or unparsable
// payload means "no active drag": ok is false and no error is surfaced.
func DecodePayload(b []byte) (Payload, bool) {
	if len(b) == 0 {
		return Payload{}, false
	}
	var w wirePayload
	if err := json.Unmarshal(b, &w); err != nil {
		return Payload{}, false
	}
	if strings.TrimSpace(w.NodeID) == "" {
		return Payload{}, false
	}
	p := Payload{
		NodeID:      w.NodeID,
		NodeType:    w.NodeType,
		ParentID:    w.ParentID,
		Descendants: make(map[string]struct{}, len(w.Descendants)),
	}
	for _, id := range w.Descendants {
		p.Descendants[id] = struct{}{}
	}
	return p, true
}

// sameParent compares two optional parent ids by value.
func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
