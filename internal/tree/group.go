package tree

import (
	"strings"

	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
)

// TypeGroup is one display bucket: a node type and the children of that type
// in their original sibling order.
type TypeGroup struct {
	Type  string       `json:"type"`
	Items []model.Node `json:"items"`
}

// GroupChildren orders a node's children into type-labeled groups for display.
//
// Children are bucketed by case-insensitive type; each bucket keeps the exact
// sibling order of the input. Buckets are emitted in schema-declared order
// first (types with no matching children are skipped), then any leftover types
// (orphaned or legacy data the schema does not know) in order of first
// appearance. Nothing is ever re-sorted inside a bucket.
func GroupChildren(children []model.Node, allowed []string) []TypeGroup {
	buckets := map[string][]model.Node{}
	var firstSeen []string // type keys in order of first appearance
	label := map[string]string{}

	for _, c := range children {
		key := typeKey(c.Type)
		if _, ok := buckets[key]; !ok {
			firstSeen = append(firstSeen, key)
			label[key] = c.Type
		}
		buckets[key] = append(buckets[key], c)
	}

	var out []TypeGroup
	emitted := map[string]bool{}
	for _, a := range allowed {
		key := typeKey(a)
		if schema.IsWildcard(key) || emitted[key] {
			continue
		}
		if items, ok := buckets[key]; ok {
			out = append(out, TypeGroup{Type: a, Items: items})
			emitted[key] = true
		}
	}
	for _, key := range firstSeen {
		if emitted[key] {
			continue
		}
		out = append(out, TypeGroup{Type: label[key], Items: buckets[key]})
		emitted[key] = true
	}
	return out
}

// GroupedChildren resolves a node's children against the model and blueprint
// and groups them for display.
func GroupedChildren(m *Model, bp *schema.Blueprint, parentID string) []TypeGroup {
	parent, ok := m.Node(parentID)
	if !ok {
		return nil
	}
	var children []model.Node
	for _, id := range parent.Children {
		if c, ok := m.Node(id); ok {
			children = append(children, c)
		}
	}
	return GroupChildren(children, bp.AllowedChildren(parent.Type))
}

func typeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
