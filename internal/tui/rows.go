package tui

import (
	"callsheet-cli/internal/expand"
	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

// outlineRow is one rendered line of the outline: either a node or a type
// group header. Header rows carry no node and are skipped by cursor movement.
type outlineRow struct {
	node        model.Node
	depth       int
	hasChildren bool
	expanded    bool

	header      bool
	headerLabel string
}

func (r outlineRow) id() string {
	if r.header {
		return ""
	}
	return r.node.ID
}

// flattenRows walks the visible part of the forest in display order. Children
// of expanded nodes are emitted in type groups (blueprint order first); a
// header line is inserted only when the children actually span more than one
// type, so homogeneous levels stay compact.
func flattenRows(m *tree.Model, bp *schema.Blueprint, st *expand.State) []outlineRow {
	var out []outlineRow

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := m.Node(id)
		if !ok {
			return
		}
		expanded := st.IsExpanded(id)
		out = append(out, outlineRow{
			node:        n,
			depth:       depth,
			hasChildren: len(n.Children) > 0,
			expanded:    expanded,
		})
		if !expanded || len(n.Children) == 0 {
			return
		}

		groups := tree.GroupedChildren(m, bp, id)
		withHeaders := len(groups) > 1
		for _, g := range groups {
			if withHeaders {
				out = append(out, outlineRow{
					header:      true,
					headerLabel: headerLabel(bp, g.Type),
					depth:       depth + 1,
				})
			}
			for _, c := range g.Items {
				walk(c.ID, depth+1)
			}
		}
	}

	for _, rootID := range m.Roots() {
		walk(rootID, 0)
	}
	return out
}

func headerLabel(bp *schema.Blueprint, typeID string) string {
	if nt, ok := bp.TypeDef(typeID); ok && nt.Name != "" {
		return nt.Name
	}
	return typeID
}

// visibleNodeIDs lists the node ids currently on screen, for expand-all.
func visibleNodeIDs(m *tree.Model) []string {
	var out []string
	var walk func(id string)
	walk = func(id string) {
		out = append(out, id)
		for _, c := range m.Children(id) {
			walk(c)
		}
	}
	for _, rootID := range m.Roots() {
		walk(rootID)
	}
	return out
}
