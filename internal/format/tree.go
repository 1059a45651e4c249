package format

import (
	"fmt"
	"io"
	"strings"

	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

// TreeOptions controls the text tree rendering.
type TreeOptions struct {
	// ShowIDs appends the node id after each name.
	ShowIDs bool
	// GroupByType inserts a type header line before each sibling type bucket,
	// in blueprint order.
	GroupByType bool
	// IsExpanded limits the walk to expanded nodes (roots always print). Nil
	// prints everything.
	IsExpanded func(id string) bool
}

// WriteTree renders the whole forest as indented text, two spaces per level.
func WriteTree(w io.Writer, m *tree.Model, bp *schema.Blueprint, opts TreeOptions) error {
	for _, rootID := range m.Roots() {
		if err := writeSubtree(w, m, bp, rootID, 0, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeSubtree(w io.Writer, m *tree.Model, bp *schema.Blueprint, id string, depth int, opts TreeOptions) error {
	n, ok := m.Node(id)
	if !ok {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s [%s]", indent, n.Name, n.Type)
	if opts.ShowIDs {
		line += " (" + n.ID + ")"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if opts.IsExpanded != nil && !opts.IsExpanded(id) {
		return nil
	}

	if !opts.GroupByType {
		for _, childID := range m.Children(id) {
			if err := writeSubtree(w, m, bp, childID, depth+1, opts); err != nil {
				return err
			}
		}
		return nil
	}

	for _, g := range tree.GroupedChildren(m, bp, id) {
		header := strings.Repeat("  ", depth+1) + typeHeader(bp, g.Type)
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, c := range g.Items {
			if err := writeSubtree(w, m, bp, c.ID, depth+2, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// typeHeader prefers the blueprint's display name over the raw type id.
func typeHeader(bp *schema.Blueprint, typeID string) string {
	if nt, ok := bp.TypeDef(typeID); ok && strings.TrimSpace(nt.Name) != "" {
		return nt.Name + ":"
	}
	return typeID + ":"
}
