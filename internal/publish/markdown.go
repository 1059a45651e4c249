// Package publish exports parts of the production tree as markdown files,
// for sharing outside the tool (call sheets, status docs, wikis).
package publish

import (
	"fmt"
	"strings"

	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

type RenderOptions struct {
	// ShowIDs appends node ids to every line.
	ShowIDs bool
	// MaxDepth limits how deep the export descends; 0 means unlimited.
	MaxDepth int
}

// RenderNodeMarkdown renders a node and its subtree: the node as a heading,
// children as nested bullet lists grouped by type.
func RenderNodeMarkdown(m *tree.Model, bp *schema.Blueprint, nodeID string, opt RenderOptions) (string, error) {
	n, ok := m.Node(nodeID)
	if !ok {
		return "", fmt.Errorf("node not found: %s", nodeID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Name)
	if opt.ShowIDs {
		fmt.Fprintf(&b, "`%s` · %s\n\n", n.ID, n.Type)
	}

	renderChildren(&b, m, bp, n.ID, 0, opt)
	return b.String(), nil
}

func renderChildren(b *strings.Builder, m *tree.Model, bp *schema.Blueprint, id string, depth int, opt RenderOptions) {
	if opt.MaxDepth > 0 && depth >= opt.MaxDepth {
		return
	}
	groups := tree.GroupedChildren(m, bp, id)
	withHeaders := depth == 0 && len(groups) > 1

	for _, g := range groups {
		if withHeaders {
			fmt.Fprintf(b, "## %s\n\n", groupHeading(bp, g.Type))
		}
		for _, c := range g.Items {
			indent := strings.Repeat("  ", depth)
			line := indent + "- " + c.Name
			if opt.ShowIDs {
				line += " (`" + c.ID + "`)"
			}
			b.WriteString(line + "\n")
			renderChildren(b, m, bp, c.ID, depth+1, opt)
		}
		if withHeaders {
			b.WriteString("\n")
		}
	}
}

func groupHeading(bp *schema.Blueprint, typeID string) string {
	if nt, ok := bp.TypeDef(typeID); ok && strings.TrimSpace(nt.Name) != "" {
		return nt.Name
	}
	return typeID
}
