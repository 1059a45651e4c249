package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `
# callsheet

An outline of your production: phases, episodes, tasks, inventory.

## Moving around

| Key | Action |
| --- | ------ |
| j / k | move selection |
| tab / space | expand or collapse the selected node |
| E / C | expand all / collapse all |
| home / G | jump to top / bottom |

## Editing

| Key | Action |
| --- | ------ |
| g | grab the selected node (start a move) |
| enter / i | drop the grabbed node inside the hovered one |
| b / n | drop above / below the hovered sibling |
| esc | cancel the grab |
| r | rename |
| a | add a child node |
| D | delete the node and its subtree |

Drops are checked against the workspace blueprint: a node only nests where
its type is allowed, and reordering stays within the same parent. Rejected
drops say why in the status line and change nothing.

Press esc or q to close this help.
`

var (
	helpRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle
	// can trigger terminal capability queries that may block on some
	// terminals, so we pick the style ourselves and cache per width.
	helpRenderers = map[int]*glamour.TermRenderer{}
)

func renderHelp(width int) string {
	if width < 20 {
		width = 80
	}
	wrap := width - 2
	if wrap > 100 {
		wrap = 100
	}

	helpRendererMu.Lock()
	r := helpRenderers[wrap]
	helpRendererMu.Unlock()

	if r == nil {
		style := "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return strings.TrimSpace(helpMarkdown)
		}
		helpRendererMu.Lock()
		helpRenderers[wrap] = rr
		r = rr
		helpRendererMu.Unlock()
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return strings.TrimSpace(helpMarkdown)
	}
	return out
}
