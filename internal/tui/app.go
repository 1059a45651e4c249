package tui

import (
	"fmt"
	"strings"
	"time"

	"callsheet-cli/internal/dnd"
	"callsheet-cli/internal/expand"
	"callsheet-cli/internal/model"
	"callsheet-cli/internal/mutate"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/store"
	"callsheet-cli/internal/tree"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalRename
	modalCreate
	modalConfirmDelete
	modalHelp
)

type appModel struct {
	store     store.Store
	db        *store.DB
	blueprint *schema.Blueprint
	model     *tree.Model
	expanded  *expand.State
	drag      *dnd.Controller

	rows   []outlineRow
	cursor int
	scroll int

	width  int
	height int
	// We treat the very first WindowSizeMsg as "initial sizing" rather than a
	// user-driven resize.
	seenWindowSize bool

	grabbing bool
	// mouseDragRow is the row index a left press landed on; -1 when idle.
	mouseDragRow int

	modal      modalKind
	modalForID string
	createType string
	input      textinput.Model

	// Per-session counters gating expand-all/collapse-all, restored from the
	// persisted UI state so repeats keep triggering across restarts.
	expandAllSignal   int
	collapseAllSignal int

	statusText string

	watch *workspaceWatcher
	// lastSaveAt suppresses the watcher echo of our own writes.
	lastSaveAt time.Time
}

func newAppModel(s store.Store, db *store.DB) *appModel {
	bp, _ := s.LoadBlueprint()
	ui, _ := s.LoadUIState()

	m := &appModel{
		store:             s,
		db:                db,
		blueprint:         bp,
		expanded:          expand.FromMap(ui.Expanded),
		expandAllSignal:   ui.ExpandAllSignal,
		collapseAllSignal: ui.CollapseAllSignal,
		mouseDragRow:      -1,
	}
	m.model = tree.Build(db.Snapshot())
	m.drag = dnd.NewController(m.model, bp)
	m.drag.Subscribe(m.onGesture)

	m.input = textinput.New()
	m.input.CharLimit = 200

	m.rebuildRows()
	if ui.SelectedNodeID != "" {
		m.moveCursorTo(ui.SelectedNodeID)
	}
	return m
}

func (m *appModel) Init() tea.Cmd {
	w, err := watchWorkspace(m.store.Dir)
	if err == nil {
		m.watch = w
		return waitForChange(w)
	}
	m.statusText = "watch disabled: " + err.Error()
	return nil
}

// onGesture turns controller notifications into the status line.
func (m *appModel) onGesture(ev dnd.GestureEvent) {
	switch ev.Kind {
	case dnd.GestureStarted:
		m.statusText = "grabbed " + ev.Payload.NodeID
	case dnd.GestureCancelled:
		m.statusText = "drop cancelled"
	case dnd.GestureRejected:
		m.statusText = "drop rejected: " + ev.Reason
	case dnd.GestureDropped:
		m.statusText = "moved " + ev.Payload.NodeID
	}
}

func (m *appModel) rebuildRows() {
	m.rows = flattenRows(m.model, m.blueprint, m.expanded)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.skipHeader(1)
	m.clampScroll()
}

func (m *appModel) rebuildModel() {
	m.model = tree.Build(m.db.Snapshot())
	m.drag.SetModel(m.model)
	m.rebuildRows()
}

func (m *appModel) currentRow() (outlineRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return outlineRow{}, false
	}
	r := m.rows[m.cursor]
	if r.header {
		return outlineRow{}, false
	}
	return r, true
}

func (m *appModel) moveCursorTo(nodeID string) {
	for i, r := range m.rows {
		if !r.header && r.node.ID == nodeID {
			m.cursor = i
			m.clampScroll()
			return
		}
	}
}

// moveCursor steps the cursor by delta, skipping header rows.
func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	i := m.cursor + delta
	for i >= 0 && i < len(m.rows) && m.rows[i].header {
		i += sign(delta)
	}
	if i >= 0 && i < len(m.rows) {
		m.cursor = i
	}
	m.clampScroll()
}

// skipHeader nudges the cursor off a header row in the given direction.
func (m *appModel) skipHeader(dir int) {
	for m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].header {
		m.cursor += dir
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *appModel) viewportHeight() int {
	h := m.height - 3 // title + status + help hint
	if h < 1 {
		h = 1
	}
	return h
}

func (m *appModel) clampScroll() {
	vh := m.viewportHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+vh {
		m.scroll = m.cursor - vh + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.clampScroll()
		return m, nil

	case externalChangeMsg:
		// The workspace changed under us (another process, or a sync). The
		// in-flight drag payload survives; drop-time validation re-checks
		// against the reloaded model.
		if time.Since(m.lastSaveAt) < time.Second {
			// Echo of our own save.
			if m.watch != nil {
				return m, waitForChange(m.watch)
			}
			return m, nil
		}
		if db, err := m.store.Load(); err == nil {
			m.db = db
			m.rebuildModel()
			m.statusText = "workspace reloaded"
		}
		if m.watch != nil {
			return m, waitForChange(m.watch)
		}
		return m, nil

	case watchErrMsg:
		m.statusText = "watch error: " + msg.err.Error()
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.grabbing {
			return m.updateGrab(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.persistUIState()
		if m.watch != nil {
			m.watch.close()
		}
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.skipHeader(-1)
		m.clampScroll()
	case "home":
		m.cursor = 0
		m.skipHeader(1)
		m.clampScroll()

	case "tab", " ":
		if r, ok := m.currentRow(); ok && r.hasChildren {
			m.expanded.Toggle(r.node.ID)
			m.rebuildRows()
			m.persistUIState()
		}
	case "E":
		m.expandAllSignal++
		if m.expanded.ExpandAll(visibleNodeIDs(m.model), m.expandAllSignal) {
			m.rebuildRows()
			m.persistUIState()
		}
	case "C":
		m.collapseAllSignal++
		if m.expanded.CollapseAll(m.collapseAllSignal) {
			m.rebuildRows()
			m.persistUIState()
		}

	case "g":
		if r, ok := m.currentRow(); ok {
			if m.drag.Begin(r.node.ID) {
				m.grabbing = true
			}
		}

	case "r":
		if r, ok := m.currentRow(); ok {
			m.modal = modalRename
			m.modalForID = r.node.ID
			m.input.SetValue(r.node.Name)
			m.input.Focus()
		}
	case "a":
		if r, ok := m.currentRow(); ok {
			m.modal = modalCreate
			m.modalForID = r.node.ID
			m.createType = defaultChildType(m.blueprint, r.node.Type)
			m.input.SetValue("")
			m.input.Placeholder = "name for new " + m.createType
			m.input.Focus()
		}
	case "D":
		if r, ok := m.currentRow(); ok {
			m.modal = modalConfirmDelete
			m.modalForID = r.node.ID
		}

	case "?":
		m.modal = modalHelp
	}
	return m, nil
}

// updateGrab handles keys while a drag gesture is active. The cursor is the
// hover target; the drop keys pick the zone.
func (m *appModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "esc", "q":
		m.drag.Cancel()
		m.grabbing = false
	case "enter", "i":
		m.dropOnCursor(zoneRatioInside)
	case "b", "K":
		m.dropOnCursor(zoneRatioAbove)
	case "n", "J":
		m.dropOnCursor(zoneRatioBelow)
	}
	return m, nil
}

// Synthetic pointer ratios for keyboard drops: the keyboard picks the zone
// directly, so we feed the resolver a point squarely inside it.
const (
	zoneRatioAbove  = 0.1
	zoneRatioInside = 0.5
	zoneRatioBelow  = 0.9
)

func (m *appModel) dropOnCursor(ratio float64) {
	r, ok := m.currentRow()
	if !ok {
		m.drag.Cancel()
		m.grabbing = false
		return
	}
	m.dropOnRow(r, ratio)
}

func (m *appModel) dropOnRow(r outlineRow, ratio float64) {
	m.grabbing = false
	target := dnd.RowTarget{ID: r.node.ID, Type: r.node.Type, ParentID: r.node.ParentID}
	cmd, err := m.drag.Drop(target, ratio, 0, 1)
	if err != nil {
		return // status line already set by onGesture
	}
	m.applyCommand(cmd)
	m.moveCursorTo(cmd.NodeID)
}

// applyCommand runs one mutation through the executor and persists it.
func (m *appModel) applyCommand(cmd model.Command) {
	if err := mutate.Apply(m.db, m.blueprint, cmd, time.Now().UTC()); err != nil {
		m.statusText = err.Error()
		return
	}
	if err := m.store.Save(m.db); err != nil {
		m.statusText = "save failed: " + err.Error()
		return
	}
	m.lastSaveAt = time.Now()
	if _, err := m.store.AppendEvent(eventTypeFor(cmd), cmd.NodeID, cmd); err != nil {
		m.statusText = "event log: " + err.Error()
	}
	m.rebuildModel()
}

func eventTypeFor(cmd model.Command) string {
	switch cmd.Type {
	case model.CommandMoveNode:
		return "node.moved"
	case model.CommandReorderNode:
		return "node.reordered"
	case model.CommandCreateNode:
		return "node.created"
	case model.CommandRenameNode:
		return "node.renamed"
	case model.CommandDeleteNode:
		return "node.deleted"
	default:
		return "node.changed"
	}
}

func (m *appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.modal = modalNone
		}
		return m, nil

	case modalConfirmDelete:
		switch msg.String() {
		case "y":
			m.modal = modalNone
			m.applyCommand(model.Command{Type: model.CommandDeleteNode, NodeID: m.modalForID})
		case "n", "esc":
			m.modal = modalNone
		}
		return m, nil

	case modalRename, modalCreate:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.input.Blur()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			kind := m.modal
			m.modal = modalNone
			m.input.Blur()
			if value == "" {
				return m, nil
			}
			if kind == modalRename {
				m.applyCommand(model.Command{Type: model.CommandRenameNode, NodeID: m.modalForID, Name: value})
			} else {
				m.applyCommand(model.Command{
					Type:        model.CommandCreateNode,
					NodeType:    m.createType,
					Name:        value,
					NewParentID: m.modalForID,
				})
				if !m.expanded.IsExpanded(m.modalForID) {
					m.expanded.Toggle(m.modalForID)
				}
				m.rebuildRows()
				m.persistUIState()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll -= 3
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll += 3
		if max := len(m.rows) - 1; m.scroll > max {
			m.scroll = max
		}
		return m, nil
	}

	idx, ok := m.rowAtY(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return m, nil
		}
		m.cursor = idx
		m.skipHeader(1)
		m.mouseDragRow = idx

	case tea.MouseActionMotion:
		if m.mouseDragRow < 0 || !ok {
			return m, nil
		}
		// First motion away from the press row starts the gesture.
		if !m.drag.Dragging() && idx != m.mouseDragRow {
			if r := m.rows[m.mouseDragRow]; !r.header {
				m.grabbing = m.drag.Begin(r.node.ID)
			}
		}
		if m.drag.Dragging() {
			m.cursor = idx
			m.clampScroll()
		}

	case tea.MouseActionRelease:
		pressRow := m.mouseDragRow
		m.mouseDragRow = -1
		if !m.drag.Dragging() {
			_ = pressRow // plain click: selection already moved on press
			return m, nil
		}
		if !ok || m.rows[idx].header {
			m.drag.Cancel()
			m.grabbing = false
			return m, nil
		}
		// Cell-grid pointers cannot subdivide a one-cell-high row, so mouse
		// drops always resolve the inside zone; keyboard drops cover the
		// reorder zones.
		m.dropOnRow(m.rows[idx], zoneRatioInside)
	}
	return m, nil
}

// rowAtY maps a terminal row to an outline row index.
func (m *appModel) rowAtY(y int) (int, bool) {
	idx := m.scroll + y - 1 // one title line above the viewport
	if idx < 0 || idx >= len(m.rows) {
		return 0, false
	}
	return idx, true
}

func (m *appModel) persistUIState() {
	ui := &store.UIState{
		Version:           1,
		Expanded:          m.expanded.Snapshot(),
		ExpandAllSignal:   m.expandAllSignal,
		CollapseAllSignal: m.collapseAllSignal,
	}
	if r, ok := m.currentRow(); ok {
		ui.SelectedNodeID = r.node.ID
	}
	_ = m.store.SaveUIState(ui)
}

func defaultChildType(bp *schema.Blueprint, parentType string) string {
	for _, a := range bp.AllowedChildren(parentType) {
		if !schema.IsWildcard(a) {
			return a
		}
	}
	return "task"
}

func (m *appModel) View() string {
	if m.modal == modalHelp {
		return renderHelp(m.width)
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("callsheet")
	b.WriteString(title)
	b.WriteString(styleMuted().Render("  " + m.store.Dir))
	b.WriteString("\n")

	vh := m.viewportHeight()
	end := m.scroll + vh
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	for i := end - m.scroll; i < vh; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	if m.modal == modalRename || m.modal == modalCreate {
		b.WriteString(m.input.View())
	} else if m.modal == modalConfirmDelete {
		b.WriteString("delete " + m.modalForID + " and its subtree? (y/n)")
	} else {
		b.WriteString(styleMuted().Render("j/k move · tab toggle · g grab · r rename · a add · D delete · ? help · q quit"))
	}
	return b.String()
}

func (m *appModel) renderRow(i int) string {
	r := m.rows[i]
	indent := strings.Repeat("  ", r.depth)

	if r.header {
		return indent + styleTypeHeader().Render(r.headerLabel)
	}

	twisty := "  "
	if r.hasChildren {
		if r.expanded {
			twisty = "▾ "
		} else {
			twisty = "▸ "
		}
	}
	line := fmt.Sprintf("%s%s%s", indent, twisty, r.node.Name)
	line += styleMuted().Render("  " + r.node.Type)
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}

	if p, active := m.drag.Active(); active && p.NodeID == r.node.ID {
		return styleGrabbed().Render(line)
	}
	if i == m.cursor {
		if m.grabbing {
			return m.renderHoverRow(r, line)
		}
		return styleSelected().Render(line)
	}
	return line
}

// renderHoverRow colors the hovered row by the live intent verdict while a
// gesture is in flight.
func (m *appModel) renderHoverRow(r outlineRow, line string) string {
	target := dnd.RowTarget{ID: r.node.ID, Type: r.node.Type, ParentID: r.node.ParentID}
	intent := m.drag.Over(target, zoneRatioInside, 0, 1)
	if intent.Kind == dnd.IntentRejected {
		return lipgloss.NewStyle().Foreground(colorDropBadFg).Render(line + "  ✗ " + intent.Reason)
	}
	return lipgloss.NewStyle().Foreground(colorDropOkFg).Render(line + "  ✓ " + string(intent.Kind))
}

func (m *appModel) renderStatusLine() string {
	left := m.statusText
	if m.grabbing {
		if p, ok := m.drag.Active(); ok {
			left = "grab: " + p.NodeID + " · enter/i into · b above · n below · esc cancel"
		}
	}
	if left == "" {
		left = fmt.Sprintf("%d nodes", m.model.Len())
	}
	return styleMuted().Render(left)
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
