package dnd

import (
	"callsheet-cli/internal/model"
	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

type GestureEventKind string

const (
	GestureStarted   GestureEventKind = "started"
	GestureCancelled GestureEventKind = "cancelled"
	GestureDropped   GestureEventKind = "dropped"
	GestureRejected  GestureEventKind = "drop-rejected"
)

// GestureEvent is the controller's typed notification. The presentation layer
// subscribes to these instead of having callbacks threaded through every
// recursion level of the row renderer.
type GestureEvent struct {
	Kind    GestureEventKind
	Payload Payload
	Command model.Command // set for GestureDropped
	Reason  string        // set for GestureRejected
}

// Controller owns the in-flight drag payload for one view. It is explicit
// state passed to callers (there is no package-level fallback payload) and
// it is not safe for concurrent use: the host UI runtime drives it from a
// single event loop.
//
// Lifecycle: Begin captures the payload; Over may run any number of times and
// never mutates; exactly one of Drop or Cancel ends the gesture. No mutation
// happens before a successful Drop, so cancellation has nothing to clean up
// beyond discarding the payload.
type Controller struct {
	model     *tree.Model
	blueprint *schema.Blueprint

	inflight *Payload
	subs     []func(GestureEvent)
}

func NewController(m *tree.Model, bp *schema.Blueprint) *Controller {
	return &Controller{model: m, blueprint: bp}
}

// SetModel swaps in a fresh tree snapshot (e.g. after an external change was
// detected). An in-flight gesture keeps its drag-start payload; the drop-time
// validation will run against the new model.
func (c *Controller) SetModel(m *tree.Model) { c.model = m }

// Subscribe registers an event listener. Listeners run synchronously, in
// registration order.
func (c *Controller) Subscribe(fn func(GestureEvent)) {
	c.subs = append(c.subs, fn)
}

func (c *Controller) emit(ev GestureEvent) {
	for _, fn := range c.subs {
		fn(ev)
	}
}

// Dragging reports whether a gesture is active.
func (c *Controller) Dragging() bool { return c.inflight != nil }

// Active returns the in-flight payload, if any.
func (c *Controller) Active() (Payload, bool) {
	if c.inflight == nil {
		return Payload{}, false
	}
	return *c.inflight, true
}

// Begin starts a gesture by snapshotting nodeID. A gesture already in flight
// is cancelled first (single-gesture semantics). Returns false for unknown
// ids, leaving no gesture active.
func (c *Controller) Begin(nodeID string) bool {
	if c.inflight != nil {
		c.Cancel()
	}
	p, ok := Capture(c.model, nodeID)
	if !ok {
		return false
	}
	c.inflight = &p
	c.emit(GestureEvent{Kind: GestureStarted, Payload: p})
	return true
}

// BeginFromWire starts a gesture from a platform drag-data payload. Malformed
// data degrades to "no active drag".
func (c *Controller) BeginFromWire(b []byte) bool {
	p, ok := DecodePayload(b)
	if !ok {
		return false
	}
	if c.inflight != nil {
		c.Cancel()
	}
	c.inflight = &p
	c.emit(GestureEvent{Kind: GestureStarted, Payload: p})
	return true
}

// Over resolves the intent for the current pointer position. Read-only and
// side-effect-free; safe to call on every pointer-over event.
func (c *Controller) Over(target RowTarget, pointerY, rowTop, rowHeight float64) Intent {
	if c.inflight == nil {
		return rejected(ReasonNoActiveDrag)
	}
	return ResolveIntent(c.blueprint, *c.inflight, target, pointerY, rowTop, rowHeight)
}

// Drop ends the gesture: it resolves the final intent, validates it against
// the live model, and returns the resulting command. The payload is discarded
// either way; the command is NOT applied here: the caller hands it to the
// executor and refreshes the model from its authoritative result.
func (c *Controller) Drop(target RowTarget, pointerY, rowTop, rowHeight float64) (model.Command, error) {
	if c.inflight == nil {
		return model.Command{}, Reject(ReasonNoActiveDrag)
	}
	p := *c.inflight
	c.inflight = nil

	intent := ResolveIntent(c.blueprint, p, target, pointerY, rowTop, rowHeight)
	cmd, err := ValidateDrop(c.model, c.blueprint, p, intent)
	if err != nil {
		reason, _ := RejectionReason(err)
		c.emit(GestureEvent{Kind: GestureRejected, Payload: p, Reason: reason})
		return model.Command{}, err
	}
	c.emit(GestureEvent{Kind: GestureDropped, Payload: p, Command: cmd})
	return cmd, nil
}

// Cancel ends the gesture without a drop (pointer released outside any valid
// target, or an explicit cancel). No partial state can leak: nothing was
// mutated.
func (c *Controller) Cancel() {
	if c.inflight == nil {
		return
	}
	p := *c.inflight
	c.inflight = nil
	c.emit(GestureEvent{Kind: GestureCancelled, Payload: p})
}
