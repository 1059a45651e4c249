package store

import (
	"os"
	"testing"

	"callsheet-cli/internal/model"
)

func TestAppendAndReadEvents(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	ev1, err := s.AppendEvent("node.moved", "node-a", model.Command{Type: model.CommandMoveNode, NodeID: "node-a", NewParentID: "node-b"})
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	ev2, err := s.AppendEvent("node.reordered", "node-a", nil)
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if ev1.ID == ev2.ID {
		t.Fatalf("event ids must be unique")
	}

	events, err := s.ReadEvents()
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "node.moved" || events[1].Type != "node.reordered" {
		t.Fatalf("log order lost: %v %v", events[0].Type, events[1].Type)
	}
}

func TestAppendEventValidation(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if _, err := s.AppendEvent("", "node-a", nil); err == nil {
		t.Fatalf("missing type must error")
	}
	if _, err := s.AppendEvent("node.moved", "  ", nil); err == nil {
		t.Fatalf("missing entity id must error")
	}
}

func TestReadEventsSkipsGarbageLines(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if _, err := s.AppendEvent("node.moved", "node-a", nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()
	if _, err := s.AppendEvent("node.renamed", "node-a", nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	events, err := s.ReadEvents()
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("garbage line must be skipped, got %d events", len(events))
	}
}

func TestReadEventsMissingLog(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	events, err := s.ReadEvents()
	if err != nil || events != nil {
		t.Fatalf("missing log must be empty: %v, %v", events, err)
	}
}

func TestNewNodeID(t *testing.T) {
	db := &DB{}
	id, err := NewNodeID(db)
	if err != nil {
		t.Fatalf("NewNodeID: %v", err)
	}
	if len(id) != len("node-")+8 || id[:5] != "node-" {
		t.Fatalf("unexpected id shape: %q", id)
	}
}
