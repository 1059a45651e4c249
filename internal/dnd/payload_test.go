package dnd

import "testing"

func TestCaptureSnapshotsDescendants(t *testing.T) {
	m := testModel()
	p := capture(t, m, "season-1")

	if p.NodeID != "season-1" || p.NodeType != "season" || p.ParentID != nil {
		t.Fatalf("payload header: %+v", p)
	}
	for _, id := range []string{"ep-a", "ep-b", "task-1", "task-2"} {
		if !p.IsDescendant(id) {
			t.Fatalf("expected %s in descendant set", id)
		}
	}
	if p.IsDescendant("season-1") || p.IsDescendant("season-2") {
		t.Fatalf("descendant set too wide: %+v", p.Descendants)
	}
}

func TestCaptureUnknownNode(t *testing.T) {
	if _, ok := Capture(testModel(), "ghost"); ok {
		t.Fatalf("capture of unknown id must fail")
	}
}

func TestPayloadWireRoundTrip(t *testing.T) {
	m := testModel()
	p := capture(t, m, "ep-a")

	got, ok := DecodePayload(EncodePayload(p))
	if !ok {
		t.Fatalf("decode of encoded payload failed")
	}
	if got.NodeID != p.NodeID || got.NodeType != p.NodeType {
		t.Fatalf("round trip header mismatch: %+v vs %+v", got, p)
	}
	if got.ParentID == nil || *got.ParentID != "season-1" {
		t.Fatalf("round trip parent mismatch: %+v", got.ParentID)
	}
	if len(got.Descendants) != len(p.Descendants) {
		t.Fatalf("round trip descendants mismatch: %v vs %v", got.Descendants, p.Descendants)
	}
}

func TestDecodePayloadDegradesToNoDrag(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("not json"),
		[]byte(`{"nodeType":"task"}`),   // missing nodeId
		[]byte(`{"nodeId":"   "}`),      // blank nodeId
		[]byte(`{"nodeId":123}`),        // wrong type
	}
	for _, b := range cases {
		if _, ok := DecodePayload(b); ok {
			t.Fatalf("DecodePayload(%q): expected no active drag", b)
		}
	}
}

func TestSameParent(t *testing.T) {
	a := "x"
	b := "x"
	c := "y"
	if !sameParent(nil, nil) {
		t.Fatalf("nil/nil must match")
	}
	if sameParent(&a, nil) || sameParent(nil, &a) {
		t.Fatalf("nil vs value must not match")
	}
	if !sameParent(&a, &b) {
		t.Fatalf("equal values must match")
	}
	if sameParent(&a, &c) {
		t.Fatalf("different values must not match")
	}
}
