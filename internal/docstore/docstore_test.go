package docstore

import (
	"testing"

	"github.com/wrenote/wikid/internal/span"
)

func TestStore_DidOpenAndGet(t *testing.T) {
	s := New()
	s.DidOpen("file:///a.md", "hello [[foo]]", 1)

	doc, ok := s.Get("file:///a.md")
	if !ok {
		t.Fatal("expected document")
	}
	if doc.Content != "hello [[foo]]" || doc.Version != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(doc.Wikilinks) != 1 {
		t.Fatalf("expected 1 wikilink parsed on open, got %+v", doc.Wikilinks)
	}
}

func TestStore_DidChangeReplacesContent(t *testing.T) {
	s := New()
	s.DidOpen("file:///a.md", "v1", 1)
	s.DidChange("file:///a.md", "v2 [[bar]]", 2)

	doc, ok := s.Get("file:///a.md")
	if !ok {
		t.Fatal("expected document")
	}
	if doc.Content != "v2 [[bar]]" || doc.Version != 2 {
		t.Fatalf("unexpected document after change: %+v", doc)
	}
	if len(doc.Wikilinks) != 1 {
		t.Fatalf("expected wikilinks to be reparsed on change, got %+v", doc.Wikilinks)
	}
}

func TestStore_DidCloseRemoves(t *testing.T) {
	s := New()
	s.DidOpen("file:///a.md", "x", 1)
	s.DidClose("file:///a.md")

	if _, ok := s.Get("file:///a.md"); ok {
		t.Fatal("expected document to be gone after close")
	}
}

func TestStore_WikilinkAt(t *testing.T) {
	s := New()
	s.DidOpen("file:///a.md", "intro [[alpha|the start]] more text", 1)

	w, ok := s.WikilinkAt("file:///a.md", span.Position{Line: 0, Character: 10})
	if !ok {
		t.Fatal("expected a wikilink at cursor position")
	}
	if w.Target != "alpha" {
		t.Fatalf("target=%q, want alpha", w.Target)
	}

	if _, ok := s.WikilinkAt("file:///a.md", span.Position{Line: 0, Character: 0}); ok {
		t.Fatal("expected no wikilink at position 0")
	}
}

func TestStore_URIs(t *testing.T) {
	s := New()
	s.DidOpen("file:///a.md", "a", 1)
	s.DidOpen("file:///b.md", "b", 1)

	uris := s.URIs()
	if len(uris) != 2 {
		t.Fatalf("expected 2 open uris, got %v", uris)
	}
}
