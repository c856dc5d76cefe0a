package discriminator

import (
	"testing"

	"github.com/wrenote/wikid/internal/span"
)

func TestClassify_InsideWikilink(t *testing.T) {
	r := Classify("see [[al", span.Position{Line: 0, Character: 8})
	if r.Context != Wikilink {
		t.Fatalf("context=%v, want Wikilink", r.Context)
	}
	if r.Query != "al" {
		t.Fatalf("query=%q, want %q", r.Query, "al")
	}
}

func TestClassify_WikilinkEmptyQueryRightAfterOpen(t *testing.T) {
	r := Classify("see [[", span.Position{Line: 0, Character: 6})
	if r.Context != Wikilink || r.Query != "" {
		t.Fatalf("expected empty-query wikilink context, got %+v", r)
	}
}

func TestClassify_WikilinkQueryTruncatedAtPipe(t *testing.T) {
	r := Classify("see [[alpha|al", span.Position{Line: 0, Character: 14})
	if r.Context != Wikilink || r.Query != "alpha" {
		t.Fatalf("expected query truncated before pipe, got %+v", r)
	}
}

func TestClassify_AfterClosedWikilinkIsNone(t *testing.T) {
	r := Classify("see [[alpha]] done", span.Position{Line: 0, Character: 18})
	if r.Context != None {
		t.Fatalf("context=%v, want None", r.Context)
	}
}

func TestClassify_InsideTagArray(t *testing.T) {
	doc := "---\ntags: [pr\n---\n"
	r := Classify(doc, span.Position{Line: 1, Character: 9})
	if r.Context != Tag {
		t.Fatalf("context=%v, want Tag", r.Context)
	}
	if r.TagsInfo == nil || r.TagsInfo.TagsArrayStartColumn != 7 {
		t.Fatalf("unexpected tags info: %+v", r.TagsInfo)
	}
}

func TestClassify_CursorAfterCommaInTagArray(t *testing.T) {
	doc := "---\ntags: [alpha, ]\n---\n"
	r := Classify(doc, span.Position{Line: 1, Character: 15})
	if r.Context != Tag {
		t.Fatalf("context=%v, want Tag", r.Context)
	}
}

func TestClassify_NoneOutsideAnyContext(t *testing.T) {
	r := Classify("just plain text", span.Position{Line: 0, Character: 5})
	if r.Context != None {
		t.Fatalf("context=%v, want None", r.Context)
	}
}

func TestClassify_WikilinkTakesPrecedenceOverTagLine(t *testing.T) {
	// A wikilink typed on the tags line itself should still classify as
	// Wikilink since the backward scan finds "[[" before falling through
	// to the tags-array check.
	doc := "---\ntags: [[nested\n---\n"
	r := Classify(doc, span.Position{Line: 1, Character: 15})
	if r.Context != Wikilink {
		t.Fatalf("context=%v, want Wikilink", r.Context)
	}
}
