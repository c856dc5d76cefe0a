package completion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenote/wikid/internal/discriminator"
	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
	"github.com/wrenote/wikid/internal/tagindex"
)

func TestWikilinks_PrefixRanking(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.md", "algebra.md", "beta.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("# "+name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	idx := fileindex.New()
	for _, name := range []string{"alpha.md", "algebra.md", "beta.md"} {
		idx.Add(filepath.Join(dir, name))
	}

	ctx := discriminator.Result{Context: discriminator.Wikilink, Query: "al"}
	pos := span.Position{Line: 0, Character: 8}
	result := Wikilinks(idx, ctx, pos, "")

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", result.Items)
	}
	if result.Items[0].Label != "alpha.md" || result.Items[1].Label != "algebra.md" {
		t.Fatalf("unexpected ranking: %+v", result.Items)
	}
	if result.IsIncomplete {
		t.Fatal("expected IsIncomplete=false")
	}
}

func TestWikilinks_ExcludesCurrentDocument(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.md")
	pathB := filepath.Join(dir, "b.md")
	os.WriteFile(pathA, []byte("# A"), 0o644)
	os.WriteFile(pathB, []byte("# B"), 0o644)

	idx := fileindex.New()
	idx.Add(pathA)
	idx.Add(pathB)

	ctx := discriminator.Result{Context: discriminator.Wikilink, Query: ""}
	result := Wikilinks(idx, ctx, span.Position{Line: 0, Character: 0}, pathA)

	if len(result.Items) != 1 || result.Items[0].Label != "b.md" {
		t.Fatalf("expected only b.md, got %+v", result.Items)
	}
}

func TestWikilinks_DedupsByBasename(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	p1 := filepath.Join(dir1, "note.md")
	p2 := filepath.Join(dir2, "note.md")
	os.WriteFile(p1, []byte("# One"), 0o644)
	os.WriteFile(p2, []byte("# Two"), 0o644)

	idx := fileindex.New()
	idx.Add(p1)
	idx.Add(p2)

	ctx := discriminator.Result{Context: discriminator.Wikilink, Query: ""}
	result := Wikilinks(idx, ctx, span.Position{Line: 0, Character: 0}, "")

	if len(result.Items) != 1 {
		t.Fatalf("expected deduped single item, got %+v", result.Items)
	}
}

func TestTags_DetailReportsFileCount(t *testing.T) {
	idx := tagindex.New()
	idx.SetTags("a.md", []string{"project", "programming"})
	idx.SetTags("b.md", []string{"project"})

	result := Tags(idx, "pr")
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", result.Items)
	}
	if result.Items[0].Label != "project" || result.Items[0].Detail != "Used in 2 files" {
		t.Fatalf("unexpected first item: %+v", result.Items[0])
	}
	if result.Items[1].Label != "programming" || result.Items[1].Detail != "Used in 1 files" {
		t.Fatalf("unexpected second item: %+v", result.Items[1])
	}
}

func TestTagPrefix_StopsAtLastComma(t *testing.T) {
	text := "---\ntags: [project, pr\n---\n"
	info := markdown.FindTagsLineInfo(text, span.Position{Line: 1, Character: 18})
	if info == nil {
		t.Fatal("expected tags line info")
	}
	if got := TagPrefix(info, 18); got != "pr" {
		t.Fatalf("TagPrefix=%q, want pr", got)
	}
}

func TestTagPrefix_EmptyRightAfterBracket(t *testing.T) {
	text := "---\ntags: [\n---\n"
	info := markdown.FindTagsLineInfo(text, span.Position{Line: 1, Character: 7})
	if info == nil {
		t.Fatal("expected tags line info")
	}
	if got := TagPrefix(info, 7); got != "" {
		t.Fatalf("TagPrefix=%q, want empty", got)
	}
}
