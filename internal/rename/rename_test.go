package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/linkgraph"
	"github.com/wrenote/wikid/internal/tagindex"
)

func TestTag_EmitsOneEditPerFile(t *testing.T) {
	tagIdx := tagindex.New()
	tagIdx.SetTags("a.md", []string{"project"})
	tagIdx.SetTags("b.md", []string{"project"})

	contents := map[string]string{
		"a.md": "---\ntags: [project]\n---\n",
		"b.md": "---\ntags: [project]\n---\n",
	}

	plan := Tag(tagIdx, "project", "work", func(p string) (string, bool) {
		c, ok := contents[p]
		return c, ok
	})

	if len(plan.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %+v", plan.Edits)
	}
	for _, e := range plan.Edits {
		if e.NewText != "work" {
			t.Fatalf("unexpected NewText: %+v", e)
		}
	}
	if plan.FileRename != nil {
		t.Fatal("tag rename must not carry a file-rename op")
	}
}

func TestWikilink_ResolvedTargetProducesFileRenameAndEdits(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.md")
	introPath := filepath.Join(dir, "notes", "intro.md")

	idx := fileindex.New()
	graph := linkgraph.New()

	contents := map[string]string{
		oldPath:   "# Old",
		introPath: "see [[old]]",
	}
	if err := os.MkdirAll(filepath.Dir(introPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(oldPath, []byte(contents[oldPath]), 0o644); err != nil {
		t.Fatalf("write oldPath: %v", err)
	}
	idx.Add(oldPath)

	plan, err := Wikilink(idx, graph, "old", "new-name", []string{oldPath, introPath}, func(p string) (string, bool) {
		c, ok := contents[p]
		return c, ok
	})
	if err != nil {
		t.Fatalf("Wikilink: %v", err)
	}

	if plan.FileRename == nil {
		t.Fatal("expected a file-rename operation")
	}
	if plan.FileRename.OldPath != oldPath {
		t.Fatalf("FileRename.OldPath=%q, want %q", plan.FileRename.OldPath, oldPath)
	}
	wantNew := filepath.Join(dir, "new-name.md")
	if plan.FileRename.NewPath != wantNew {
		t.Fatalf("FileRename.NewPath=%q, want %q", plan.FileRename.NewPath, wantNew)
	}

	if len(plan.Edits) != 1 {
		t.Fatalf("expected 1 text edit, got %+v", plan.Edits)
	}
	if plan.Edits[0].Path != introPath || plan.Edits[0].NewText != "new-name" {
		t.Fatalf("unexpected edit: %+v", plan.Edits[0])
	}

	// The File Index should already reflect the rename.
	if _, ok := idx.Resolve("old"); ok {
		t.Fatal("expected old target to no longer resolve")
	}
	if got, ok := idx.Resolve("new-name"); !ok || got != wantNew {
		t.Fatalf("Resolve(new-name)=(%q,%v), want (%q,true)", got, ok, wantNew)
	}
}

func TestWikilink_UnresolvedTargetEditsTextOnly(t *testing.T) {
	idx := fileindex.New()
	graph := linkgraph.New()

	contents := map[string]string{
		"intro.md": "see [[ghost]]",
	}

	plan, err := Wikilink(idx, graph, "ghost", "renamed", []string{"intro.md"}, func(p string) (string, bool) {
		c, ok := contents[p]
		return c, ok
	})
	if err != nil {
		t.Fatalf("Wikilink: %v", err)
	}
	if plan.FileRename != nil {
		t.Fatal("expected no file-rename op for an unresolved target")
	}
	if len(plan.Edits) != 1 {
		t.Fatalf("expected 1 text edit, got %+v", plan.Edits)
	}
}

func TestWikilink_RejectsEmptyNewTarget(t *testing.T) {
	idx := fileindex.New()
	graph := linkgraph.New()
	if _, err := Wikilink(idx, graph, "old", "  ", nil, func(string) (string, bool) { return "", false }); err == nil {
		t.Fatal("expected an error for an empty new target")
	}
}

func TestComputeNewTargetText(t *testing.T) {
	cases := []struct {
		oldTarget, newTarget, want string
	}{
		{"old.md", "new.md", "new.md"},
		{"old.md", "new", "new.md"},
		{"old", "new.md", "new"},
		{"old", "new", "new"},
	}
	for _, c := range cases {
		got := computeNewTargetText(c.oldTarget, c.newTarget)
		if got != c.want {
			t.Errorf("computeNewTargetText(%q, %q)=%q, want %q", c.oldTarget, c.newTarget, got, c.want)
		}
	}
}
