package tagindex

import "testing"

func strSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIndex_SetTagsAndFilesFor(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"project", "go"})
	idx.SetTags("b.md", []string{"project"})

	if got := idx.FilesFor("project"); !strSlicesEqual(got, []string{"a.md", "b.md"}) {
		t.Fatalf("FilesFor(project)=%v", got)
	}
	if got := idx.FilesFor("go"); !strSlicesEqual(got, []string{"a.md"}) {
		t.Fatalf("FilesFor(go)=%v", got)
	}
	if got := idx.TagsFor("a.md"); !strSlicesEqual(got, []string{"go", "project"}) {
		t.Fatalf("TagsFor(a.md)=%v", got)
	}
}

func TestIndex_SetTagsReplacesPreviousSet(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"old"})
	idx.SetTags("a.md", []string{"new"})

	if got := idx.FilesFor("old"); len(got) != 0 {
		t.Fatalf("expected old tag dropped, got %v", got)
	}
	if got := idx.FilesFor("new"); !strSlicesEqual(got, []string{"a.md"}) {
		t.Fatalf("FilesFor(new)=%v", got)
	}
}

func TestIndex_RemoveFile(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"x"})
	idx.RemoveFile("a.md")

	if got := idx.FilesFor("x"); len(got) != 0 {
		t.Fatalf("expected no files for x, got %v", got)
	}
	if got := idx.TagsFor("a.md"); len(got) != 0 {
		t.Fatalf("expected no tags for a.md, got %v", got)
	}
	if got := idx.All(); len(got) != 0 {
		t.Fatalf("expected empty tag universe, got %v", got)
	}
}

func TestIndex_Count(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"x"})
	idx.SetTags("b.md", []string{"x"})
	idx.SetTags("c.md", []string{"y"})

	if idx.Count("x") != 2 {
		t.Fatalf("Count(x)=%d, want 2", idx.Count("x"))
	}
	if idx.Count("y") != 1 {
		t.Fatalf("Count(y)=%d, want 1", idx.Count("y"))
	}
	if idx.Count("missing") != 0 {
		t.Fatalf("Count(missing)=%d, want 0", idx.Count("missing"))
	}
}

func TestIndex_WithPrefixIsCaseInsensitive(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"Project", "programming", "other"})

	got := idx.WithPrefix("pro")
	if !strSlicesEqual(got, []string{"Project", "programming"}) {
		t.Fatalf("WithPrefix(pro)=%v", got)
	}
}

func TestIndex_Rename(t *testing.T) {
	idx := New()
	idx.SetTags("old.md", []string{"x", "y"})
	idx.Rename("old.md", "new.md")

	if got := idx.TagsFor("old.md"); len(got) != 0 {
		t.Fatalf("expected old.md tags gone, got %v", got)
	}
	if got := idx.TagsFor("new.md"); !strSlicesEqual(got, []string{"x", "y"}) {
		t.Fatalf("TagsFor(new.md)=%v", got)
	}
	if got := idx.FilesFor("x"); !strSlicesEqual(got, []string{"new.md"}) {
		t.Fatalf("FilesFor(x)=%v", got)
	}
}

func TestIndex_All(t *testing.T) {
	idx := New()
	idx.SetTags("a.md", []string{"b", "a"})

	if got := idx.All(); !strSlicesEqual(got, []string{"a", "b"}) {
		t.Fatalf("All()=%v", got)
	}
}
