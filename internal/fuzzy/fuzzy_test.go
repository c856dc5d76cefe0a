package fuzzy

import "testing"

func TestScore_Exact(t *testing.T) {
	if got := Score("Alpha", "alpha"); got != 100 {
		t.Fatalf("Score=%v, want 100", got)
	}
}

func TestScore_Prefix(t *testing.T) {
	got := Score("al", "alpha")
	want := 50 + 10*(2.0/5.0)
	if got != want {
		t.Fatalf("Score=%v, want %v", got, want)
	}
}

func TestScore_Substring(t *testing.T) {
	got := Score("ph", "alpha")
	want := 25 + 5*(2.0/5.0)
	if got != want {
		t.Fatalf("Score=%v, want %v", got, want)
	}
}

func TestScore_Subsequence(t *testing.T) {
	// "ah" matches a-l-p-h-a via 'a' (run 1) then 'h' (run 1): 1+1+1 = 3.
	got := Score("ah", "alpha")
	if got != 3 {
		t.Fatalf("Score=%v, want 3", got)
	}
}

func TestScore_NoMatch(t *testing.T) {
	if got := Score("xyz", "alpha"); got != 0 {
		t.Fatalf("Score=%v, want 0", got)
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	if got := Score("", "anything"); got != 1.0 {
		t.Fatalf("Score=%v, want 1.0", got)
	}
}

func TestRank_PrefixBeatsSubstring(t *testing.T) {
	matches := Rank("al", []string{"algebra.md", "banal.md"}, 0)
	if len(matches) != 2 || matches[0].Candidate != "algebra.md" {
		t.Fatalf("unexpected ranking: %+v", matches)
	}
}

func TestRank_ExactAlwaysBeatsNonExact(t *testing.T) {
	matches := Rank("alpha", []string{"alphabet.md", "alpha.md"}, 0)
	if matches[0].Candidate != "alpha.md" || matches[0].Score != 100 {
		t.Fatalf("expected exact match to rank first: %+v", matches)
	}
}

func TestRank_TiesPreserveInputOrder(t *testing.T) {
	matches := Rank("x", []string{"x.md", "x.md"}, 0)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %+v", matches)
	}
}

func TestRank_DropsNoMatches(t *testing.T) {
	matches := Rank("zzz", []string{"alpha.md", "beta.md"}, 0)
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestRank_CapsAtLimit(t *testing.T) {
	matches := Rank("", []string{"a", "b", "c", "d"}, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches after cap, got %+v", matches)
	}
}

func TestRank_EmptyQueryPreservesInputOrder(t *testing.T) {
	matches := Rank("", []string{"z", "a", "m"}, 0)
	for i, want := range []string{"z", "a", "m"} {
		if matches[i].Candidate != want {
			t.Fatalf("matches[%d]=%q, want %q", i, matches[i].Candidate, want)
		}
		if matches[i].Score != 1.0 {
			t.Fatalf("expected uniform score 1.0, got %v", matches[i].Score)
		}
	}
}
