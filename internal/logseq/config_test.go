package logseq

import (
	"strings"
	"testing"
)

func TestExtractFavorites_Basic(t *testing.T) {
	text := ";; my config\n{:favorites [\"a\" \"b\"]\n :theme \"dark\"}\n"
	got := ExtractFavorites(text)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("favorites = %v, want [a b]", got)
	}
}

func TestExtractFavorites_MultiLine(t *testing.T) {
	text := "{:favorites [\"first page\"\n             \"second page\"]}\n"
	got := ExtractFavorites(text)
	if len(got) != 2 || got[0] != "first page" || got[1] != "second page" {
		t.Errorf("favorites = %v", got)
	}
}

func TestExtractFavorites_AbsentKey(t *testing.T) {
	got := ExtractFavorites("{:theme \"dark\"}\n")
	if len(got) != 0 {
		t.Errorf("expected empty favorites, got %v", got)
	}
}

func TestExtractFavorites_IgnoresComments(t *testing.T) {
	text := ";; :favorites [\"commented out\"]\n{:favorites [\"real\"]}\n"
	got := ExtractFavorites(text)
	if len(got) != 1 || got[0] != "real" {
		t.Errorf("favorites = %v, want [real]", got)
	}
}

func TestExtractFavorites_CommentOnlyKey(t *testing.T) {
	text := ";; :favorites [\"ghost\"]\n{:theme \"dark\"}\n"
	if got := ExtractFavorites(text); len(got) != 0 {
		t.Errorf("expected no favorites, got %v", got)
	}
}

func TestExtractFavorites_Deduplicates(t *testing.T) {
	got := ExtractFavorites(`{:favorites ["a" "a" "b"]}`)
	if len(got) != 2 {
		t.Errorf("favorites = %v, want deduplicated [a b]", got)
	}
}

func TestPageTitleFormat(t *testing.T) {
	text := "{:journal/page-title-format \"yyyy_MM_dd\"}\n"
	if got := PageTitleFormat(text); got != "yyyy_MM_dd" {
		t.Errorf("format = %q, want yyyy_MM_dd", got)
	}
	if got := PageTitleFormat("{}"); got != "" {
		t.Errorf("absent key should yield empty, got %q", got)
	}
}

func TestSerializeFavorites_SortedAscending(t *testing.T) {
	got := SerializeFavorites([]string{"zebra", "apple", "mango"})
	if got != `"apple" "mango" "zebra"` {
		t.Errorf("serialized = %s", got)
	}
}

func TestSpliceFavorites_RoundTrip(t *testing.T) {
	text := ";; header comment\n{:favorites [\"a\" \"b\"]\n :theme \"dark\"}\n"
	out := SpliceFavorites(text, []string{"a", "b", "c"})

	re := ExtractFavorites(out)
	if len(re) != 3 || re[0] != "a" || re[1] != "b" || re[2] != "c" {
		t.Fatalf("re-extracted = %v, want [a b c]", re)
	}
	for _, name := range []string{`"a"`, `"b"`, `"c"`} {
		if strings.Count(out, name) != 1 {
			t.Errorf("%s appears %d times, want 1", name, strings.Count(out, name))
		}
	}
	// Text outside the substituted span is untouched.
	if !strings.Contains(out, ";; header comment") || !strings.Contains(out, `:theme "dark"`) {
		t.Errorf("surrounding text lost: %s", out)
	}
}

func TestSpliceFavorites_AppendsWhenAbsent(t *testing.T) {
	out := SpliceFavorites("{:theme \"dark\"}", []string{"b", "a"})
	if !strings.Contains(out, `:favorites ["a" "b"]`) {
		t.Errorf("appended key missing: %s", out)
	}
	re := ExtractFavorites(out)
	if len(re) != 2 || re[0] != "a" || re[1] != "b" {
		t.Errorf("re-extracted = %v", re)
	}
}
