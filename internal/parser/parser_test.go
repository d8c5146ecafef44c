package parser

import "testing"

func TestHasTaskMarker_LineAnchored(t *testing.T) {
	if !HasTaskMarker("TODO buy milk") {
		t.Error("TODO should match")
	}
	if !HasTaskMarker("some text\n- DONE ship it\n") {
		t.Error("DONE should match mid-document")
	}
	if HasTaskMarker("TODOLIST of things") {
		t.Error("TODOLIST must not match as a whole word")
	}
}

func TestHasTaskMarker_ProseNotFlagged(t *testing.T) {
	// Detection matches the rewrite: markers in mid-line prose are not
	// task lines and would not change on apply.
	for _, in := range []string{
		"see you later today\n",
		"we are done here\n",
		"the work is now underway\n",
	} {
		if HasTaskMarker(in) {
			t.Errorf("prose flagged as task marker: %q", in)
		}
		if got := RewriteTaskMarkers(in); got != in {
			t.Errorf("prose rewritten: %q", got)
		}
	}
}

func TestRewriteTaskMarkers_Open(t *testing.T) {
	got := RewriteTaskMarkers("TODO buy milk")
	if got != "- [ ] buy milk" {
		t.Errorf("got %q, want %q", got, "- [ ] buy milk")
	}
}

func TestRewriteTaskMarkers_Done(t *testing.T) {
	got := RewriteTaskMarkers("DONE buy milk")
	if got != "- [x] buy milk" {
		t.Errorf("got %q, want %q", got, "- [x] buy milk")
	}
}

func TestRewriteTaskMarkers_ListDashAndIndent(t *testing.T) {
	got := RewriteTaskMarkers("  - DOING write report\n- LATER call bank\n")
	want := "  - [ ] write report\n- [ ] call bank\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteTaskMarkers_CaseInsensitive(t *testing.T) {
	got := RewriteTaskMarkers("todo lowercase works")
	if got != "- [ ] lowercase works" {
		t.Errorf("got %q", got)
	}
}

func TestRewriteTaskMarkers_MidLineUntouched(t *testing.T) {
	in := "remember the TODO list"
	if got := RewriteTaskMarkers(in); got != in {
		t.Errorf("mid-line marker rewritten: %q", got)
	}
}

func TestInsertAfterFrontmatter_WithBlock(t *testing.T) {
	in := "---\ntitle: X\n---\nbody text\n"
	got := InsertAfterFrontmatter(in, "tags: proj/sub")
	want := "---\ntitle: X\n---\ntags: proj/sub\nbody text\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertAfterFrontmatter_NoBlock(t *testing.T) {
	got := InsertAfterFrontmatter("body only\n", "tags: a/b")
	if got != "tags: a/b\nbody only\n" {
		t.Errorf("got %q", got)
	}
}

func TestInsertAfterFrontmatter_HorizontalRuleInsideBlock(t *testing.T) {
	in := "---\ntitle: X\n----\nstill frontmatter\n---\nbody\n"
	got := InsertAfterFrontmatter(in, "tags: a")
	want := "---\ntitle: X\n----\nstill frontmatter\n---\ntags: a\nbody\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertAfterFrontmatter_DelimiterAtEOF(t *testing.T) {
	in := "---\ntitle: X\n---"
	got := InsertAfterFrontmatter(in, "tags: a")
	if got != in+"tags: a\n" {
		t.Errorf("got %q", got)
	}
}

func TestInsertAfterFrontmatter_UnclosedBlock(t *testing.T) {
	in := "---\ntitle: X\nno closing delimiter\n"
	got := InsertAfterFrontmatter(in, "tags: a")
	if got != "tags: a\n"+in {
		t.Errorf("unclosed frontmatter should be treated as body: %q", got)
	}
}
