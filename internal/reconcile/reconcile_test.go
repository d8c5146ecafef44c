package reconcile

import (
	"errors"
	"reflect"
	"testing"

	"github.com/halvard/bifrost/internal/apperr"
	"github.com/halvard/bifrost/internal/logseq"
	"github.com/halvard/bifrost/internal/obsidian"
	"github.com/halvard/bifrost/internal/storage"
	"github.com/halvard/bifrost/internal/testutil"
)

const (
	configPath    = "logseq/config.edn"
	bookmarksPath = ".obsidian/bookmarks.json"
)

func newReconciler(t *testing.T) (storage.Provider, *Reconciler) {
	t.Helper()
	_, store := testutil.TestVault(t)
	return store, New(store, testutil.Logger(), configPath, bookmarksPath, "pages")
}

func mustWrite(t *testing.T, store storage.Provider, path, content string) {
	t.Helper()
	if err := store.Write(path, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

func bookmarkPaths(t *testing.T, store storage.Provider) []string {
	t.Helper()
	data, err := store.Read(bookmarksPath)
	if err != nil {
		t.Fatal(err)
	}
	bm, err := obsidian.ParseBookmarks(data)
	if err != nil {
		t.Fatal(err)
	}
	return bm.FilePaths()
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"logseq-to-obsidian", "obsidian-to-logseq", "both"} {
		if _, err := ParseDirection(s); err != nil {
			t.Errorf("ParseDirection(%q) = %v", s, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("unknown direction should be rejected")
	}
}

func TestComputeDelta(t *testing.T) {
	this := map[string]struct{}{"a": {}, "b": {}}
	other := map[string]struct{}{"b": {}, "c": {}, "d": {}}
	d := ComputeDelta(this, other)
	if !reflect.DeepEqual(d.ToAdd, []string{"c", "d"}) {
		t.Errorf("ToAdd = %v", d.ToAdd)
	}
	if !reflect.DeepEqual(d.Existing, []string{"a", "b"}) {
		t.Errorf("Existing = %v", d.Existing)
	}
}

func TestSync_FavoritesBecomeBookmarks(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["alpha" "beta"]}`)
	mustWrite(t, store, "pages/alpha.md", "a\n")
	mustWrite(t, store, "pages/beta.md", "b\n")

	report, err := r.Sync(Both)
	if err != nil {
		t.Fatal(err)
	}
	if report.BookmarksAdded != 2 || report.FavoritesAdded != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Missing) != 0 || len(report.Ambiguous) != 0 {
		t.Errorf("report = %+v", report)
	}
	paths := bookmarkPaths(t, store)
	if !reflect.DeepEqual(paths, []string{"pages/alpha.md", "pages/beta.md"}) {
		t.Errorf("bookmarked = %v", paths)
	}
}

func TestSync_SecondRunIsIdempotent(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["alpha"]}`)
	mustWrite(t, store, "pages/alpha.md", "a\n")

	if _, err := r.Sync(Both); err != nil {
		t.Fatal(err)
	}
	report, err := r.Sync(Both)
	if err != nil {
		t.Fatal(err)
	}
	if report.BookmarksAdded != 0 || report.FavoritesAdded != 0 {
		t.Errorf("second run should be a no-op: %+v", report)
	}
}

func TestSync_AmbiguousNameIsSurfacedNotWritten(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["dup"]}`)
	mustWrite(t, store, "archive/dup.md", "old\n")
	mustWrite(t, store, "pages/dup.md", "new\n")

	report, err := r.Sync(LogseqToObsidian)
	if err != nil {
		t.Fatal(err)
	}
	if report.BookmarksAdded != 0 {
		t.Errorf("ambiguous name must not be bookmarked: %+v", report)
	}
	if len(report.Ambiguous) != 1 {
		t.Fatalf("ambiguous = %v", report.Ambiguous)
	}
	got := report.Ambiguous[0]
	if got.Name != "dup" || len(got.Candidates) != 2 {
		t.Fatalf("resolution = %+v", got)
	}
	// Candidates follow corpus enumeration order; the first is the
	// default offered to the user.
	if got.Candidates[0].Path != "archive/dup.md" || got.Candidates[1].Path != "pages/dup.md" {
		t.Errorf("candidates = %+v", got.Candidates)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["dup"]}`)
	mustWrite(t, store, "archive/dup.md", "old\n")
	mustWrite(t, store, "pages/dup.md", "new\n")

	if err := r.ResolveAmbiguous("dup", "pages/dup.md"); err != nil {
		t.Fatal(err)
	}
	paths := bookmarkPaths(t, store)
	if !reflect.DeepEqual(paths, []string{"pages/dup.md"}) {
		t.Errorf("bookmarked = %v", paths)
	}
}

func TestResolveAmbiguous_RejectsNonCandidate(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, "pages/dup.md", "x\n")

	if err := r.ResolveAmbiguous("dup", "pages/other.md"); err == nil {
		t.Error("path outside the corpus should be rejected")
	}
	mustWrite(t, store, "pages/other.md", "y\n")
	if err := r.ResolveAmbiguous("dup", "pages/other.md"); err == nil {
		t.Error("path whose basename differs should be rejected")
	}
}

func TestSync_MissingNameReportedThenCreatable(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["ghost"]}`)

	report, err := r.Sync(LogseqToObsidian)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(report.Missing, []string{"ghost"}) {
		t.Fatalf("missing = %v", report.Missing)
	}

	created, err := r.CreateMissing("ghost")
	if err != nil {
		t.Fatal(err)
	}
	if created.Path != "pages/ghost.md" || created.Basename != "ghost" {
		t.Errorf("created = %+v", created)
	}
	if !store.Exists("pages/ghost.md") {
		t.Error("page not created")
	}
	if paths := bookmarkPaths(t, store); !reflect.DeepEqual(paths, []string{"pages/ghost.md"}) {
		t.Errorf("bookmarked = %v", paths)
	}

	if _, err := r.CreateMissing("ghost"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("second create = %v, want ErrAlreadyExists", err)
	}
}

func TestSync_BookmarksBecomeFavoritesSorted(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites ["alpha"]}`)
	mustWrite(t, store, "pages/alpha.md", "a\n")
	mustWrite(t, store, "pages/gamma.md", "g\n")
	mustWrite(t, store, bookmarksPath, `{"items":[{"type":"file","path":"pages/gamma.md"}]}`)

	report, err := r.Sync(ObsidianToLogseq)
	if err != nil {
		t.Fatal(err)
	}
	if report.FavoritesAdded != 1 || report.BookmarksAdded != 0 {
		t.Errorf("report = %+v", report)
	}
	data, err := store.Read(configPath)
	if err != nil {
		t.Fatal(err)
	}
	got := logseq.ExtractFavorites(string(data))
	if !reflect.DeepEqual(got, []string{"alpha", "gamma"}) {
		t.Errorf("favorites = %v", got)
	}
}

func TestSync_LogseqToObsidianLeavesConfigUntouched(t *testing.T) {
	store, r := newReconciler(t)
	original := `{:favorites ["alpha"]}`
	mustWrite(t, store, configPath, original)
	mustWrite(t, store, "pages/alpha.md", "a\n")
	mustWrite(t, store, "pages/extra.md", "e\n")
	mustWrite(t, store, bookmarksPath, `{"items":[{"type":"file","path":"pages/extra.md"}]}`)

	if _, err := r.Sync(LogseqToObsidian); err != nil {
		t.Fatal(err)
	}
	data, err := store.Read(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("config modified in one-way sync: %q", data)
	}
}

func TestSync_DanglingBookmarkPathIgnored(t *testing.T) {
	store, r := newReconciler(t)
	mustWrite(t, store, configPath, `{:favorites []}`)
	mustWrite(t, store, bookmarksPath, `{"items":[{"type":"file","path":"pages/deleted.md"}]}`)

	report, err := r.Sync(ObsidianToLogseq)
	if err != nil {
		t.Fatal(err)
	}
	if report.FavoritesAdded != 0 {
		t.Errorf("dangling bookmark should not produce a favorite: %+v", report)
	}
}

func TestSync_CorruptBookmarksIsFatal(t *testing.T) {
	for _, content := range []string{`{broken`, `null`} {
		store, r := newReconciler(t)
		mustWrite(t, store, configPath, `{:favorites []}`)
		mustWrite(t, store, bookmarksPath, content)

		_, err := r.Sync(Both)
		if !errors.Is(err, apperr.ErrStoreCorrupt) {
			t.Errorf("content %q: err = %v, want ErrStoreCorrupt", content, err)
		}
	}
}

func TestSync_MissingConfigIsFatal(t *testing.T) {
	_, r := newReconciler(t)
	_, err := r.Sync(Both)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
