// Package reconcile computes and applies the bookmark/favorites delta
// between the Logseq and Obsidian stores over one shared vault.
package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/halvard/bifrost/internal/apperr"
	"github.com/halvard/bifrost/internal/logseq"
	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/obsidian"
	"github.com/halvard/bifrost/internal/resolve"
	"github.com/halvard/bifrost/internal/storage"
)

// Direction selects which store(s) receive additions.
type Direction string

const (
	LogseqToObsidian Direction = "logseq-to-obsidian"
	ObsidianToLogseq Direction = "obsidian-to-logseq"
	Both             Direction = "both"
)

// ParseDirection validates a direction string from config or flags.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case LogseqToObsidian, ObsidianToLogseq, Both:
		return Direction(s), nil
	}
	return "", fmt.Errorf("reconcile: unknown sync direction %q", s)
}

// Delta is the pure set difference for one viewed direction.
type Delta struct {
	ToAdd    []string `json:"to_add"`
	Existing []string `json:"existing"`
}

// ComputeDelta returns the names known to the other system but not this
// one, plus the names this system already has. Pure set algebra, no I/O.
// Both result slices are sorted for stable reporting.
func ComputeDelta(thisNames, otherNames map[string]struct{}) Delta {
	d := Delta{ToAdd: []string{}, Existing: []string{}}
	for n := range otherNames {
		if _, ok := thisNames[n]; !ok {
			d.ToAdd = append(d.ToAdd, n)
		}
	}
	for n := range thisNames {
		d.Existing = append(d.Existing, n)
	}
	sort.Strings(d.ToAdd)
	sort.Strings(d.Existing)
	return d
}

// Report aggregates one sync call's outcome. Missing and Ambiguous
// entries await manual resolution; nothing further was written for them.
type Report struct {
	Direction      Direction            `json:"direction"`
	BookmarksAdded int                  `json:"bookmarks_added"`
	FavoritesAdded int                  `json:"favorites_added"`
	Missing        []string             `json:"missing"`
	Ambiguous      []resolve.Resolution `json:"ambiguous"`
}

// Reconciler wires the two stores and the corpus together for one vault.
type Reconciler struct {
	store         storage.Provider
	logger        *slog.Logger
	configPath    string // Logseq config.edn, vault-relative
	bookmarksPath string // Obsidian bookmarks.json, vault-relative
	pagesFolder   string
	now           func() time.Time
}

// New creates a Reconciler. configPath and bookmarksPath are
// vault-relative locations of the two stores.
func New(store storage.Provider, logger *slog.Logger, configPath, bookmarksPath, pagesFolder string) *Reconciler {
	return &Reconciler{
		store:         store,
		logger:        logger,
		configPath:    configPath,
		bookmarksPath: bookmarksPath,
		pagesFolder:   pagesFolder,
		now:           time.Now,
	}
}

// Sync runs one reconciliation pass. Any read/parse/write failure aborts
// the remaining steps and leaves both stores as of the last successful
// write; there is no multi-store transactionality.
func (r *Reconciler) Sync(direction Direction) (*Report, error) {
	files, err := r.store.List("")
	if err != nil {
		return nil, fmt.Errorf("reconcile: list corpus: %w", err)
	}
	idx := resolve.NewIndex(files)

	configText, err := r.readConfigText()
	if err != nil {
		return nil, err
	}
	favorites := toSet(logseq.ExtractFavorites(configText))

	bm, err := r.readBookmarks()
	if err != nil {
		return nil, err
	}

	bmPaths := make(map[string]struct{})
	bmNames := make(map[string]struct{})
	for _, p := range bm.FilePaths() {
		bmPaths[p] = struct{}{}
		// Paths that no longer resolve in the corpus are skipped.
		if f, ok := idx.ByPath(p); ok {
			bmNames[f.Basename] = struct{}{}
		}
	}

	report := &Report{Direction: direction, Missing: []string{}, Ambiguous: []resolve.Resolution{}}

	if direction == LogseqToObsidian || direction == Both {
		delta := ComputeDelta(bmNames, favorites)
		added, missing, ambiguous, err := r.applyDirectBookmarks(delta.ToAdd, idx, bmPaths)
		if err != nil {
			return nil, err
		}
		report.BookmarksAdded = added
		report.Missing = append(report.Missing, missing...)
		report.Ambiguous = append(report.Ambiguous, ambiguous...)
	}

	if direction == ObsidianToLogseq || direction == Both {
		delta := ComputeDelta(favorites, bmNames)
		added, err := r.mergeFavorites(delta.ToAdd)
		if err != nil {
			return nil, err
		}
		report.FavoritesAdded = added
	}

	r.logger.Info("reconcile: sync complete",
		slog.String("direction", string(direction)),
		slog.Int("bookmarks_added", report.BookmarksAdded),
		slog.Int("favorites_added", report.FavoritesAdded),
		slog.Int("missing", len(report.Missing)),
		slog.Int("ambiguous", len(report.Ambiguous)))

	return report, nil
}

// applyDirectBookmarks resolves each candidate name. Unique matches are
// committed immediately; Missing and Ambiguous are surfaced for manual
// resolution. AlreadyLinked names are dropped silently.
func (r *Reconciler) applyDirectBookmarks(names []string, idx *resolve.Index, alreadyLinked map[string]struct{}) (int, []string, []resolve.Resolution, error) {
	var staged []string
	var missing []string
	var ambiguous []resolve.Resolution

	for _, name := range names {
		res := idx.Resolve(name, alreadyLinked)
		switch res.State {
		case resolve.Unique:
			staged = append(staged, res.Candidates[0].Path)
		case resolve.Missing:
			missing = append(missing, name)
		case resolve.Ambiguous:
			ambiguous = append(ambiguous, res)
		case resolve.AlreadyLinked:
			r.logger.Debug("reconcile: already linked", slog.String("name", name))
		}
	}

	if len(staged) == 0 {
		return 0, missing, ambiguous, nil
	}
	added, err := r.commitBookmarks(staged)
	if err != nil {
		return 0, missing, ambiguous, err
	}
	return added, missing, ambiguous, nil
}

// commitBookmarks re-reads the bookmark store immediately before
// writing, appends each path once, and writes the whole store back.
func (r *Reconciler) commitBookmarks(paths []string) (int, error) {
	bm, err := r.readBookmarks()
	if err != nil {
		return 0, err
	}
	added := 0
	for _, p := range paths {
		if bm.Append(p, r.now()) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	out, err := bm.Marshal()
	if err != nil {
		return 0, err
	}
	if err := r.store.Write(r.bookmarksPath, out); err != nil {
		return 0, fmt.Errorf("reconcile: write bookmarks: %w", err)
	}
	return added, nil
}

// mergeFavorites re-reads the config text, merges names into the
// extracted favorites, and splices the sorted result back.
func (r *Reconciler) mergeFavorites(names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	text, err := r.readConfigText()
	if err != nil {
		return 0, err
	}
	existing := toSet(logseq.ExtractFavorites(text))
	added := 0
	merged := make([]string, 0, len(existing)+len(names))
	for n := range existing {
		merged = append(merged, n)
	}
	for _, n := range names {
		if _, ok := existing[n]; !ok {
			merged = append(merged, n)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	if err := r.store.Write(r.configPath, []byte(logseq.SpliceFavorites(text, merged))); err != nil {
		return 0, fmt.Errorf("reconcile: write favorites: %w", err)
	}
	return added, nil
}

// ResolveAmbiguous commits the user's candidate choice for one
// ambiguous name by bookmarking exactly that path.
func (r *Reconciler) ResolveAmbiguous(name, chosenPath string) error {
	files, err := r.store.List("")
	if err != nil {
		return fmt.Errorf("reconcile: list corpus: %w", err)
	}
	idx := resolve.NewIndex(files)
	f, ok := idx.ByPath(chosenPath)
	if !ok || f.Basename != name {
		return fmt.Errorf("reconcile: %s is not a candidate for %q", chosenPath, name)
	}
	_, err = r.commitBookmarks([]string{chosenPath})
	return err
}

// CreateMissing creates an empty page for a name that resolved to no
// file, then bookmarks it.
func (r *Reconciler) CreateMissing(name string) (models.CorpusFile, error) {
	path := r.pagesFolder + "/" + name + ".md"
	if err := r.store.Create(path); err != nil {
		return models.CorpusFile{}, fmt.Errorf("reconcile: create page: %w", err)
	}
	if _, err := r.commitBookmarks([]string{path}); err != nil {
		return models.CorpusFile{}, err
	}
	return models.CorpusFile{Path: path, Basename: name}, nil
}

// readConfigText reads the Logseq config. A missing config is fatal to
// the operation: the vault is not Logseq-managed.
func (r *Reconciler) readConfigText() (string, error) {
	data, err := r.store.Read(r.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reconcile: %s: %w", r.configPath, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("reconcile: read %s: %w", r.configPath, err)
	}
	return string(data), nil
}

// readBookmarks reads the Obsidian bookmark store. A missing file is an
// empty store; an unparsable one is fatal.
func (r *Reconciler) readBookmarks() (*obsidian.Bookmarks, error) {
	data, err := r.store.Read(r.bookmarksPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return obsidian.NewBookmarks(), nil
		}
		return nil, fmt.Errorf("reconcile: read bookmarks: %w", err)
	}
	return obsidian.ParseBookmarks(data)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
