// Package resolve maps bare page names to candidate vault files.
package resolve

import "github.com/halvard/bifrost/internal/models"

// State classifies the outcome of resolving one name.
type State string

const (
	// Missing: no file in the corpus carries the name.
	Missing State = "missing"
	// Unique: exactly one candidate, safe to act on without confirmation.
	Unique State = "unique"
	// Ambiguous: two or more candidates, user must choose.
	Ambiguous State = "ambiguous"
	// AlreadyLinked: multiple candidates but one is already recorded,
	// treated as synced and dropped silently.
	AlreadyLinked State = "already_linked"
)

// Resolution is the classification for one queried name.
type Resolution struct {
	Name       string              `json:"name"`
	State      State               `json:"state"`
	Candidates []models.CorpusFile `json:"candidates,omitempty"`
}

// Index is a snapshot of the corpus keyed by basename, built once per
// operation. Files created or renamed after the snapshot are not
// re-discovered within the same operation.
type Index struct {
	byName map[string][]models.CorpusFile
	byPath map[string]models.CorpusFile
	files  []models.CorpusFile
}

// NewIndex builds the basename multimap in a single pass, preserving
// corpus enumeration order within each name bucket.
func NewIndex(files []models.CorpusFile) *Index {
	idx := &Index{
		byName: make(map[string][]models.CorpusFile, len(files)),
		byPath: make(map[string]models.CorpusFile, len(files)),
		files:  files,
	}
	for _, f := range files {
		idx.byName[f.Basename] = append(idx.byName[f.Basename], f)
		idx.byPath[f.Path] = f
	}
	return idx
}

// Files returns the snapshot in enumeration order.
func (idx *Index) Files() []models.CorpusFile {
	return idx.files
}

// ByPath looks a file up by its exact path.
func (idx *Index) ByPath(path string) (models.CorpusFile, bool) {
	f, ok := idx.byPath[path]
	return f, ok
}

// Resolve classifies name against the snapshot. alreadyLinked holds
// paths recorded as bookmarked/favorited; when an ambiguous name has a
// candidate among them the whole name is treated as already synced.
// Candidate order (and the implied default selection, the first entry)
// follows corpus enumeration order, not a sort.
func (idx *Index) Resolve(name string, alreadyLinked map[string]struct{}) Resolution {
	candidates := idx.byName[name]
	switch len(candidates) {
	case 0:
		return Resolution{Name: name, State: Missing}
	case 1:
		return Resolution{Name: name, State: Unique, Candidates: candidates}
	}
	for _, c := range candidates {
		if _, ok := alreadyLinked[c.Path]; ok {
			return Resolution{Name: name, State: AlreadyLinked, Candidates: candidates}
		}
	}
	return Resolution{Name: name, State: Ambiguous, Candidates: candidates}
}
