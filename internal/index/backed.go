package index

import (
	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/storage"
)

// backed serves corpus enumeration from the persistent index while
// delegating every other file operation to the underlying provider.
type backed struct {
	storage.Provider
	db *DB
}

// Backed wraps a provider so that List is answered from the index
// instead of a full vault walk. Serve mode uses this to avoid the
// rebuild-per-operation snapshot; behavior is otherwise identical
// because the watcher keeps the index current.
func Backed(store storage.Provider, db *DB) storage.Provider {
	return &backed{Provider: store, db: db}
}

func (b *backed) List(dir string) ([]models.CorpusFile, error) {
	rows, err := b.db.Files()
	if err != nil {
		return nil, err
	}
	out := make([]models.CorpusFile, 0, len(rows))
	for _, r := range rows {
		if dir != "" && !hasDirPrefix(r.Path, dir) {
			continue
		}
		out = append(out, models.CorpusFile{Path: r.Path, Basename: r.Basename})
	}
	return out, nil
}

func hasDirPrefix(path, dir string) bool {
	return len(path) > len(dir)+1 && path[:len(dir)] == dir && path[len(dir)] == '/'
}
