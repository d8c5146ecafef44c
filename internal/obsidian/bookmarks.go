// Package obsidian reads and rewrites the Obsidian JSON stores: the
// bookmarks file and the app / daily-notes config files.
package obsidian

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/halvard/bifrost/internal/apperr"
)

// ItemTypeFile marks bookmark items that reference a vault file.
const ItemTypeFile = "file"

// Item is the decoded view of one bookmark entry. Unknown keys of
// existing entries survive via the raw form kept alongside.
type Item struct {
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
	Ctime int64  `json:"ctime,omitempty"`
}

// Bookmarks is the bookmark store root object. The root and every
// pre-existing item are kept in raw form so unknown keys round-trip.
type Bookmarks struct {
	root  map[string]json.RawMessage
	items []json.RawMessage
	views []Item
}

// NewBookmarks returns an empty store with an items array.
func NewBookmarks() *Bookmarks {
	return &Bookmarks{root: map[string]json.RawMessage{}}
}

// ParseBookmarks decodes the store. An unparsable root is fatal to the
// calling operation and reported as apperr.ErrStoreCorrupt.
func ParseBookmarks(data []byte) (*Bookmarks, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("obsidian: parse bookmarks: %w: %v", apperr.ErrStoreCorrupt, err)
	}
	// A literal null root unmarshals without error into a nil map.
	if root == nil {
		return nil, fmt.Errorf("obsidian: parse bookmarks: %w: root is not an object", apperr.ErrStoreCorrupt)
	}
	b := &Bookmarks{root: root}
	if raw, ok := root["items"]; ok {
		if err := json.Unmarshal(raw, &b.items); err != nil {
			return nil, fmt.Errorf("obsidian: parse bookmark items: %w: %v", apperr.ErrStoreCorrupt, err)
		}
	}
	b.views = make([]Item, len(b.items))
	for i, raw := range b.items {
		// Per-item decode failures leave a zero view; the raw form
		// still round-trips on write.
		_ = json.Unmarshal(raw, &b.views[i])
	}
	return b, nil
}

// Items returns the decoded view of all entries, in store order.
func (b *Bookmarks) Items() []Item {
	return b.views
}

// FilePaths returns the paths of all type=="file" entries, in store order.
func (b *Bookmarks) FilePaths() []string {
	var out []string
	for _, it := range b.views {
		if it.Type == ItemTypeFile && it.Path != "" {
			out = append(out, it.Path)
		}
	}
	return out
}

// HasPath reports whether a file entry for path already exists.
func (b *Bookmarks) HasPath(path string) bool {
	for _, it := range b.views {
		if it.Type == ItemTypeFile && it.Path == path {
			return true
		}
	}
	return false
}

// Append adds a new file entry unless one for path already exists.
// It reports whether an entry was added.
func (b *Bookmarks) Append(path string, now time.Time) bool {
	if b.HasPath(path) {
		return false
	}
	it := Item{Type: ItemTypeFile, Path: path, Ctime: now.UnixMilli()}
	raw, err := json.Marshal(it)
	if err != nil {
		return false
	}
	b.items = append(b.items, raw)
	b.views = append(b.views, it)
	return true
}

// Marshal serializes the full store with 2-space indentation, keeping
// unknown root keys and pre-existing item bytes intact.
func (b *Bookmarks) Marshal() ([]byte, error) {
	itemsRaw, err := json.Marshal(b.items)
	if err != nil {
		return nil, fmt.Errorf("obsidian: marshal items: %w", err)
	}
	if b.items == nil {
		itemsRaw = []byte("[]")
	}
	b.root["items"] = itemsRaw
	out, err := json.MarshalIndent(b.root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("obsidian: marshal bookmarks: %w", err)
	}
	return out, nil
}
