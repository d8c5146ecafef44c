package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrStoreCorrupt marks an unparsable JSON root in an external store.
	// Operations that hit it abort without partial writes.
	ErrStoreCorrupt = errors.New("store corrupt")
)
