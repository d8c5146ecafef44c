// Package storage defines the vault file-system abstraction.
package storage

import "github.com/halvard/bifrost/internal/models"

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// List returns path+basename for every .md file under dir.
	List(dir string) ([]models.CorpusFile, error)
	// ListFolders returns every directory under dir, excluding dir itself.
	ListFolders(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Rename moves oldPath to newPath, creating intermediate folders.
	Rename(oldPath, newPath string) error
	// Create writes a new empty file at path; fails if it already exists.
	Create(path string) error
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
}
