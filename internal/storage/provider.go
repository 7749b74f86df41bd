// Package storage provides crash-safe file access for host and credentials files.
package storage

import "io/fs"

// Provider is the interface for reading and atomically replacing files.
type Provider interface {
	// Read returns the raw bytes of the file at path. A missing file yields
	// an error matching fs.ErrNotExist.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path, creating parent directories.
	// perm applies only when the file does not exist yet.
	Write(path string, content []byte, perm fs.FileMode) error
	// Exists reports whether a regular file or directory exists at path.
	Exists(path string) bool
}
