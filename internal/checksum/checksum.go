// Package checksum fingerprints host and credentials files so callers can
// tell a real content change from a touch.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"

	"github.com/starford/mcpsetup/internal/storage"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// File returns the digest of the file at path, or "" when it does not exist.
func File(store storage.Provider, path string) (string, error) {
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return Sum(data), nil
}
