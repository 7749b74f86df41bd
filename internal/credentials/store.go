// Package credentials persists the local credentials file read by the tool
// provider at runtime.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/storage"
)

// FileName is the credentials file name inside the app config directory.
const FileName = "config.json"

const fileMode fs.FileMode = 0o600

var noWhitespaceRe = regexp.MustCompile(`^\S*$`)

// Store reads and writes the credentials file at a fixed path.
type Store struct {
	path  string
	files storage.Provider
}

// NewStore creates a Store for the file at path.
func NewStore(path string, files storage.Provider) *Store {
	return &Store{path: path, files: files}
}

// DefaultPath returns <user config dir>/<appDir>/config.json.
func DefaultPath(appDir string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credentials: config dir: %w", err)
	}
	return filepath.Join(base, appDir, FileName), nil
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the credentials file. A missing file yields empty credentials.
// A file that exists but cannot be decoded is reported as
// apperr.ErrCorruptConfig and left untouched.
func (s *Store) Load() (models.Credentials, error) {
	data, err := s.files.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Credentials{Version: models.CredentialsVersion}, nil
		}
		return models.Credentials{}, &apperr.IOError{Op: "read", Path: s.path, Err: err}
	}
	var c models.Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Credentials{}, fmt.Errorf("credentials: %s: %w: %v", s.path, apperr.ErrCorruptConfig, err)
	}
	if c.Version == 0 {
		c.Version = models.CredentialsVersion
	}
	return c, nil
}

// Save atomically replaces the credentials file with c. Field contents are
// stored as given; Validate reports format problems separately.
func (s *Store) Save(c models.Credentials) error {
	c.Version = models.CredentialsVersion
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}
	data = append(data, '\n')
	if err := s.files.Write(s.path, data, fileMode); err != nil {
		return &apperr.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Validate checks field formats for display. Unset fields are always valid.
// It never blocks a Save, so a half-typed value still persists.
func Validate(c models.Credentials) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIToken, validation.Match(noWhitespaceRe).Error("must not contain whitespace")),
		validation.Field(&c.AgentEmail, is.EmailFormat),
	)
}
