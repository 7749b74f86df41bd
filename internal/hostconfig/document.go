// Package hostconfig loads, edits and saves a host application's JSON
// configuration file while preserving every key it does not own.
//
// The document keeps top-level members as raw JSON in their original order.
// Only the mcpServers member is decoded, and only the server entry being
// edited is re-encoded; every other value is written back exactly as read,
// modulo indentation.
package hostconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/storage"
)

// ServersKey is the top-level member holding the server registry.
const ServersKey = "mcpServers"

// FileMode is used when a host file is created from scratch.
const FileMode fs.FileMode = 0o644

type rawMap = orderedmap.OrderedMap[string, json.RawMessage]

// Document is the in-memory form of one host configuration file.
type Document struct {
	root *rawMap
}

// New returns an empty document.
func New() *Document {
	return &Document{root: orderedmap.New[string, json.RawMessage]()}
}

// Parse decodes data into a Document. Empty or whitespace-only input yields
// an empty document. The top level must be a JSON object.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return New(), nil
	}
	root, err := decodeObject(trimmed)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Load reads and parses the file at path. A missing file is not an error and
// yields an empty document. Unparseable content yields *apperr.MalformedError.
func Load(store storage.Provider, path string) (*Document, error) {
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, &apperr.IOError{Op: "read", Path: path, Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &apperr.MalformedError{Path: path, Err: err}
	}
	return doc, nil
}

// Save serialises the document and atomically replaces the file at path.
func (d *Document) Save(store storage.Provider, path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := store.Write(path, data, FileMode); err != nil {
		return &apperr.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Bytes returns the pretty-printed document with a trailing newline.
func (d *Document) Bytes() ([]byte, error) {
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("hostconfig: encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("hostconfig: indent: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Keys returns the top-level member names in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.root.Len())
	for pair := d.root.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Raw returns the raw JSON of a top-level member.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	return d.root.Get(key)
}

// Servers returns the registered server names in document order.
func (d *Document) Servers() ([]string, error) {
	servers, err := d.servers()
	if err != nil || servers == nil {
		return nil, err
	}
	names := make([]string, 0, servers.Len())
	for pair := servers.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names, nil
}

// Registration looks up the entry stored under name. A missing registry, a
// missing key or a null value reports ok=false without error.
func (d *Document) Registration(name string) (models.RegistrationEntry, bool, error) {
	servers, err := d.servers()
	if err != nil || servers == nil {
		return models.RegistrationEntry{}, false, err
	}
	raw, ok := servers.Get(name)
	if !ok || isNull(raw) {
		return models.RegistrationEntry{}, false, nil
	}
	var entry models.RegistrationEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.RegistrationEntry{}, false, fmt.Errorf("%w: %s.%s: %v", apperr.ErrMalformedDocument, ServersKey, name, err)
	}
	return entry, true, nil
}

// RawRegistration returns the undecoded value stored under name.
func (d *Document) RawRegistration(name string) (json.RawMessage, bool, error) {
	servers, err := d.servers()
	if err != nil || servers == nil {
		return nil, false, err
	}
	raw, ok := servers.Get(name)
	return raw, ok, nil
}

// SetRegistration inserts or replaces the entry under name, creating the
// registry if absent. Sibling servers and all other members are untouched.
func (d *Document) SetRegistration(name string, entry models.RegistrationEntry) error {
	servers, err := d.servers()
	if err != nil {
		return err
	}
	if servers == nil {
		servers = orderedmap.New[string, json.RawMessage]()
	}
	if entry.Args == nil {
		entry.Args = []string{}
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("hostconfig: encode entry: %w", err)
	}
	servers.Set(name, raw)
	return d.putServers(servers)
}

// RemoveRegistration deletes the entry under name and reports whether it
// existed. An emptied registry is kept as {}.
func (d *Document) RemoveRegistration(name string) (bool, error) {
	servers, err := d.servers()
	if err != nil || servers == nil {
		return false, err
	}
	if _, present := servers.Delete(name); !present {
		return false, nil
	}
	return true, d.putServers(servers)
}

// servers decodes the registry member. A missing or null member yields nil.
func (d *Document) servers() (*rawMap, error) {
	raw, ok := d.root.Get(ServersKey)
	if !ok || isNull(raw) {
		return nil, nil
	}
	servers, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrMalformedDocument, ServersKey, err)
	}
	return servers, nil
}

func (d *Document) putServers(servers *rawMap) error {
	raw, err := servers.MarshalJSON()
	if err != nil {
		return fmt.Errorf("hostconfig: encode %s: %w", ServersKey, err)
	}
	d.root.Set(ServersKey, raw)
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeObject(data []byte) (*rawMap, error) {
	if !json.Valid(data) {
		// Let encoding/json describe what is wrong.
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid JSON")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("top level is not a JSON object")
	}
	m := orderedmap.New[string, json.RawMessage]()
	if err := m.UnmarshalJSON(trimmed); err != nil {
		return nil, err
	}
	return m, nil
}
