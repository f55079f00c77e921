package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/pkg/fileutil"
)

// ServerDef is one server entry in a client's on-disk shape. Adapters fill
// only the fields their client understands: Claude-family clients use Type,
// VS Code uses Type under a "servers" root, Cursor infers the transport
// from the presence of URL.
//
// Args uses omitzero rather than omitempty: a stdio entry's empty list
// still serializes as "args": [], while url-only entries leave it nil and
// omit the field.
type ServerDef struct {
	Command   string            `json:"command,omitempty" toml:"command,omitempty"`
	Args      []string          `json:"args,omitzero" toml:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty" toml:"env,omitempty"`
	Type      string            `json:"type,omitempty" toml:"type,omitempty"`
	Transport string            `json:"transport,omitempty" toml:"transport,omitempty"`
	URL       string            `json:"url,omitempty" toml:"url,omitempty"`
}

// Equal reports whether two server entries are identical.
func (d *ServerDef) Equal(other *ServerDef) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d, other)
}

// ConfigFile is a client config file: a map of server entries under the
// client's root key, plus whatever sibling keys the file already carried.
// Sibling keys round-trip untouched so a sync never clobbers unrelated
// client settings living in the same file.
type ConfigFile struct {
	rootKey string
	Servers map[string]*ServerDef

	// siblings stores top-level keys other than the root key.
	siblings map[string]any
}

// NewConfigFile creates an empty config file shell for the given root key.
func NewConfigFile(rootKey string) *ConfigFile {
	return &ConfigFile{
		rootKey: rootKey,
		Servers: make(map[string]*ServerDef),
	}
}

// RootKey returns the JSON property under which servers live.
func (f *ConfigFile) RootKey() string {
	return f.rootKey
}

// ServerNames returns the entry names sorted for deterministic iteration.
func (f *ConfigFile) ServerNames() []string {
	names := make([]string, 0, len(f.Servers))
	for name := range f.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Siblings returns the preserved top-level keys other than the root key.
// The returned map is the live store; callers must not mutate it unless
// they own the file.
func (f *ConfigFile) Siblings() map[string]any {
	return f.siblings
}

// SetSibling records a top-level key to be preserved alongside the root key.
func (f *ConfigFile) SetSibling(key string, value any) {
	if f.siblings == nil {
		f.siblings = make(map[string]any)
	}
	f.siblings[key] = value
}

// Document returns the full top-level document: preserved siblings plus
// the server map under the root key. Shared by the JSON and TOML encoders.
func (f *ConfigFile) Document() map[string]any {
	result := make(map[string]any, len(f.siblings)+1)
	for k, v := range f.siblings {
		result[k] = v
	}
	result[f.rootKey] = f.Servers
	return result
}

// MarshalJSON emits the root key plus preserved sibling keys.
func (f *ConfigFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Document())
}

// DecodeConfig parses raw JSON into a ConfigFile for the given root key.
// A document without the root key decodes to an empty server map with all
// top-level keys preserved as siblings.
func DecodeConfig(data []byte, rootKey string) (*ConfigFile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	f := NewConfigFile(rootKey)

	if serversData, ok := raw[rootKey]; ok {
		if err := json.Unmarshal(serversData, &f.Servers); err != nil {
			return nil, err
		}
		delete(raw, rootKey)
	}
	if f.Servers == nil {
		f.Servers = make(map[string]*ServerDef)
	}

	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		f.SetSibling(k, val)
	}

	return f, nil
}

// ReadJSONConfig is the shared ReadConfig implementation for JSON clients.
// A missing file yields an empty shell; parse failures are wrapped with the
// client name and path.
func ReadJSONConfig(clientName, path, rootKey string) (*ConfigFile, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewConfigFile(rootKey), nil
		}
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err),
			"client %s: %s", clientName, path)
	}

	f, err := DecodeConfig(data, rootKey)
	if err != nil {
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err),
			"client %s: parsing %s", clientName, path)
	}

	return f, nil
}

// WriteJSONConfig is the shared WriteConfig implementation for JSON
// clients. Parent directories are created as needed and the file is
// written atomically as pretty JSON.
func WriteJSONConfig(clientName, path string, file *ConfigFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigWrite, err),
			"client %s: creating directory for %s", clientName, path)
	}

	if err := fileutil.AtomicWriteJSON(path, file); err != nil {
		return errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigWrite, err),
			"client %s: %s", clientName, path)
	}

	return nil
}
