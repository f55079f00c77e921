// Package codex implements the adapter for the Codex CLI.
//
// Codex is the only supported client whose config is TOML rather than
// JSON: servers live under the [mcp_servers] table of ~/.codex/config.toml
// alongside the rest of the CLI's settings, which sync must leave intact.
package codex

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/overture/internal/client"
	overtureerrors "github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
	"github.com/thoreinstein/overture/pkg/fileutil"
)

// Name is the client identifier for the Codex CLI.
const Name = "codex"

const rootKey = "mcp_servers"

// Adapter translates canonical server definitions into Codex's config.toml.
type Adapter struct{}

// New creates a Codex adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the TOML table holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns ~/.codex/config.toml. Codex has no project
// scope; projectRoot is ignored.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	home := paths.Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".codex", "config.toml")
}

// ReadConfig reads and parses the TOML config at path. A missing file or a
// file without the mcp_servers table yields an empty shell; sibling tables
// are preserved for the next write.
func (a *Adapter) ReadConfig(path string) (*client.ConfigFile, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return client.NewConfigFile(rootKey), nil
		}
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err),
			"client %s: %s", Name, path)
	}

	var typed struct {
		Servers map[string]*client.ServerDef `toml:"mcp_servers"`
	}
	if err := toml.Unmarshal(data, &typed); err != nil {
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err),
			"client %s: parsing %s", Name, path)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err),
			"client %s: parsing %s", Name, path)
	}

	f := client.NewConfigFile(rootKey)
	if typed.Servers != nil {
		f.Servers = typed.Servers
	}
	for k, v := range raw {
		if k != rootKey {
			f.SetSibling(k, v)
		}
	}

	return f, nil
}

// WriteConfig serializes the config as TOML and writes it atomically,
// creating parent directories as needed.
func (a *Adapter) WriteConfig(path string, file *client.ConfigFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigWrite, err),
			"client %s: creating directory for %s", Name, path)
	}

	data, err := toml.Marshal(file.Document())
	if err != nil {
		return errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigWrite, err),
			"client %s: encoding %s", Name, path)
	}

	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigWrite, err),
			"client %s: %s", Name, path)
	}

	return nil
}

// ConvertFromOverture resolves every server for this client and platform.
func (a *Adapter) ConvertFromOverture(cfg *overture.MergedConfig, platform string) (*client.ConfigFile, error) {
	return client.Convert(cfg, platform, a, encode), nil
}

func encode(r *client.Resolved) *client.ServerDef {
	return &client.ServerDef{
		Command: r.Command,
		Args:    r.Args,
		Env:     r.Env,
	}
}

// SupportsTransport reports transport support; Codex launches stdio
// servers only.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t == overture.TransportStdio
}

// NeedsEnvExpansion is true: Codex passes env values through verbatim.
func (a *Adapter) NeedsEnvExpansion() bool { return true }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns candidate executables for PATH probing.
func (a *Adapter) BinaryNames() []string { return []string{"codex"} }

// BundlePaths returns nil; Codex has no app bundle.
func (a *Adapter) BundlePaths(platform string) []string { return nil }

// RequiresBinary is true.
func (a *Adapter) RequiresBinary() bool { return true }
