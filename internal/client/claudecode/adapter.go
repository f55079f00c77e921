// Package claudecode implements the adapter for the Claude Code CLI.
package claudecode

import (
	"path/filepath"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Name is the client identifier for Claude Code.
const Name = "claude-code"

const rootKey = "mcpServers"

// Adapter translates canonical server definitions into Claude Code's
// config shape. User-level servers live in ~/.claude.json, project-level
// ones in <project>/.mcp.json, both under a "mcpServers" key with a
// "type" field naming the transport.
type Adapter struct{}

// New creates a Claude Code adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the JSON property holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns the project .mcp.json when projectRoot is set,
// otherwise the user-level ~/.claude.json.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	if projectRoot != "" {
		return filepath.Join(projectRoot, ".mcp.json")
	}
	home := paths.Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".claude.json")
}

// ReadConfig reads the config file at path.
func (a *Adapter) ReadConfig(path string) (*client.ConfigFile, error) {
	return client.ReadJSONConfig(Name, path, rootKey)
}

// WriteConfig writes the config file to path.
func (a *Adapter) WriteConfig(path string, file *client.ConfigFile) error {
	return client.WriteJSONConfig(Name, path, file)
}

// ConvertFromOverture resolves every server for this client and platform.
func (a *Adapter) ConvertFromOverture(cfg *overture.MergedConfig, platform string) (*client.ConfigFile, error) {
	return client.Convert(cfg, platform, a, encode), nil
}

func encode(r *client.Resolved) *client.ServerDef {
	def := &client.ServerDef{
		Type: string(r.Transport),
		Env:  r.Env,
	}
	if r.Transport == overture.TransportStdio {
		def.Command = r.Command
		def.Args = r.Args
	} else {
		def.URL = r.URL
	}
	return def
}

// SupportsTransport reports transport support. Claude Code speaks all three.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t.Valid()
}

// NeedsEnvExpansion is false: Claude Code expands ${VAR} tokens itself and
// must receive them literally.
func (a *Adapter) NeedsEnvExpansion() bool { return false }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns candidate executables for PATH probing.
func (a *Adapter) BinaryNames() []string { return []string{"claude"} }

// BundlePaths returns nil; Claude Code ships as a CLI, not an app bundle.
func (a *Adapter) BundlePaths(platform string) []string { return nil }

// RequiresBinary is true: without the claude binary there is nothing to
// launch the servers.
func (a *Adapter) RequiresBinary() bool { return true }
