// Package vscode implements the adapter for Visual Studio Code.
package vscode

import (
	"path/filepath"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Name is the client identifier for VS Code.
const Name = "vscode"

// VS Code is the odd one out: servers live under "servers", not
// "mcpServers".
const rootKey = "servers"

// Adapter translates canonical server definitions into VS Code's mcp.json.
type Adapter struct{}

// New creates a VS Code adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the JSON property holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns <project>/.vscode/mcp.json when projectRoot is
// set, otherwise the per-OS user profile mcp.json.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	if projectRoot != "" {
		return filepath.Join(projectRoot, ".vscode", "mcp.json")
	}
	home := paths.Home()
	if home == "" {
		return ""
	}
	switch platform {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Code", "User", "mcp.json")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Code", "User", "mcp.json")
	default:
		return filepath.Join(home, ".config", "Code", "User", "mcp.json")
	}
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

// SupportsTransport reports transport support. VS Code speaks all three.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t.Valid()
}

// NeedsEnvExpansion is false: VS Code resolves variables in its config
// itself and must see them unchanged.
func (a *Adapter) NeedsEnvExpansion() bool { return false }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns candidate executables for PATH probing, stable
// channel first.
func (a *Adapter) BinaryNames() []string { return []string{"code", "code-insiders"} }

// BundlePaths returns the app bundle locations to probe per platform.
func (a *Adapter) BundlePaths(platform string) []string {
	switch platform {
	case "darwin":
		return []string{"/Applications/Visual Studio Code.app"}
	default:
		return nil
	}
}

// RequiresBinary is false: the app bundle probe can stand in for the CLI.
func (a *Adapter) RequiresBinary() bool { return false }
