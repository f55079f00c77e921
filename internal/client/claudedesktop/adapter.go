// Package claudedesktop implements the adapter for the Claude Desktop app.
package claudedesktop

import (
	"path/filepath"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Name is the client identifier for Claude Desktop.
const Name = "claude-desktop"

const rootKey = "mcpServers"

// Adapter translates canonical server definitions into Claude Desktop's
// claude_desktop_config.json. The desktop app launches stdio servers only,
// has no project scope, and does not expand ${VAR} env tokens itself, so
// the launcher substitutes them before writing.
type Adapter struct{}

// New creates a Claude Desktop adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the JSON property holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns the app-support config path. Claude Desktop has
// no project scope, so projectRoot is ignored, and no Linux build, so the
// path is empty there.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	home := paths.Home()
	if home == "" {
		return ""
	}
	switch platform {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Claude", "claude_desktop_config.json")
	default:
		return ""
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

// Desktop entries carry no transport field; stdio is implied.
func encode(r *client.Resolved) *client.ServerDef {
	return &client.ServerDef{
		Command: r.Command,
		Args:    r.Args,
		Env:     r.Env,
	}
}

// SupportsTransport reports transport support; the desktop app launches
// stdio servers only.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t == overture.TransportStdio
}

// NeedsEnvExpansion is true: the desktop runtime passes env values through
// verbatim, so ${VAR} tokens must be resolved before writing.
func (a *Adapter) NeedsEnvExpansion() bool { return true }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns nil; Claude Desktop has no CLI entry point.
func (a *Adapter) BinaryNames() []string { return nil }

// BundlePaths returns the app bundle locations to probe per platform.
func (a *Adapter) BundlePaths(platform string) []string {
	switch platform {
	case "darwin":
		return []string{"/Applications/Claude.app"}
	case "windows":
		home := paths.Home()
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, "AppData", "Local", "AnthropicClaude")}
	default:
		return nil
	}
}

// RequiresBinary is false: the app bundle probe alone decides installation.
func (a *Adapter) RequiresBinary() bool { return false }
