// Package gemini implements the adapter for the Gemini CLI.
package gemini

import (
	"path/filepath"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Name is the client identifier for the Gemini CLI.
const Name = "gemini"

const rootKey = "mcpServers"

// Adapter translates canonical server definitions into the mcpServers
// section of Gemini's settings.json. Sync preserves every other settings
// key in the file.
type Adapter struct{}

// New creates a Gemini adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the JSON property holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns <project>/.gemini/settings.json when projectRoot
// is set, otherwise ~/.gemini/settings.json.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	if projectRoot != "" {
		return filepath.Join(projectRoot, ".gemini", "settings.json")
	}
	home := paths.Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".gemini", "settings.json")
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
	if r.Transport == overture.TransportStdio {
		return &client.ServerDef{
			Command: r.Command,
			Args:    r.Args,
			Env:     r.Env,
		}
	}
	return &client.ServerDef{
		URL: r.URL,
		Env: r.Env,
	}
}

// SupportsTransport reports transport support: stdio and SSE.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t == overture.TransportStdio || t == overture.TransportSSE
}

// NeedsEnvExpansion is false: the Gemini CLI expands env references in its
// settings natively.
func (a *Adapter) NeedsEnvExpansion() bool { return false }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns candidate executables for PATH probing.
func (a *Adapter) BinaryNames() []string { return []string{"gemini"} }

// BundlePaths returns nil; the Gemini CLI has no app bundle.
func (a *Adapter) BundlePaths(platform string) []string { return nil }

// RequiresBinary is true.
func (a *Adapter) RequiresBinary() bool { return true }
