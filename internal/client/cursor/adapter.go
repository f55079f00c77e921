// Package cursor implements the adapter for the Cursor editor.
package cursor

import (
	"path/filepath"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Name is the client identifier for Cursor.
const Name = "cursor"

const rootKey = "mcpServers"

// Adapter translates canonical server definitions into Cursor's mcp.json.
// Cursor infers the transport from the entry shape: a command means stdio,
// a url means SSE. There is no type field.
type Adapter struct{}

// New creates a Cursor adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the client identifier.
func (a *Adapter) Name() string { return Name }

// RootKey returns the JSON property holding server entries.
func (a *Adapter) RootKey() string { return rootKey }

// DetectConfigPath returns <project>/.cursor/mcp.json when projectRoot is
// set, otherwise ~/.cursor/mcp.json.
func (a *Adapter) DetectConfigPath(platform, projectRoot string) string {
	if projectRoot != "" {
		return filepath.Join(projectRoot, ".cursor", "mcp.json")
	}
	home := paths.Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".cursor", "mcp.json")
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
	// Remote entries are url-only; Cursor infers SSE from the url field.
	return &client.ServerDef{
		URL: r.URL,
		Env: r.Env,
	}
}

// SupportsTransport reports transport support: stdio and SSE, not
// streamable HTTP.
func (a *Adapter) SupportsTransport(t overture.Transport) bool {
	return t == overture.TransportStdio || t == overture.TransportSSE
}

// NeedsEnvExpansion is true: Cursor passes env values to the server
// process verbatim.
func (a *Adapter) NeedsEnvExpansion() bool { return true }

// IsInstalled reports whether a config location is addressable.
func (a *Adapter) IsInstalled(platform string) bool {
	return a.DetectConfigPath(platform, "") != ""
}

// BinaryNames returns candidate executables for PATH probing.
func (a *Adapter) BinaryNames() []string { return []string{"cursor"} }

// BundlePaths returns the app bundle locations to probe per platform.
func (a *Adapter) BundlePaths(platform string) []string {
	switch platform {
	case "darwin":
		return []string{"/Applications/Cursor.app"}
	case "windows":
		home := paths.Home()
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, "AppData", "Local", "Programs", "cursor")}
	default:
		return nil
	}
}

// RequiresBinary is false: the editor is usable without the cursor CLI
// shim on PATH.
func (a *Adapter) RequiresBinary() bool { return false }
