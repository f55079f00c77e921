package client

import "github.com/thoreinstein/overture/internal/overture"

// Adapter is the contract every supported client implements. It
// encapsulates one client's config-file shape and capabilities.
//
// Implementations are stateless beyond identity and must be safe for
// concurrent use. Capability methods return static data that does not
// change during the lifetime of an adapter instance.
type Adapter interface {
	// Name returns the client identifier (claude-code, claude-desktop,
	// cursor, vscode, gemini, codex).
	Name() string

	// RootKey returns the JSON property (or TOML table) under which the
	// client stores its MCP servers, e.g. "mcpServers" vs "servers".
	RootKey() string

	// DetectConfigPath returns the client's config file path for the given
	// OS platform (GOOS style: darwin, linux, windows). When projectRoot is
	// non-empty and the client supports project-scoped config, the
	// project-level path is returned instead of the user-level one.
	// Returns "" only when the client has no addressable config location
	// on this platform. The result is a pure function of platform
	// conventions; it does not consult the filesystem.
	DetectConfigPath(platform, projectRoot string) string

	// ReadConfig reads and parses the config file at path. A missing file
	// yields an empty-but-valid ConfigFile; a file missing the root key is
	// treated as empty too, since that is indistinguishable from a fresh
	// install. Unreadable or unparseable files fail with a wrapped
	// errors.ErrConfigRead annotated with the client name and path.
	ReadConfig(path string) (*ConfigFile, error)

	// WriteConfig serializes file and writes it to path, creating parent
	// directories as needed. I/O failures surface as wrapped
	// errors.ErrConfigWrite.
	WriteConfig(path string, file *ConfigFile) error

	// ConvertFromOverture applies the per-client filter and override
	// resolution to every server in cfg and returns the client-shaped
	// config file. It never touches the filesystem.
	ConvertFromOverture(cfg *overture.MergedConfig, platform string) (*ConfigFile, error)

	// SupportsTransport reports whether the client can launch servers
	// over the given transport.
	SupportsTransport(t overture.Transport) bool

	// NeedsEnvExpansion reports whether ${VAR} tokens in env values must
	// be substituted before writing, because the client's own runtime does
	// not expand them. Clients that expand natively must receive the
	// literal token unchanged.
	NeedsEnvExpansion() bool

	// IsInstalled reports whether DetectConfigPath yields a usable
	// location on this platform. This is a path-addressability proxy;
	// actual binary detection is the discovery subsystem's concern.
	IsInstalled(platform string) bool

	// BinaryNames returns candidate executable names for PATH probing,
	// in preference order.
	BinaryNames() []string

	// BundlePaths returns OS-specific application bundle paths to check
	// for installation, for clients that ship as desktop apps.
	BundlePaths(platform string) []string

	// RequiresBinary reports whether the binary probe must succeed for the
	// client to count as found. Desktop apps without a CLI return false.
	RequiresBinary() bool
}
