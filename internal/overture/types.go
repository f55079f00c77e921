package overture

import "sort"

// Transport identifies the communication channel an MCP server exposes.
type Transport string

// Transport type constants for MCP server communication.
const (
	// TransportStdio indicates local process communication via stdin/stdout.
	// This is the default transport when a Command is specified.
	TransportStdio Transport = "stdio"

	// TransportHTTP indicates remote server communication via streamable HTTP.
	TransportHTTP Transport = "http"

	// TransportSSE indicates remote server communication via Server-Sent Events.
	TransportSSE Transport = "sse"
)

// Valid reports whether t is one of the known transports.
func (t Transport) Valid() bool {
	switch t {
	case TransportStdio, TransportHTTP, TransportSSE:
		return true
	}
	return false
}

// Transports returns all known transports in canonical order.
func Transports() []Transport {
	return []Transport{TransportStdio, TransportHTTP, TransportSSE}
}

// ServerSpec is the canonical launch definition for one MCP server.
// It is owned by the merged configuration and immutable for a sync run;
// per-client variation is expressed through Clients and Platforms rules
// and applied at conversion time, never by mutating the spec.
type ServerSpec struct {
	// Name is the server's unique identifier, populated from the map key
	// when loading. Not serialized as it's the map key itself.
	Name string `yaml:"-" json:"-"`

	// Command is the executable for stdio servers.
	Command string `yaml:"command,omitempty" json:"command,omitempty"`

	// Args are command-line arguments passed to Command.
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`

	// Env contains environment variables passed to the server process.
	// Values may hold ${VAR} tokens; whether they are expanded before
	// writing depends on the target client's capabilities.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// URL is the endpoint for http/sse servers.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Transport is the communication channel. Defaults to stdio when a
	// Command is set and sse when only a URL is set.
	Transport Transport `yaml:"transport,omitempty" json:"transport,omitempty"`

	// Version optionally pins the server package version.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Clients holds per-client filtering and override rules.
	Clients *ClientRules `yaml:"clients,omitempty" json:"clients,omitempty"`

	// Platforms holds per-OS filtering and override rules.
	Platforms *PlatformRules `yaml:"platforms,omitempty" json:"platforms,omitempty"`
}

// EffectiveTransport returns the declared transport, or infers it from the
// presence of Command/URL when unset.
func (s *ServerSpec) EffectiveTransport() Transport {
	if s.Transport != "" {
		return s.Transport
	}
	if s.URL != "" && s.Command == "" {
		return TransportSSE
	}
	return TransportStdio
}

// ClientRules restricts and customizes a server per client.
type ClientRules struct {
	// Exclude lists client ids that must never receive this server.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// Include, when present, is an allow-list: only listed clients
	// receive the server.
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`

	// Overrides customizes individual fields per client id.
	Overrides map[string]*ServerOverride `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// ServerOverride holds per-client field replacements. Optional fields are
// pointers (or nil slices/maps) so "absent" and "set to zero value" stay
// distinguishable: an absent field leaves the resolved value untouched.
type ServerOverride struct {
	// Command, if present, replaces the resolved command.
	Command *string `yaml:"command,omitempty" json:"command,omitempty"`

	// Args, if present, replaces the entire resolved args list.
	// Positional args are order-sensitive, so merging would be ambiguous.
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`

	// Env is merged key-by-key into the resolved env; override values win
	// on key collision.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// URL, if present, replaces the resolved URL.
	URL *string `yaml:"url,omitempty" json:"url,omitempty"`

	// Transport, if present, replaces the transport in this client's
	// emitted record only. The eligibility filter has already run by the
	// time overrides apply; the override is not re-validated.
	Transport *Transport `yaml:"transport,omitempty" json:"transport,omitempty"`
}

// PlatformRules restricts and customizes a server per OS platform.
// Platform names follow GOOS conventions: darwin, linux, windows.
type PlatformRules struct {
	// Exclude lists platforms on which this server is never synced.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// CommandOverrides replaces the command on a given platform
	// (e.g. windows: gh.exe).
	CommandOverrides map[string]string `yaml:"command_overrides,omitempty" json:"command_overrides,omitempty"`

	// ArgsOverrides replaces the entire args list on a given platform.
	ArgsOverrides map[string][]string `yaml:"args_overrides,omitempty" json:"args_overrides,omitempty"`
}

// ClientSetting holds per-client toggles from the merged configuration.
type ClientSetting struct {
	// Enabled excludes the client from default sync targets when false.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// SyncPolicy holds sync behavior knobs from the merged configuration.
type SyncPolicy struct {
	// Backup disables pre-write backups when explicitly false.
	Backup *bool `yaml:"backup,omitempty" json:"backup,omitempty"`

	// RetentionCount bounds the number of backups kept per client.
	RetentionCount int `yaml:"retention_count,omitempty" json:"retention_count,omitempty"`
}

// BackupEnabled reports whether pre-write backups are on. Defaults to true.
func (p SyncPolicy) BackupEnabled() bool {
	return p.Backup == nil || *p.Backup
}

// MergedConfig is the validated, merged view of the user-global and
// project-local server definitions. Server names are unique; insertion
// order is irrelevant.
type MergedConfig struct {
	Version int                        `yaml:"version" json:"version"`
	Servers map[string]*ServerSpec     `yaml:"servers" json:"servers"`
	Clients map[string]*ClientSetting  `yaml:"clients,omitempty" json:"clients,omitempty"`
	Sync    SyncPolicy                 `yaml:"sync,omitempty" json:"sync,omitempty"`
}

// NewMergedConfig creates an empty MergedConfig with initialized maps.
func NewMergedConfig() *MergedConfig {
	return &MergedConfig{
		Version: 1,
		Servers: make(map[string]*ServerSpec),
	}
}

// ServerNames returns the server names sorted for deterministic iteration.
func (c *MergedConfig) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClientEnabled reports whether a client participates in default sync
// targets. Clients without an explicit setting are enabled.
func (c *MergedConfig) ClientEnabled(id string) bool {
	setting, ok := c.Clients[id]
	if !ok || setting == nil || setting.Enabled == nil {
		return true
	}
	return *setting.Enabled
}
