// Package config loads the tool's own settings and the server definition
// files, and merges the user-global and project-local definitions into the
// single view the sync engine consumes.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/overture/internal/paths"
)

// Settings is the tool configuration from config.yaml, distinct from the
// server definitions in servers.yaml.
type Settings struct {
	Version   int               `mapstructure:"version" yaml:"version"`
	Log       LogSettings       `mapstructure:"log" yaml:"log"`
	Backup    BackupSettings    `mapstructure:"backup" yaml:"backup"`
	Discovery DiscoverySettings `mapstructure:"discovery" yaml:"discovery"`
}

// LogSettings controls log output.
type LogSettings struct {
	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`

	// File, when set, duplicates log output into this file.
	File string `mapstructure:"file" yaml:"file"`
}

// BackupSettings controls pre-sync config snapshots.
type BackupSettings struct {
	// Dir overrides the default backup root under the state directory.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// RetentionCount bounds the backups kept per client.
	RetentionCount int `mapstructure:"retention_count" yaml:"retention_count"`
}

// DiscoverySettings controls how client installations are located.
type DiscoverySettings struct {
	// Mode is "auto", "native" or "wsl2".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Clients holds per-client discovery overrides keyed by client id.
	Clients map[string]ClientDiscovery `mapstructure:"clients" yaml:"clients"`

	// ExtraProfileRoots adds Windows profile directories to the WSL2
	// fallback search.
	ExtraProfileRoots []string `mapstructure:"extra_profile_roots" yaml:"extra_profile_roots"`
}

// ClientDiscovery is a per-client discovery override.
type ClientDiscovery struct {
	// Disabled removes the client from discovery and from default sync
	// target selection. A client named explicitly with --client still syncs.
	Disabled bool `mapstructure:"disabled" yaml:"disabled"`

	// BinaryPath pins the client binary location, skipping the PATH probe.
	BinaryPath string `mapstructure:"binary_path" yaml:"binary_path"`

	// ConfigPath pins the client config location, skipping detection.
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
}

// Init initializes Viper with defaults and environment support.
// Call once at startup before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("OVERTURE")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("log.format", "text")
	viper.SetDefault("backup.retention_count", 0)
	viper.SetDefault("discovery.mode", "auto")
}

// Load reads settings. With a non-empty path, that exact file must exist;
// with an empty path, the default locations are searched and defaults are
// used when nothing is found.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if path != "" {
				return nil, errors.Wrapf(err, "settings file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading settings file")
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}

	return &s, nil
}
