package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
	"github.com/thoreinstein/overture/pkg/fileutil"
)

// LoadServers builds the merged server configuration: the user-global
// servers.yaml overlaid with the project-local .overture.yaml found under
// projectRoot. A server defined in both files takes the project definition
// wholesale; there is no field-level merge between scopes.
//
// At least one of the two files must exist.
func LoadServers(projectRoot string) (*overture.MergedConfig, error) {
	user, err := loadServerFile(paths.ServersPath())
	if err != nil {
		return nil, err
	}

	var project *overture.MergedConfig
	if projectRoot != "" {
		project, err = loadServerFile(filepath.Join(projectRoot, paths.ProjectConfigName))
		if err != nil {
			return nil, err
		}
	}

	if user == nil && project == nil {
		return nil, errors.Wrapf(overtureerrors.ErrNotFound,
			"no server definitions: create %s or %s", paths.ServersPath(), paths.ProjectConfigName)
	}

	merged := Merge(user, project)
	if err := validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// Merge overlays project onto user. Either argument may be nil.
func Merge(user, project *overture.MergedConfig) *overture.MergedConfig {
	merged := overture.NewMergedConfig()

	for _, src := range []*overture.MergedConfig{user, project} {
		if src == nil {
			continue
		}
		if src.Version != 0 {
			merged.Version = src.Version
		}
		for name, spec := range src.Servers {
			merged.Servers[name] = spec
		}
		for id, setting := range src.Clients {
			if merged.Clients == nil {
				merged.Clients = make(map[string]*overture.ClientSetting)
			}
			merged.Clients[id] = setting
		}
		if src.Sync.Backup != nil {
			merged.Sync.Backup = src.Sync.Backup
		}
		if src.Sync.RetentionCount != 0 {
			merged.Sync.RetentionCount = src.Sync.RetentionCount
		}
	}

	return merged
}

// loadServerFile parses one definition file. A missing file returns
// (nil, nil); the caller decides whether absence is acceptable.
func loadServerFile(path string) (*overture.MergedConfig, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrConfigRead, err), "%s", path)
	}

	var cfg overture.MergedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(
			errors.WithSecondaryError(overtureerrors.ErrInvalidConfig, err), "parsing %s", path)
	}

	// Map keys are the server names; copy them onto the specs.
	for name, spec := range cfg.Servers {
		if spec == nil {
			spec = &overture.ServerSpec{}
			cfg.Servers[name] = spec
		}
		spec.Name = name
	}

	return &cfg, nil
}

// validate rejects definitions the sync engine cannot act on.
func validate(cfg *overture.MergedConfig) error {
	for _, name := range cfg.ServerNames() {
		spec := cfg.Servers[name]

		if spec.Command == "" && spec.URL == "" {
			return errors.Wrapf(overtureerrors.ErrInvalidConfig,
				"server %q: either command or url is required", name)
		}
		if spec.Transport != "" && !spec.Transport.Valid() {
			return errors.Wrapf(overtureerrors.ErrInvalidConfig,
				"server %q: unknown transport %q", name, spec.Transport)
		}
		if spec.EffectiveTransport() == overture.TransportStdio && spec.Command == "" {
			return errors.Wrapf(overtureerrors.ErrInvalidConfig,
				"server %q: stdio transport requires a command", name)
		}
		if spec.EffectiveTransport() != overture.TransportStdio && spec.URL == "" {
			return errors.Wrapf(overtureerrors.ErrInvalidConfig,
				"server %q: %s transport requires a url", name, spec.EffectiveTransport())
		}

		if spec.Platforms != nil {
			for platform := range spec.Platforms.CommandOverrides {
				if !validPlatform(platform) {
					return errors.Wrapf(overtureerrors.ErrInvalidConfig,
						"server %q: unknown platform %q", name, platform)
				}
			}
			for _, platform := range spec.Platforms.Exclude {
				if !validPlatform(platform) {
					return errors.Wrapf(overtureerrors.ErrInvalidConfig,
						"server %q: unknown platform %q", name, platform)
				}
			}
		}
	}

	return nil
}

func validPlatform(name string) bool {
	switch name {
	case "darwin", "linux", "windows":
		return true
	}
	return false
}
