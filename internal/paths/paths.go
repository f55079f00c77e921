package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the application name used for config and state directories.
const AppName = "overture"

// ProjectConfigName is the project-local server definition file, looked up
// in the project root.
const ProjectConfigName = ".overture.yaml"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error. Use ResolveHome for error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory, used for derived
// artifacts (backups, dry-run output, the process lock).
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the overture configuration directory.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// SettingsPath returns the path to the tool settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ServersPath returns the path to the user-global server definition file.
func ServersPath() string {
	return filepath.Join(ConfigDir(), "servers.yaml")
}

// BackupDir returns the default root directory for client config backups.
func BackupDir() string {
	return filepath.Join(StateHome(), AppName, "backups")
}

// DryRunDir returns the directory where dry-run sync output is written
// instead of the live client config paths.
func DryRunDir() string {
	return filepath.Join(StateHome(), AppName, "dry-run")
}

// LockPath returns the process lock sentinel path. There is a single lock
// per tool installation, not per client.
func LockPath() string {
	return filepath.Join(StateHome(), AppName, "overture.lock")
}
