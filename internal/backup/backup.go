// Package backup snapshots client config files before sync rewrites them.
//
// Each backup is a timestamped directory under the backup root, grouped by
// client, holding a copy of the config file plus a manifest with a SHA256
// hash for integrity checks on restore.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/overture/internal/paths"
	"github.com/thoreinstein/overture/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Manager handles backup creation, restoration, and pruning.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of backups to retain per client.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup snapshots one client config file. A missing source file is not an
// error; it returns ErrNothingToBackup so callers can skip the step for a
// client being configured for the first time.
//
// After a successful snapshot, backups beyond the retention count are
// pruned, oldest first.
func (m *Manager) Backup(clientName, configPath string) (*Manifest, error) {
	if clientName == "" {
		return nil, errors.New("client name is required")
	}
	if configPath == "" {
		return nil, errors.New("config path is required")
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNothingToBackup
		}
		return nil, errors.Wrapf(err, "stat %s", configPath)
	}

	backupID := time.Now().Format(IDFormat)
	backupPath := m.backupPath(clientName, backupID)

	if err := os.MkdirAll(backupPath, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	dst := filepath.Join(backupPath, filepath.Base(configPath))
	hash, mode, err := copyFile(configPath, dst)
	if err != nil {
		os.RemoveAll(backupPath)
		return nil, errors.Wrapf(err, "backing up %s", configPath)
	}

	manifest := &Manifest{
		Version:         ManifestVersion,
		CreatedAt:       time.Now().UTC(),
		Client:          clientName,
		OriginalPath:    configPath,
		FileName:        filepath.Base(configPath),
		SHA256Hash:      hash,
		Mode:            mode,
		OvertureVersion: Version,
		ID:              backupID,
	}

	manifestPath := filepath.Join(backupPath, "manifest.json")
	if err := fileutil.AtomicWriteJSON(manifestPath, manifest); err != nil {
		os.RemoveAll(backupPath)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(clientName, m.retentionCount); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Restore copies a backed up config file back to its original location
// after verifying its hash against the manifest.
func (m *Manager) Restore(clientName, backupID string) error {
	manifest, err := m.Get(clientName, backupID)
	if err != nil {
		return err
	}

	src := filepath.Join(m.backupPath(clientName, backupID), manifest.FileName)

	hash, err := hashFile(src)
	if err != nil {
		return errors.Wrapf(err, "reading backup file %s", manifest.FileName)
	}
	if hash != manifest.SHA256Hash {
		return errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", manifest.FileName)
	}

	if err := os.MkdirAll(filepath.Dir(manifest.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", manifest.OriginalPath)
	}
	if _, _, err := copyFile(src, manifest.OriginalPath); err != nil {
		return errors.Wrapf(err, "restoring %s", manifest.OriginalPath)
	}
	if err := os.Chmod(manifest.OriginalPath, manifest.Mode); err != nil {
		return errors.Wrapf(err, "setting permissions for %s", manifest.OriginalPath)
	}

	return nil
}

// List returns all backups for a client, newest first.
func (m *Manager) List(clientName string) ([]Manifest, error) {
	if clientName == "" {
		return nil, errors.New("client name is required")
	}

	clientDir := filepath.Join(m.rootDir, clientName)

	entries, err := os.ReadDir(clientDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(clientName, entry.Name())
		if err != nil {
			// Skip directories without a readable manifest.
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return manifests, nil
}

// Prune removes backups beyond the retention count, keeping the newest.
func (m *Manager) Prune(clientName string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(clientName)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		backupPath := m.backupPath(clientName, manifests[i].ID)
		if err := os.RemoveAll(backupPath); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}

	return nil
}

// Get loads the manifest for a specific backup.
func (m *Manager) Get(clientName, backupID string) (*Manifest, error) {
	manifestPath := filepath.Join(m.backupPath(clientName, backupID), "manifest.json")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	manifest, err := decodeManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing manifest for backup %s", backupID)
	}
	manifest.ID = backupID

	return manifest, nil
}

func (m *Manager) backupPath(clientName, backupID string) string {
	return filepath.Join(m.rootDir, clientName, backupID)
}

// copyFile copies src to dst and returns the SHA256 hash and mode of the
// source.
func copyFile(src, dst string) (string, os.FileMode, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination")
	}
	defer out.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		return "", 0, errors.Wrap(err, "copying file")
	}

	return hex.EncodeToString(h.Sum(nil)), info.Mode(), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
