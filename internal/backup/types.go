package backup

import (
	"encoding/json"
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// IDFormat is the timestamp layout used for backup identifiers.
const IDFormat = "20060102T150405"

// DefaultRetentionCount is the default number of backups kept per client.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the client.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the backed up file's SHA256 hash does
	// not match the manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackup indicates the config file does not exist yet.
	ErrNothingToBackup = errors.New("nothing to back up")
)

// Manifest describes one backup. It is stored as manifest.json inside the
// backup directory.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// Client is the client identifier the config belongs to.
	Client string `json:"client"`

	// OriginalPath is the absolute path the config was copied from.
	OriginalPath string `json:"original_path"`

	// FileName is the config file name inside the backup directory.
	FileName string `json:"file_name"`

	// SHA256Hash is the hex-encoded hash of the backed up file.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// OvertureVersion is the tool version that created the backup.
	OvertureVersion string `json:"overture_version"`

	// ID is the backup identifier (timestamp format: 20260123T100712).
	// Populated when loading from disk, not stored in JSON.
	ID string `json:"-"`
}

func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
