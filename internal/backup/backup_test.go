package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/overture/pkg/fileutil"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// plantBackup creates a backup directory by hand so tests can control IDs
// and timestamps.
func plantBackup(t *testing.T, root, clientName, id string, createdAt time.Time) {
	t.Helper()
	dir := filepath.Join(root, clientName, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mcp.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    createdAt,
		Client:       clientName,
		OriginalPath: "/tmp/mcp.json",
		FileName:     "mcp.json",
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, "manifest.json"), manifest); err != nil {
		t.Fatal(err)
	}
}

func TestBackupAndRestore(t *testing.T) {
	root := t.TempDir()
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "mcp.json", `{"mcpServers":{}}`)

	m := NewManager(WithBackupDir(root))

	manifest, err := m.Backup("cursor", src)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if manifest.Client != "cursor" || manifest.OriginalPath != src {
		t.Errorf("manifest = %+v", manifest)
	}
	if manifest.SHA256Hash == "" {
		t.Error("manifest missing hash")
	}

	// Clobber the original, then restore.
	if err := os.WriteFile(src, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := m.Restore("cursor", manifest.ID); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"mcpServers":{}}` {
		t.Errorf("restored content = %q", data)
	}

	info, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("restored mode = %v, want original 0600", info.Mode().Perm())
	}
}

func TestBackup_MissingSource(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	_, err := m.Backup("cursor", filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNothingToBackup) {
		t.Errorf("error = %v, want ErrNothingToBackup", err)
	}
}

func TestRestore_CorruptedBackup(t *testing.T) {
	root := t.TempDir()
	src := writeSource(t, t.TempDir(), "mcp.json", "{}")

	m := NewManager(WithBackupDir(root))
	manifest, err := m.Backup("cursor", src)
	if err != nil {
		t.Fatal(err)
	}

	// Tamper with the stored copy.
	stored := filepath.Join(root, "cursor", manifest.ID, "mcp.json")
	if err := os.WriteFile(stored, []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Restore("cursor", manifest.ID); !errors.Is(err, ErrBackupCorrupted) {
		t.Errorf("error = %v, want ErrBackupCorrupted", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	plantBackup(t, root, "cursor", "20260801T100000", base)
	plantBackup(t, root, "cursor", "20260801T110000", base.Add(time.Hour))
	plantBackup(t, root, "cursor", "20260801T090000", base.Add(-time.Hour))

	m := NewManager(WithBackupDir(root))
	manifests, err := m.List("cursor")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"20260801T110000", "20260801T100000", "20260801T090000"}
	for i, manifest := range manifests {
		if manifest.ID != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, manifest.ID, want[i])
		}
	}
}

func TestList_Empty(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	if _, err := m.List("cursor"); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("error = %v, want ErrNoBackupsFound", err)
	}
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"20260801T100000", "20260801T110000", "20260801T120000"} {
		plantBackup(t, root, "cursor", id, base.Add(time.Duration(i)*time.Hour))
	}

	m := NewManager(WithBackupDir(root))
	if err := m.Prune("cursor", 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	manifests, err := m.List("cursor")
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) != 2 {
		t.Fatalf("backups after prune = %d, want 2", len(manifests))
	}
	if manifests[0].ID != "20260801T120000" || manifests[1].ID != "20260801T110000" {
		t.Errorf("prune removed the wrong backups: %s, %s", manifests[0].ID, manifests[1].ID)
	}
}

func TestBackup_RetentionApplied(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	plantBackup(t, root, "cursor", "20260801T100000", base)
	plantBackup(t, root, "cursor", "20260801T110000", base.Add(time.Hour))

	src := writeSource(t, t.TempDir(), "mcp.json", "{}")

	m := NewManager(WithBackupDir(root), WithRetentionCount(2))
	if _, err := m.Backup("cursor", src); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	manifests, err := m.List("cursor")
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) != 2 {
		t.Errorf("backups after retention = %d, want 2", len(manifests))
	}
	if manifests[len(manifests)-1].ID == "20260801T100000" {
		t.Error("oldest backup survived retention pruning")
	}
}
