package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
)

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "overture.lock")
}

func TestAcquireRelease(t *testing.T) {
	path := lockPath(t)

	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("sentinel missing: %v", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("sentinel is not JSON: %v", err)
	}
	if info.PID != os.Getpid() {
		t.Errorf("sentinel pid = %d, want %d", info.PID, os.Getpid())
	}
	if info.Command != "sync" {
		t.Errorf("sentinel command = %q", info.Command)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("sentinel survived release")
	}
}

func TestAcquire_HeldByLiveProcess(t *testing.T) {
	path := lockPath(t)

	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	// The current process is alive and the sentinel is fresh.
	_, err = Acquire(path, "sync")
	if !errors.Is(err, overtureerrors.ErrLockHeld) {
		t.Errorf("error = %v, want ErrLockHeld", err)
	}
}

func TestAcquire_ReclaimsDeadPID(t *testing.T) {
	path := lockPath(t)

	// PIDs wrap below ~4 million; this one can never be live.
	plantSentinel(t, path, Info{
		PID:       1 << 30,
		Timestamp: time.Now().UTC(),
		Command:   "sync",
	})

	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatalf("Acquire() error = %v, want reclaim of dead holder", err)
	}
	defer l.Release()
}

func TestAcquire_ReclaimsExpired(t *testing.T) {
	path := lockPath(t)

	plantSentinel(t, path, Info{
		PID:       os.Getpid(),
		Timestamp: time.Now().UTC().Add(-StaleAfter - time.Minute),
		Command:   "sync",
	})

	// The holder PID is alive (it is us), but a sentinel past the
	// staleness deadline is reclaimed regardless.
	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatalf("Acquire() error = %v, want reclaim of expired sentinel", err)
	}
	defer l.Release()
}

func TestAcquire_UnreadableSentinelReclaimed(t *testing.T) {
	path := lockPath(t)
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatalf("Acquire() error = %v, want reclaim of unreadable sentinel", err)
	}
	defer l.Release()
}

func TestRelease_Idempotent(t *testing.T) {
	path := lockPath(t)
	l, err := Acquire(path, "sync")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v, want nil", err)
	}
}

func plantSentinel(t *testing.T, path string, info Info) {
	t.Helper()
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}
