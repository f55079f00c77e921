// Package lock serializes sync runs with a filesystem sentinel.
//
// The sentinel is created with O_CREATE|O_EXCL, which is atomic on every
// supported filesystem, and records the holder's PID so a lock left behind
// by a crashed process can be reclaimed.
package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
)

// StaleAfter is the age past which a sentinel is treated as abandoned even
// when its PID check is inconclusive.
const StaleAfter = 10 * time.Minute

// Info is the JSON payload written into the sentinel file.
type Info struct {
	PID       int       `json:"pid"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
}

// Lock is a held filesystem lock. Release removes the sentinel.
type Lock struct {
	path string
}

// Acquire takes the lock at path, failing fast with ErrLockHeld when
// another live process holds it. A stale sentinel, one whose recorded PID
// is no longer running or whose timestamp exceeds StaleAfter, is reclaimed.
func Acquire(path, command string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating lock directory")
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := writeSentinel(path, command)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrap(err, "creating lock file")
		}

		holder, readErr := readSentinel(path)
		if readErr == nil && !isStale(holder) {
			return nil, errors.Wrapf(overtureerrors.ErrLockHeld,
				"held by pid %d (%s) since %s",
				holder.PID, holder.Command, holder.Timestamp.Format(time.RFC3339))
		}

		// Unreadable or stale: remove and retry once. A concurrent
		// acquirer may win the retry, which is the correct outcome.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "removing stale lock")
		}
	}

	return nil, errors.Wrap(overtureerrors.ErrLockHeld, "lock contention")
}

// Release removes the sentinel. Releasing an already-removed lock is a
// no-op.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing lock file")
	}
	return nil
}

// Path returns the sentinel location.
func (l *Lock) Path() string { return l.path }

func writeSentinel(path, command string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	info := Info{
		PID:       os.Getpid(),
		Timestamp: time.Now().UTC(),
		Command:   command,
	}
	enc := json.NewEncoder(f)
	if err := enc.Encode(info); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func readSentinel(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale reports whether the recorded holder can be presumed dead.
func isStale(info *Info) bool {
	if info.PID > 0 && !processAlive(info.PID) {
		return true
	}
	return time.Since(info.Timestamp) > StaleAfter
}

// processAlive probes the PID with signal 0. An EPERM answer means the
// process exists but belongs to another user, which still counts as alive.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
