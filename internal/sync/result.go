package sync

// ClientResult is the outcome of syncing one client. A failed client never
// aborts the others; each carries its own error.
type ClientResult struct {
	// Client is the client identifier.
	Client string

	// Success is true when the client's config reached the desired state,
	// including the no-op case where it already matched.
	Success bool

	// ConfigPath is the file the sync targeted. For dry runs this is the
	// staging copy, not the live path.
	ConfigPath string

	// Diff describes the server entry changes.
	Diff Diff

	// BackupID identifies the pre-write snapshot, empty when no backup was
	// taken (dry run, backups disabled, or no file existed yet).
	BackupID string

	// Warnings carries advisory messages (unsupported transports, clients
	// not addressable on this platform).
	Warnings []string

	// Err is set when the client failed.
	Err error
}

// Result aggregates the per-client outcomes of one sync run.
type Result struct {
	Clients []ClientResult
	DryRun  bool
}

// Ok reports whether every client succeeded.
func (r *Result) Ok() bool {
	for _, c := range r.Clients {
		if !c.Success {
			return false
		}
	}
	return true
}

// Failed returns the clients that did not succeed.
func (r *Result) Failed() []ClientResult {
	var failed []ClientResult
	for _, c := range r.Clients {
		if !c.Success {
			failed = append(failed, c)
		}
	}
	return failed
}
