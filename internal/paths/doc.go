// Package paths centralizes filesystem locations for overture.
//
// Configuration lives under the XDG config home
// (~/.config/overture on Linux), derived state (backups, dry-run output,
// the process lock) under the XDG state home. Client-specific config
// locations are owned by the individual adapters, not this package.
package paths
