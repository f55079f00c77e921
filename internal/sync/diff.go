package sync

import (
	"sort"

	"github.com/thoreinstein/overture/internal/client"
)

// Diff summarizes how a sync would change one client's server entries.
// Sibling keys never appear here; sync only owns the server section.
type Diff struct {
	Added   []string
	Removed []string
	Changed []string
}

// Compute compares the current and desired server maps by name.
func Compute(current, desired map[string]*client.ServerDef) Diff {
	var d Diff

	for name, def := range desired {
		existing, ok := current[name]
		switch {
		case !ok:
			d.Added = append(d.Added, name)
		case !existing.Equal(def):
			d.Changed = append(d.Changed, name)
		}
	}
	for name := range current {
		if _, ok := desired[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)

	return d
}

// HasChanges reports whether applying the diff would modify the file.
func (d Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}
