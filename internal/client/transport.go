package client

import (
	"fmt"

	"github.com/thoreinstein/overture/internal/overture"
)

// Validation is the transport compatibility verdict for one server entry.
type Validation struct {
	Name      string
	Transport overture.Transport
	Supported bool
}

// ValidationResult holds the per-entry verdicts for one adapter plus the
// derived views the sync engine consumes.
type ValidationResult struct {
	Entries []Validation
}

// ValidateTransports checks every server in cfg against the adapter's
// transport capabilities. Pure function; the full entry list is evaluated
// regardless of failures so operators see every incompatibility at once.
func ValidateTransports(cfg *overture.MergedConfig, a Adapter) ValidationResult {
	result := ValidationResult{
		Entries: make([]Validation, 0, len(cfg.Servers)),
	}

	for _, name := range cfg.ServerNames() {
		t := cfg.Servers[name].EffectiveTransport()
		result.Entries = append(result.Entries, Validation{
			Name:      name,
			Transport: t,
			Supported: a.SupportsTransport(t),
		})
	}

	return result
}

// Warnings returns one human-readable message per unsupported entry,
// naming the entry and the transport so operators are told why an entry
// disappeared from the client's output.
func (r ValidationResult) Warnings(clientName string) []string {
	var warnings []string
	for _, v := range r.Entries {
		if !v.Supported {
			warnings = append(warnings,
				fmt.Sprintf("server %q uses transport %q, which client %q does not support", v.Name, v.Transport, clientName))
		}
	}
	return warnings
}

// AllSupported reports whether every entry passed.
func (r ValidationResult) AllSupported() bool {
	for _, v := range r.Entries {
		if !v.Supported {
			return false
		}
	}
	return true
}

// Filtered returns only the servers from cfg that passed validation.
func (r ValidationResult) Filtered(cfg *overture.MergedConfig) map[string]*overture.ServerSpec {
	supported := make(map[string]*overture.ServerSpec)
	for _, v := range r.Entries {
		if v.Supported {
			supported[v.Name] = cfg.Servers[v.Name]
		}
	}
	return supported
}
