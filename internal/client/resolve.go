package client

import (
	"slices"

	"github.com/thoreinstein/overture/internal/overture"
)

// Resolved is the outcome of the filter-then-override algorithm for one
// server entry: the effective launch values for a specific client on a
// specific platform, before mapping into the client's on-disk encoding.
type Resolved struct {
	Name      string
	Command   string
	Args      []string
	Env       map[string]string
	URL       string
	Transport overture.Transport
}

// Eligible applies the eligibility filter: a server is excluded when the
// platform is excluded, the client is excluded, an include-list omits the
// client, or the client does not support the server's transport. The four
// predicates are independent; order does not affect the outcome.
func Eligible(spec *overture.ServerSpec, clientID, platform string, a Adapter) bool {
	if spec.Platforms != nil && slices.Contains(spec.Platforms.Exclude, platform) {
		return false
	}
	if spec.Clients != nil {
		if slices.Contains(spec.Clients.Exclude, clientID) {
			return false
		}
		if len(spec.Clients.Include) > 0 && !slices.Contains(spec.Clients.Include, clientID) {
			return false
		}
	}
	return a.SupportsTransport(spec.EffectiveTransport())
}

// Resolve executes the filter-then-override algorithm for one entry.
// Returns nil when the entry is ineligible for this client on this
// platform. The input spec is never mutated; args and env are copied.
//
// Override precedence: client override beats platform override beats base.
// Command, args and URL are full replacements. Env merges key-by-key with
// override values winning. An override transport applies to the emitted
// record only; the eligibility filter has already run and the override is
// deliberately not re-validated against SupportsTransport.
func Resolve(spec *overture.ServerSpec, clientID, platform string, a Adapter) *Resolved {
	if !Eligible(spec, clientID, platform, a) {
		return nil
	}

	r := &Resolved{
		Name:      spec.Name,
		Command:   spec.Command,
		Args:      slices.Clone(spec.Args),
		Env:       copyEnv(spec.Env),
		URL:       spec.URL,
		Transport: spec.EffectiveTransport(),
	}

	if spec.Platforms != nil {
		if cmd, ok := spec.Platforms.CommandOverrides[platform]; ok {
			r.Command = cmd
		}
		if args, ok := spec.Platforms.ArgsOverrides[platform]; ok {
			// Full replacement: positional args are order-sensitive and a
			// partial merge would be ambiguous.
			r.Args = slices.Clone(args)
		}
	}

	if spec.Clients != nil {
		if ov := spec.Clients.Overrides[clientID]; ov != nil {
			if ov.Command != nil {
				r.Command = *ov.Command
			}
			if ov.Args != nil {
				r.Args = slices.Clone(ov.Args)
			}
			if ov.URL != nil {
				r.URL = *ov.URL
			}
			for k, v := range ov.Env {
				if r.Env == nil {
					r.Env = make(map[string]string, len(ov.Env))
				}
				r.Env[k] = v
			}
			if ov.Transport != nil {
				r.Transport = *ov.Transport
			}
		}
	}

	if a.NeedsEnvExpansion() {
		r.Env = overture.ExpandEnvMap(r.Env, nil)
	}

	// Keep generated files minimal: an empty env map is dropped entirely.
	if len(r.Env) == 0 {
		r.Env = nil
	}

	// A stdio launch always carries an explicit args list, even when empty.
	if r.Transport == overture.TransportStdio && r.Args == nil {
		r.Args = []string{}
	}

	return r
}

func copyEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

// Convert resolves every server in cfg for the adapter and assembles a
// ConfigFile using encode to map each resolved entry into the client's
// per-entry shape. This is the shared body of ConvertFromOverture.
func Convert(cfg *overture.MergedConfig, platform string, a Adapter, encode func(*Resolved) *ServerDef) *ConfigFile {
	out := NewConfigFile(a.RootKey())

	for _, name := range cfg.ServerNames() {
		spec := cfg.Servers[name]
		r := Resolve(spec, a.Name(), platform, a)
		if r == nil {
			continue
		}
		out.Servers[name] = encode(r)
	}

	return out
}
