// Package detect probes the local machine for installed clients.
//
// A client counts as installed when its launch binary is on PATH, or when
// its app bundle exists for clients that ship as desktop apps. The probe
// also captures the binary version and checks whether the client's config
// file currently parses, both advisory.
package detect

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/logging"
)

// DefaultVersionTimeout bounds the --version subprocess. A hung client
// binary must not stall the whole probe run.
const DefaultVersionTimeout = 3 * time.Second

// Result describes what the probe found for one client on this machine.
type Result struct {
	// Client is the client identifier the probe ran for.
	Client string

	// BinaryPath is the resolved executable path, empty when no candidate
	// binary was found on PATH.
	BinaryPath string

	// BinaryName is the candidate name that resolved, useful when a client
	// lists several (stable and insiders channels).
	BinaryName string

	// Version is the first line of the binary's --version output. Empty
	// when the probe timed out or the binary refused the flag; a missing
	// version never fails detection.
	Version string

	// BundlePath is the app bundle location that exists, empty when none do.
	BundlePath string

	// ConfigPath is the client's user-scope config location.
	ConfigPath string

	// ConfigValid reports whether the config file parses. A missing file
	// counts as valid; only a present-but-broken file clears it.
	ConfigValid bool
}

// Installed reports whether the probe evidence satisfies the client's
// installation requirements.
func (r *Result) Installed(requiresBinary bool) bool {
	if r.BinaryPath != "" {
		return true
	}
	if requiresBinary {
		return false
	}
	return r.BundlePath != ""
}

// Prober runs installation probes. The lookup and version hooks exist so
// tests can run without touching the real PATH or spawning processes.
type Prober struct {
	lookPath       func(name string) (string, error)
	statPath       func(path string) (os.FileInfo, error)
	versionTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithLookPath replaces the PATH lookup, used in tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Prober) { p.lookPath = fn }
}

// WithStat replaces the filesystem stat used for bundle probing.
func WithStat(fn func(string) (os.FileInfo, error)) Option {
	return func(p *Prober) { p.statPath = fn }
}

// WithVersionTimeout overrides the --version subprocess deadline.
func WithVersionTimeout(d time.Duration) Option {
	return func(p *Prober) { p.versionTimeout = d }
}

// WithLogger sets the probe logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) { p.logger = l }
}

// NewProber creates a prober with production defaults.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		lookPath:       exec.LookPath,
		statPath:       os.Stat,
		versionTimeout: DefaultVersionTimeout,
		logger:         logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe inspects the machine for one client on the given platform. It never
// returns an error: absence of evidence is a valid result, and advisory
// failures (version timeout, unreadable config) degrade individual fields
// instead of failing the probe.
func (p *Prober) Probe(ctx context.Context, a client.Adapter, platform string) *Result {
	result := &Result{
		Client:      a.Name(),
		ConfigPath:  a.DetectConfigPath(platform, ""),
		ConfigValid: true,
	}

	for _, name := range a.BinaryNames() {
		path, err := p.lookPath(name)
		if err != nil {
			continue
		}
		result.BinaryPath = path
		result.BinaryName = name
		break
	}

	if result.BinaryPath != "" {
		result.Version = p.probeVersion(ctx, result.BinaryPath)
	}

	for _, bundle := range a.BundlePaths(platform) {
		if _, err := p.statPath(bundle); err == nil {
			result.BundlePath = bundle
			break
		}
	}

	if result.ConfigPath != "" {
		if _, err := a.ReadConfig(result.ConfigPath); err != nil {
			p.logger.Warn("client config does not parse",
				"client", a.Name(), "path", result.ConfigPath, "error", err)
			result.ConfigValid = false
		}
	}

	return result
}

// probeVersion runs <binary> --version under a deadline and returns the
// first output line. Failures are logged at debug and reported as empty.
func (p *Prober) probeVersion(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, p.versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		p.logger.Debug("version probe failed", "binary", binary, "error", err)
		return ""
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}
