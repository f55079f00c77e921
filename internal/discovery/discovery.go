// Package discovery locates client installations, deciding for each client
// whether sync has a real target to write to.
//
// Discovery runs a fixed pipeline per client: explicit settings first
// (a disabled client is skipped, a configured binary path that exists wins
// outright), then a native probe of PATH and app bundles, then a WSL2
// fallback that searches the Windows side of the mount when the process
// runs inside WSL2.
package discovery

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/detect"
	"github.com/thoreinstein/overture/internal/logging"
)

// Status classifies the outcome of discovery for one client.
type Status string

const (
	// StatusFound means an installation was located.
	StatusFound Status = "found"

	// StatusNotFound means every probe came up empty.
	StatusNotFound Status = "not-found"

	// StatusSkipped means the operator disabled the client in settings.
	StatusSkipped Status = "skipped"
)

// Source names which pipeline stage produced a found result.
type Source string

const (
	// SourceOverride means settings supplied the location directly.
	SourceOverride Source = "config-override"

	// SourceNative means the probe found the client on this OS.
	SourceNative Source = "native"

	// SourceWSL2 means the Windows side of a WSL2 mount had the client.
	SourceWSL2 Source = "wsl2-fallback"
)

// Mode controls which probe stages run.
type Mode string

const (
	// ModeAuto runs the native probe and falls back to WSL2 when the
	// environment looks like WSL2.
	ModeAuto Mode = "auto"

	// ModeNative disables the WSL2 fallback.
	ModeNative Mode = "native"

	// ModeWSL2 skips the native probe and searches the mount directly.
	ModeWSL2 Mode = "wsl2"
)

// ClientOverride carries per-client discovery settings.
type ClientOverride struct {
	// Disabled skips the client entirely.
	Disabled bool

	// BinaryPath, when set and pointing at an existing file, is taken as
	// the client binary without probing. An absent path is advisory only;
	// the normal probe pipeline still runs.
	BinaryPath string

	// ConfigPath, when set, replaces the detected config location on any
	// found result.
	ConfigPath string
}

// Result is the discovery outcome for one client.
type Result struct {
	Client     string
	Status     Status
	Source     Source
	BinaryPath string
	BundlePath string
	ConfigPath string
	Version    string
	Warnings   []string
}

// Options configures a discovery run.
type Options struct {
	// Mode selects the probe stages; empty means ModeAuto.
	Mode Mode

	// Overrides holds per-client settings keyed by client id.
	Overrides map[string]ClientOverride

	// ExtraProfileRoots adds Windows profile directories to search during
	// the WSL2 fallback, for mounts outside /mnt/c/Users.
	ExtraProfileRoots []string
}

// Service runs discovery across a registry of adapters.
type Service struct {
	registry *client.Registry
	prober   *detect.Prober
	env      *wslEnv
	stat     func(string) (os.FileInfo, error)
	opts     Options
	logger   *slog.Logger
}

// NewService creates a discovery service over the given registry.
func NewService(registry *client.Registry, prober *detect.Prober, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	return &Service{
		registry: registry,
		prober:   prober,
		env:      defaultWSLEnv(),
		stat:     os.Stat,
		opts:     opts,
		logger:   logger,
	}
}

// DiscoverAll probes every registered client concurrently and returns
// results in registration order.
func (s *Service) DiscoverAll(ctx context.Context, platform string) []*Result {
	adapters := s.registry.All()
	results := make([]*Result, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a client.Adapter) {
			defer wg.Done()
			results[i] = s.Discover(ctx, a, platform)
		}(i, a)
	}
	wg.Wait()

	return results
}

// Discover runs the full pipeline for one client.
func (s *Service) Discover(ctx context.Context, a client.Adapter, platform string) *Result {
	name := a.Name()
	override := s.opts.Overrides[name]

	if override.Disabled {
		s.logger.Debug("client disabled in settings", "client", name)
		return &Result{Client: name, Status: StatusSkipped}
	}

	if override.BinaryPath != "" {
		if _, err := s.stat(override.BinaryPath); err == nil {
			result := &Result{
				Client:     name,
				Status:     StatusFound,
				Source:     SourceOverride,
				BinaryPath: override.BinaryPath,
				ConfigPath: override.ConfigPath,
			}
			if result.ConfigPath == "" {
				result.ConfigPath = a.DetectConfigPath(platform, "")
			}
			return result
		}
		// The override is advisory, not exclusive; an absent path falls
		// through to the probe pipeline.
		s.logger.Debug("configured binary path does not exist, probing instead",
			"client", name, "path", override.BinaryPath)
	}

	result := s.probe(ctx, a, platform)
	if result.Status == StatusFound && override.ConfigPath != "" {
		result.ConfigPath = override.ConfigPath
	}
	return result
}

// probe runs the native and WSL2 stages according to the configured mode.
func (s *Service) probe(ctx context.Context, a client.Adapter, platform string) *Result {
	if s.opts.Mode != ModeWSL2 {
		if result := s.probeNative(ctx, a, platform); result != nil {
			return result
		}
	}

	if s.opts.Mode != ModeNative && s.env.isWSL2() {
		if result := s.probeWSL2(a); result != nil {
			return result
		}
	}

	s.logger.Debug("client not found", "client", a.Name())
	return &Result{Client: a.Name(), Status: StatusNotFound}
}

func (s *Service) probeNative(ctx context.Context, a client.Adapter, platform string) *Result {
	probe := s.prober.Probe(ctx, a, platform)
	if !probe.Installed(a.RequiresBinary()) {
		return nil
	}

	result := &Result{
		Client:     a.Name(),
		Status:     StatusFound,
		Source:     SourceNative,
		BinaryPath: probe.BinaryPath,
		BundlePath: probe.BundlePath,
		ConfigPath: probe.ConfigPath,
		Version:    probe.Version,
	}
	if !probe.ConfigValid {
		result.Warnings = append(result.Warnings,
			"existing config file does not parse and will be treated as empty")
	}
	return result
}
