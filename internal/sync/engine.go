// Package sync applies the merged server configuration to client config
// files.
//
// A run is serialized behind a process lock, backs each target file up
// before the first write, and isolates clients from each other: one
// client's failure is recorded in its result while the rest proceed.
// Dry runs write the would-be output into the state directory instead of
// the live paths and skip both the lock and the backups.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/overture/internal/backup"
	"github.com/thoreinstein/overture/internal/client"
	overtureerrors "github.com/thoreinstein/overture/internal/errors"
	"github.com/thoreinstein/overture/internal/lock"
	"github.com/thoreinstein/overture/internal/logging"
	"github.com/thoreinstein/overture/internal/overture"
	"github.com/thoreinstein/overture/internal/paths"
)

// Options controls a sync run.
type Options struct {
	// DryRun stages output under the state directory instead of writing
	// live config files.
	DryRun bool

	// Force proceeds past advisory failures: an unparseable existing
	// config is treated as empty instead of failing the client, and
	// unsupported-transport entries are filtered with a warning instead
	// of refusing the client outright.
	Force bool

	// Clients restricts the run to the named clients. Empty means every
	// registered client that is enabled in the merged configuration.
	Clients []string

	// NotInstalled lists clients discovery could not locate (or that are
	// disabled in discovery settings). They are dropped from default
	// target selection; explicitly named clients sync regardless.
	NotInstalled []string

	// ProjectRoot, when set, targets project-scope config files for
	// clients that have them.
	ProjectRoot string

	// Platform is the GOOS-style platform name the run resolves against.
	Platform string
}

// Engine executes sync runs over a registry of client adapters.
type Engine struct {
	registry  *client.Registry
	backups   *backup.Manager
	lockPath  string
	dryRunDir string
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLockPath overrides the process lock location.
func WithLockPath(path string) EngineOption {
	return func(e *Engine) { e.lockPath = path }
}

// WithDryRunDir overrides where dry-run output is staged.
func WithDryRunDir(dir string) EngineOption {
	return func(e *Engine) { e.dryRunDir = dir }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a sync engine.
func NewEngine(registry *client.Registry, backups *backup.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:  registry,
		backups:   backups,
		lockPath:  paths.LockPath(),
		dryRunDir: paths.DryRunDir(),
		logger:    logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sync applies cfg to every target client. The returned Result always
// covers every target; an error return means the run could not start at
// all (lock held, unknown client name).
func (e *Engine) Sync(ctx context.Context, cfg *overture.MergedConfig, opts Options) (*Result, error) {
	adapters, err := e.targets(cfg, opts)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		held, err := lock.Acquire(e.lockPath, "sync")
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := held.Release(); err != nil {
				e.logger.Warn("releasing sync lock", "error", err)
			}
		}()
	}

	result := &Result{DryRun: opts.DryRun}
	for _, a := range adapters {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Clients = append(result.Clients, e.syncClient(cfg, a, opts))
	}

	return result, nil
}

// targets resolves the adapter list for the run.
func (e *Engine) targets(cfg *overture.MergedConfig, opts Options) ([]client.Adapter, error) {
	if len(opts.Clients) > 0 {
		adapters := make([]client.Adapter, 0, len(opts.Clients))
		for _, name := range opts.Clients {
			a, err := e.registry.Lookup(name)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}
		return adapters, nil
	}

	var adapters []client.Adapter
	for _, a := range e.registry.All() {
		if slices.Contains(opts.NotInstalled, a.Name()) {
			e.logger.Debug("client not installed", "client", a.Name())
			continue
		}
		if !cfg.ClientEnabled(a.Name()) {
			e.logger.Debug("client disabled in configuration", "client", a.Name())
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// syncClient runs the full pipeline for one client and never lets an error
// escape; failures land in the result.
func (e *Engine) syncClient(cfg *overture.MergedConfig, a client.Adapter, opts Options) ClientResult {
	name := a.Name()
	result := ClientResult{Client: name}

	path := a.DetectConfigPath(opts.Platform, opts.ProjectRoot)
	if path == "" {
		// Not an error: the client has no config location here (Claude
		// Desktop on Linux, Codex with a project root).
		result.Success = true
		result.Warnings = append(result.Warnings, "no config location on this platform; skipped")
		return result
	}
	result.ConfigPath = path

	validation := client.ValidateTransports(cfg, a)
	transportWarnings := validation.Warnings(name)
	if !validation.AllSupported() && !opts.Force {
		result.Err = errors.Wrapf(overtureerrors.ErrTransportUnsupported,
			"refusing to sync (use force to write the supported entries only): %s",
			strings.Join(transportWarnings, "; "))
		return result
	}
	result.Warnings = append(result.Warnings, transportWarnings...)

	current, err := a.ReadConfig(path)
	if err != nil {
		if !opts.Force {
			result.Err = errors.Wrap(err, "refusing to overwrite a config that does not parse (use force to proceed)")
			return result
		}
		result.Warnings = append(result.Warnings, "existing config did not parse and was replaced")
		current = client.NewConfigFile(a.RootKey())
	}

	desired, err := a.ConvertFromOverture(cfg, opts.Platform)
	if err != nil {
		result.Err = err
		return result
	}

	result.Diff = Compute(current.Servers, desired.Servers)
	if !result.Diff.HasChanges() {
		e.logger.Debug("client already in sync", "client", name)
		result.Success = true
		return result
	}

	// Preserve everything outside the server section.
	out := current
	out.Servers = desired.Servers

	if opts.DryRun {
		stagedPath := filepath.Join(e.dryRunDir, name, filepath.Base(path))
		if err := a.WriteConfig(stagedPath, out); err != nil {
			result.Err = err
			return result
		}
		result.ConfigPath = stagedPath
		result.Success = true
		return result
	}

	if cfg.Sync.BackupEnabled() {
		manifest, err := e.backups.Backup(name, path)
		switch {
		case err == nil:
			result.BackupID = manifest.ID
		case errors.Is(err, backup.ErrNothingToBackup):
			// First sync for this client; nothing to snapshot.
		default:
			// Non-fatal: the write proceeds, but there is no snapshot
			// to roll back to.
			e.logger.Warn("backup failed", "client", name, "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("backup failed, writing without one: %v", err))
		}
	}

	if err := a.WriteConfig(path, out); err != nil {
		result.Err = err
		return result
	}

	e.logger.Info("client synced",
		"client", name,
		"path", path,
		"added", len(result.Diff.Added),
		"removed", len(result.Diff.Removed),
		"changed", len(result.Diff.Changed))
	result.Success = true
	return result
}
